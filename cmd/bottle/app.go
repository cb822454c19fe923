package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/bottle"
	"github.com/conn-castle/bottle/internal/config"
	"github.com/conn-castle/bottle/internal/fetch"
	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/install"
	"github.com/conn-castle/bottle/internal/integrate"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

var (
	resolveSettings = config.Resolve
	userHomeDir     = config.UserHomeDir
	getwd           = os.Getwd
	openHistory     = history.Open
	newApp          = buildApp
)

// environment is the App a command runs against plus what must be released after.
type environment struct {
	App   *bottle.App
	close func()
}

// Close releases the history ledger.
func (e *environment) Close() {
	if e.close != nil {
		e.close()
	}
}

// buildApp wires the real collaborators from config.toml and the environment.
func buildApp(cmd *cobra.Command) (*environment, error) {
	settings, err := resolveSettings(os.Getenv)
	if err != nil {
		return nil, err
	}
	home, err := userHomeDir()
	if err != nil {
		return nil, err
	}
	cwd, err := getwd()
	if err != nil {
		return nil, fmt.Errorf(messages.CLIWorkingDirFmt, err)
	}

	cfg := settings.Config
	paths := settings.Paths
	stderr := cmd.ErrOrStderr()
	env := install.Env{Stdout: stderr, Stderr: stderr, Claude: cfg.ClaudeCommand}
	source := &fetch.Source{
		BaseURL:    cfg.ManifestBaseURL,
		BottlesDir: paths.BottlesDir,
		ToolsDir:   filepath.Join(paths.Home, "tools"),
		NoNetwork:  cfg.NoNetwork,
	}
	tools := install.NewTools(env)
	downloader := &install.Downloader{Dir: cfg.BinaryDir, NoNetwork: cfg.NoNetwork, Progress: stderr}

	e := &environment{}
	app := &bottle.App{
		Store:  state.NewFileStore(paths.Home),
		Source: source,
		Definitions: func(ctx context.Context) reconcile.ToolDefinitionSource {
			return fetch.NewDefinitions(ctx, source)
		},
		Installer: tools,
		Custom:    install.NewCustom(env, downloader, cfg.PreferredMethods()),
		MCP:       install.NewMCPServers(env, settings.Lookup(os.LookupEnv)),
		Plugins:   install.NewPlugins(env, cfg.Marketplace),
		Prereqs:   env,
		Presence:  tools,
		Integrations: &integrate.Integrator{
			Home:        home,
			Cwd:         cwd,
			Env:         env,
			Marketplace: cfg.Marketplace,
		},
		Prompter:   ui.NewHuhPrompter(),
		BottlesDir: paths.BottlesDir,
		Out:        cmd.OutOrStdout(),
		Err:        stderr,
	}
	if cfg.HistoryEnabled() {
		ledger, err := openHistory(cmd.Context(), paths.HistoryPath)
		if err != nil {
			ui.Warn(stderr, messages.HistoryUnavailFmt, err)
		} else {
			app.Ledger = ledger
			e.close = func() { _ = ledger.Close() }
		}
	}
	e.App = app
	return e, nil
}

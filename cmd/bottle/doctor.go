package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/config"
	"github.com/conn-castle/bottle/internal/doctor"
	"github.com/conn-castle/bottle/internal/fetch"
	"github.com/conn-castle/bottle/internal/install"
	"github.com/conn-castle/bottle/internal/integrate"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/templates"
)

var (
	checkUpdate     = doctor.CheckUpdate
	checkMCPServers = doctor.CheckMCPServers
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			home, err := config.HomeDir(os.Getenv)
			if err != nil {
				return err
			}
			paths := config.DefaultPaths(home)
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, paths.Home)

			var allResults []doctor.Result

			// 1. Config
			configResults, cfg := doctor.CheckConfig(paths)
			allResults = append(allResults, configResults...)
			if cfg == nil {
				cfg = &config.Config{BinaryDir: paths.BinDir}
			}
			noNetwork := cfg.NoNetwork || strings.TrimSpace(os.Getenv(config.EnvNoNetwork)) != ""

			// 2. Commands bottle installs with
			env := install.Env{Stdout: io.Discard, Stderr: io.Discard, Claude: cfg.ClaudeCommand}
			tools := install.NewTools(env)
			claude := cfg.ClaudeCommand
			if strings.TrimSpace(claude) == "" {
				claude = install.DefaultClaudeCommand
			}
			allResults = append(allResults, doctor.CheckCommands(tools, []string{"cargo", "brew", claude})...)

			// 3. State
			stateResults, current := doctor.CheckState(state.NewFileStore(paths.Home))
			allResults = append(allResults, stateResults...)

			source := &fetch.Source{
				BaseURL:    cfg.ManifestBaseURL,
				BottlesDir: paths.BottlesDir,
				ToolsDir:   filepath.Join(paths.Home, "tools"),
				NoNetwork:  noNetwork,
			}
			var active *manifest.Manifest
			if current != nil {
				// 4. Tools
				allResults = append(allResults, doctor.CheckTools(tools, fetch.NewDefinitions(ctx, source), current)...)

				// 5. Prerequisites and MCP servers of the active manifest
				m, err := source.Manifest(ctx, current.Bottle)
				if err != nil {
					allResults = append(allResults, doctor.Result{
						Status:         doctor.StatusWarn,
						CheckName:      messages.DoctorCheckNameManifest,
						Message:        fmt.Sprintf(messages.DoctorManifestFetchFailedFmt, current.Bottle, err),
						Recommendation: messages.DoctorManifestRecommend,
					})
				} else {
					active = m
					allResults = append(allResults, doctor.CheckPrerequisites(env.MissingPrerequisites(m))...)
				}
			}
			settings := &config.Settings{Paths: paths, Config: *cfg}
			if envVars, err := config.LoadEnv(paths.EnvPath); err == nil {
				settings.Env = envVars
			}
			allResults = append(allResults, checkMCPServers(ctx, active, settings.Lookup(os.LookupEnv))...)

			// 6. Codex skills
			userHome, err := userHomeDir()
			if err == nil {
				_, integrated := integrationsOf(current)[string(integrate.Codex)]
				names, err := templates.CodexSkills()
				if err != nil {
					return err
				}
				allResults = append(allResults, doctor.CheckSkills(integrate.CodexSkillsDir(userHome), integrated, names)...)
			}

			// 7. Update
			allResults = append(allResults, checkUpdate(ctx, Version, noNetwork))

			for _, r := range allResults {
				printResult(out, r)
			}
			_, _ = fmt.Fprintln(out)
			if doctor.HasFailure(allResults) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func integrationsOf(current *state.State) map[string]state.IntegrationRecord {
	if current == nil {
		return nil
	}
	return current.Integrations
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}

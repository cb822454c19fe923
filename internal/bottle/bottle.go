// Package bottle implements the bottle commands: install, switch, update,
// eject, status and the bespoke bottle tooling around them.
//
// Commands take every collaborator from an App so tests can run them against
// a MemoryStore, fake installers and a static prompter.
package bottle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/integrate"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

var (
	// ErrNoBottleInstalled reports a command that needs an active bottle.
	ErrNoBottleInstalled = errors.New(messages.BottleNoBottleInstalled)
	// ErrAlreadyEjected reports eject on an ejected bottle.
	ErrAlreadyEjected = errors.New(messages.BottleAlreadyEjected)
	// ErrInvalidModeTransition reports update or switch while ejected.
	ErrInvalidModeTransition = errors.New(messages.BottleInvalidModeTransition)
	// ErrCancelled reports a declined or dismissed confirmation.
	ErrCancelled = errors.New(messages.BottleCancelled)
	// ErrCompletedWithFailures is returned under --strict after state was saved.
	ErrCompletedWithFailures = errors.New(messages.BottleCompletedWithFailures)
	// ErrNameMismatch reports a fetched manifest whose name differs from the
	// bottle it was resolved for.
	ErrNameMismatch = errors.New(messages.BottleNameMismatch)
)

var startSpinner = ui.StartSpinner

// ManifestSource resolves bottle manifests.
type ManifestSource interface {
	// Manifest resolves name from bespoke bottles first, then the curated repository.
	Manifest(ctx context.Context, name string) (*manifest.Manifest, error)
	// Curated resolves name from the curated repository only.
	Curated(ctx context.Context, name string) (*manifest.Manifest, error)
	BespokePath(name string) (string, bool)
	ListBespoke() ([]string, error)
}

// Prerequisites checks the commands a manifest declares it needs.
type Prerequisites interface {
	CheckPrerequisites(m *manifest.Manifest) error
}

// PresenceChecker reports whether recorded items are actually installed.
type PresenceChecker interface {
	Available(command string) bool
	Present(def manifest.ToolDefinition, registered string) bool
	ListMCP() string
}

// Integrations installs and removes agent platform integrations.
type Integrations interface {
	Detect() []integrate.Detection
	Install(p integrate.Platform, opencodePlugins map[string]string) ([]string, error)
	Remove(p integrate.Platform, opencodePlugins map[string]string) error
	Installed(p integrate.Platform) bool
}

// Ledger records reconciliation runs.
type Ledger interface {
	Record(ctx context.Context, run history.Run) (string, error)
	List(ctx context.Context, limit int) ([]history.Run, error)
}

// marketplaceUpdater is implemented by plugin installers that can refresh
// their marketplace index before an update.
type marketplaceUpdater interface {
	UpdateMarketplace() error
}

// App holds the collaborators shared by all commands.
type App struct {
	Store  state.Store
	Source ManifestSource
	// Definitions returns the tool definition resolver for one command run.
	Definitions func(ctx context.Context) reconcile.ToolDefinitionSource

	Installer reconcile.Installer
	Custom    reconcile.CustomInstaller
	MCP       reconcile.MCPRegistrar
	Plugins   reconcile.PluginInstaller
	Prereqs   Prerequisites
	Presence  PresenceChecker

	Integrations Integrations
	// Ledger is nil when history is disabled.
	Ledger   Ledger
	Prompter ui.Prompter

	// BottlesDir is where create writes bespoke bottles.
	BottlesDir string
	Out        io.Writer
	Err        io.Writer
	Now        func() time.Time
}

// Options are the flags shared by the reconciling commands.
type Options struct {
	// Yes skips confirmation prompts.
	Yes bool
	// DryRun prints the plan and stops.
	DryRun bool
	// Strict turns per-item failures into ErrCompletedWithFailures.
	Strict bool
	// Manifest installs from a manifest file instead of resolving a name.
	Manifest string
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

func (a *App) out() io.Writer {
	if a.Out == nil {
		return io.Discard
	}
	return a.Out
}

func (a *App) errOut() io.Writer {
	if a.Err == nil {
		return io.Discard
	}
	return a.Err
}

// loadActive returns the active state, or nil when none is recorded.
func (a *App) loadActive() (*state.State, error) {
	current, err := a.Store.LoadActive()
	if err != nil {
		return nil, fmt.Errorf(messages.BottleLoadStateFmt, err)
	}
	return current, nil
}

// loadManaged returns the active state and refuses ejected bottles.
func (a *App) loadManaged() (*state.State, error) {
	current, err := a.loadActive()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoBottleInstalled
	}
	if !current.IsManaged() {
		return nil, fmt.Errorf("%w: "+messages.BottleEjectedUseInstallFmt, ErrInvalidModeTransition, current.Bottle, current.Bottle)
	}
	return current, nil
}

// fetch resolves name behind a spinner on stderr. A manifest that declares
// another name is ErrNameMismatch.
func (a *App) fetch(ctx context.Context, message string, name string) (*manifest.Manifest, error) {
	stop := startSpinner(a.errOut(), message)
	defer stop()
	m, err := a.Source.Manifest(ctx, name)
	if err != nil {
		return nil, err
	}
	if m.Name != name {
		return nil, fmt.Errorf(messages.BottleNameMismatchFmt, ErrNameMismatch, name, m.Name)
	}
	return m, nil
}

// confirm asks title unless opts.Yes. A declined or dismissed prompt is ErrCancelled.
func (a *App) confirm(title string, def bool, opts Options) error {
	if opts.Yes {
		return nil
	}
	prompter := a.Prompter
	if prompter == nil {
		prompter = ui.NewHuhPrompter()
	}
	ok, err := prompter.Confirm(title, def)
	if errors.Is(err, ui.ErrAborted) {
		return ErrCancelled
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

func (a *App) checkPrerequisites(m *manifest.Manifest) error {
	if a.Prereqs == nil {
		return nil
	}
	return a.Prereqs.CheckPrerequisites(m)
}

func (a *App) executor(ctx context.Context, observe func(reconcile.Outcome)) *reconcile.Executor {
	var defs reconcile.ToolDefinitionSource
	if a.Definitions != nil {
		defs = a.Definitions(ctx)
	}
	return &reconcile.Executor{
		Definitions: defs,
		Installer:   a.Installer,
		Custom:      a.Custom,
		MCP:         a.MCP,
		Plugins:     a.Plugins,
		Now:         a.Now,
		Observe:     observe,
	}
}

// recordRun writes run to the ledger. Ledger problems only warn.
func (a *App) recordRun(ctx context.Context, run history.Run) {
	if a.Ledger == nil {
		return
	}
	if _, err := a.Ledger.Record(ctx, run); err != nil {
		ui.Warn(a.errOut(), messages.BottleHistoryWarnFmt, err)
	}
}

// historyItems converts executor outcomes into ledger items.
func historyItems(outcomes []reconcile.Outcome) []history.Item {
	items := make([]history.Item, 0, len(outcomes))
	for _, o := range outcomes {
		item := history.Item{
			Kind:        string(o.Kind),
			Name:        o.Name,
			Action:      string(o.Action),
			FromVersion: o.From,
			ToVersion:   o.To,
			Method:      o.Method,
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		items = append(items, item)
	}
	return items
}

// finish applies --strict to the failures of a completed run.
func finish(failures []reconcile.Failure, opts Options) error {
	if len(failures) == 0 || !opts.Strict {
		return nil
	}
	return fmt.Errorf("%w: "+messages.BottleFailedItemsFmt, ErrCompletedWithFailures, len(failures))
}

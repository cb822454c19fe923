package bottle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// Status prints the active bottle. With checkUpdates it also compares the
// record against the latest manifest snapshot.
func (a *App) Status(ctx context.Context, checkUpdates bool) error {
	current, err := a.Store.LoadActive()
	if errors.Is(err, state.ErrStateCorrupted) {
		return fmt.Errorf(messages.StatusCorruptedHintFmt, err)
	}
	if err != nil {
		return fmt.Errorf(messages.BottleLoadStateFmt, err)
	}

	out := a.out()
	if current == nil {
		_, _ = fmt.Fprintln(out, messages.StatusNoBottle)
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, messages.StatusAvailableHeader)
		a.printCurated(ctx, out, "")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, messages.StatusInstallHint)
		return nil
	}

	ui.BottleHeader(out, current.Bottle, current.BottleVersion)
	if !current.IsManaged() {
		ui.Warn(out, "%s", messages.StatusModeEjected)
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, messages.StatusToolsHeader)
	a.printTools(ctx, out, current)
	_, _ = fmt.Fprintln(out)

	if len(current.CustomTools) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottleCustomToolsHeader)
		for _, name := range sortedNames(current.CustomTools) {
			record := current.CustomTools[name]
			_, _ = fmt.Fprintf(out, messages.StatusToolLineFmt, name, record.Version, record.Method)
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(current.MCPServers) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottleMCPServersHeader)
		for _, name := range sortedNames(current.MCPServers) {
			_, _ = fmt.Fprintf(out, messages.StatusMCPServerFmt, name, current.MCPServers[name].Scope)
		}
		_, _ = fmt.Fprintln(out)
	}

	_, _ = fmt.Fprintln(out, messages.StatusIntegrationsHdr)
	if len(current.Integrations) == 0 {
		_, _ = fmt.Fprintln(out, messages.StatusNone)
	}
	for _, name := range sortedNames(current.Integrations) {
		installed := current.Integrations[name].InstalledAt.Format("2006-01-02")
		_, _ = fmt.Fprintf(out, messages.StatusIntegrationFmt, name, installed)
	}

	if checkUpdates && current.IsManaged() {
		_, _ = fmt.Fprintln(out)
		return a.printUpdateCheck(ctx, out, current)
	}
	return nil
}

// printTools lists recorded tools with a presence check. MCP registrations
// are listed once and shared across tools.
func (a *App) printTools(ctx context.Context, out io.Writer, current *state.State) {
	if len(current.Tools) == 0 {
		_, _ = fmt.Fprintln(out, messages.StatusNone)
		return
	}
	var defs reconcile.ToolDefinitionSource
	if a.Definitions != nil {
		defs = a.Definitions(ctx)
	}
	registered, listed := "", false
	for _, name := range sortedNames(current.Tools) {
		record := current.Tools[name]
		label := messages.StatusInstalled
		if a.Presence != nil {
			def := manifest.ToolDefinition{Name: name}
			if record.Method == state.MethodMcp {
				def.Type = manifest.ToolMCP
			}
			if defs != nil {
				if fetched, err := defs.Fetch(name); err == nil {
					def = *fetched
				}
			}
			if def.Type == manifest.ToolMCP && !listed {
				registered, listed = a.Presence.ListMCP(), true
			}
			if !a.Presence.Present(def, registered) {
				label = messages.StatusMissing
			}
		}
		_, _ = fmt.Fprintf(out, messages.StatusToolLineFmt, name, record.Version, label)
	}
}

func (a *App) printUpdateCheck(ctx context.Context, out io.Writer, current *state.State) error {
	target, err := a.fetch(ctx, messages.BottleCheckingUpdates, current.Bottle)
	if err != nil {
		ui.Warn(a.errOut(), messages.StatusFetchLatestFmt, current.Bottle)
		return nil
	}
	p := plan.Calculate(current, target)
	if p.IsNoop() && target.Version == current.BottleVersion {
		ui.Success(out, "%s", messages.StatusUpToDate)
		return nil
	}
	ui.Info(out, messages.StatusUpdateAvailFmt, current.Bottle, current.BottleVersion, target.Version)
	ui.RenderPlan(out, p)
	_, _ = fmt.Fprintln(out, messages.StatusRunUpdate)
	return nil
}

func sortedNames[V any](in map[string]V) []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

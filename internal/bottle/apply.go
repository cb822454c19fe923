package bottle

import (
	"context"
	"fmt"

	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// reconciliation is one confirmed run of the executor against a target.
type reconciliation struct {
	command string
	target  *manifest.Manifest
	plan    plan.Plan
	// tools is the state the tool plan was calculated from; nil for a fresh install.
	tools *state.State
	// prior supplies the custom tool and MCP server records to reconcile from.
	prior *state.State
	// carryCustom keeps prior custom tools untouched instead of reconciling them.
	carryCustom bool
	// next is the record to fill in and save.
	next        *state.State
	fromVersion string
}

// apply executes r, saves the resulting state and reports failures. It only
// returns an error when the state could not be saved.
func (a *App) apply(ctx context.Context, r reconciliation) ([]reconcile.Failure, error) {
	started := a.now()
	out := a.out()
	_, _ = fmt.Fprintln(out, messages.BottleApplyingHeader)
	exec := a.executor(ctx, func(o reconcile.Outcome) { ui.RenderOutcome(out, o) })

	var (
		priorCustom map[string]state.CustomToolRecord
		priorMCP    map[string]state.MCPServerRecord
	)
	if r.prior != nil {
		priorCustom = r.prior.CustomTools
		priorMCP = r.prior.MCPServers
	}

	result := exec.Execute(r.tools, r.plan)
	r.next.Tools = result.Tools
	outcomes := result.Outcomes

	if r.carryCustom {
		r.next.CustomTools = state.CloneMap(priorCustom)
	} else {
		custom := exec.ReconcileCustom(priorCustom, r.target.CustomTools)
		r.next.CustomTools = custom.CustomTools
		outcomes = append(outcomes, custom.Outcomes...)
	}

	servers := exec.ReconcileMCPServers(priorMCP, r.target.MCPServers)
	r.next.MCPServers = servers.MCPServers
	outcomes = append(outcomes, servers.Outcomes...)
	outcomes = append(outcomes, exec.InstallPlugins(r.target.Plugins)...)

	if err := a.Store.Save(r.next); err != nil {
		return nil, fmt.Errorf(messages.BottleSaveStateFmt, err)
	}
	if snippet := r.target.Snippet(); snippet != "" {
		if err := a.Store.SaveSnippet(r.next.Bottle, snippet); err != nil {
			return nil, fmt.Errorf(messages.BottleSaveSnippetFmt, err)
		}
	}

	a.recordRun(ctx, history.Run{
		Command:     r.command,
		Bottle:      r.next.Bottle,
		FromVersion: r.fromVersion,
		ToVersion:   r.target.Version,
		StartedAt:   started,
		FinishedAt:  a.now(),
		Items:       historyItems(outcomes),
	})

	failures := reconcile.Failures(outcomes)
	ui.RenderFailures(out, failures)
	if len(failures) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottleRetryHint)
	}
	_, _ = fmt.Fprintln(out)
	return failures, nil
}

// renderExtras lists the plugins, custom tools and MCP servers of m.
func (a *App) renderExtras(m *manifest.Manifest) {
	out := a.out()
	if len(m.Plugins) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottlePluginsHeader)
		for _, plugin := range m.Plugins {
			_, _ = fmt.Fprintf(out, messages.BottlePluginItemFmt, plugin)
		}
		_, _ = fmt.Fprintln(out)
	}
	if len(m.CustomTools) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottleCustomToolsHeader)
		for _, name := range m.CustomToolNames() {
			_, _ = fmt.Fprintf(out, messages.BottleListItemFmt, name, m.CustomTools[name].Version)
		}
		_, _ = fmt.Fprintln(out)
	}
	if len(m.MCPServers) > 0 {
		_, _ = fmt.Fprintln(out, messages.BottleMCPServersHeader)
		for _, name := range m.MCPServerNames() {
			_, _ = fmt.Fprintf(out, messages.BottleListItemFmt, name, m.MCPServers[name].EffectiveScope())
		}
		_, _ = fmt.Fprintln(out)
	}
}

// extrasChanged reports whether reconciling m against current would touch
// custom tools or MCP servers.
func extrasChanged(current *state.State, m *manifest.Manifest) bool {
	if len(current.CustomTools) != len(m.CustomTools) || len(current.MCPServers) != len(m.MCPServers) {
		return true
	}
	for name, spec := range m.CustomTools {
		record, ok := current.CustomTools[name]
		if !ok || record.Version != spec.Version {
			return true
		}
	}
	for name := range m.MCPServers {
		if _, ok := current.MCPServers[name]; !ok {
			return true
		}
	}
	return false
}

package reconcile

import (
	"fmt"
	"sort"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// CustomResult is the outcome of reconciling custom tools.
type CustomResult struct {
	CustomTools map[string]state.CustomToolRecord
	Failures    []Failure
	Outcomes    []Outcome
}

// ReconcileCustom installs custom tools whose recorded version differs from target.
// Records at the target version are kept verbatim, failed installs keep any prior
// record, and names absent from target are dropped from tracking.
func (e *Executor) ReconcileCustom(current map[string]state.CustomToolRecord, target map[string]manifest.CustomTool) CustomResult {
	out := make(map[string]state.CustomToolRecord, len(target))
	var outcomes []Outcome

	for _, name := range sortedKeys(target) {
		spec := target[name]
		old, had := current[name]
		if had && old.Version == spec.Version {
			out[name] = old
			outcomes = append(outcomes, e.record(Outcome{
				Kind: KindCustomTool, Name: name, Action: ActionUnchanged,
				From: old.Version, To: old.Version, Method: string(old.Method),
			}))
			continue
		}

		o := Outcome{Kind: KindCustomTool, Name: name, Action: ActionAdd, To: spec.Version}
		if had {
			o.Action = ActionInstall
			o.From = old.Version
		}
		var (
			method state.CustomMethod
			err    error
		)
		if e.Custom == nil {
			err = errNotConfigured
		} else {
			method, err = e.Custom.InstallCustom(name, spec)
		}
		if err != nil {
			o.Err = fmt.Errorf(messages.ReconcileCustomFmt, name, err)
			if had {
				out[name] = old
			}
		} else {
			out[name] = state.CustomToolRecord{Version: spec.Version, InstalledAt: e.now(), Method: method}
			o.Method = string(method)
		}
		outcomes = append(outcomes, e.record(o))
	}

	for _, name := range sortedKeys(current) {
		if _, ok := target[name]; ok {
			continue
		}
		old := current[name]
		outcomes = append(outcomes, e.record(Outcome{
			Kind: KindCustomTool, Name: name, Action: ActionUntrack, From: old.Version, Method: string(old.Method),
		}))
	}

	return CustomResult{CustomTools: out, Failures: Failures(outcomes), Outcomes: outcomes}
}

// MCPResult is the outcome of reconciling bespoke MCP servers.
type MCPResult struct {
	MCPServers map[string]state.MCPServerRecord
	Failures   []Failure
	Outcomes   []Outcome
}

// ReconcileMCPServers registers servers missing from current and unregisters
// servers target no longer lists. Registered servers are left alone. A failed
// unregistration keeps the record so the next run retries it.
func (e *Executor) ReconcileMCPServers(current map[string]state.MCPServerRecord, target map[string]manifest.MCPServer) MCPResult {
	out := make(map[string]state.MCPServerRecord, len(target))
	var outcomes []Outcome

	for _, name := range sortedKeys(target) {
		server := target[name]
		if old, ok := current[name]; ok {
			out[name] = old
			outcomes = append(outcomes, e.record(Outcome{Kind: KindMCPServer, Name: name, Action: ActionUnchanged, Method: old.Scope}))
			continue
		}
		scope := server.EffectiveScope()
		o := Outcome{Kind: KindMCPServer, Name: name, Action: ActionAdd, Method: string(scope)}
		switch {
		case e.MCP == nil:
			o.Err = errNotConfigured
		case scope != manifest.ScopeUser && scope != manifest.ScopeProject:
			o.Err = fmt.Errorf(messages.ReconcileMCPScopeFmt, name, scope)
		default:
			if err := e.MCP.Register(name, server); err != nil {
				o.Err = fmt.Errorf(messages.ReconcileMCPRegisterFmt, name, err)
			}
		}
		if o.Err == nil {
			out[name] = state.MCPServerRecord{InstalledAt: e.now(), Scope: string(scope)}
		}
		outcomes = append(outcomes, e.record(o))
	}

	for _, name := range sortedKeys(current) {
		if _, ok := target[name]; ok {
			continue
		}
		old := current[name]
		o := Outcome{Kind: KindMCPServer, Name: name, Action: ActionUnregister, Method: old.Scope}
		if e.MCP == nil {
			o.Err = errNotConfigured
		} else if err := e.MCP.Unregister(name); err != nil {
			o.Err = fmt.Errorf(messages.ReconcileUnregisterFmt, name, err)
		}
		if o.Err != nil {
			out[name] = old
		}
		outcomes = append(outcomes, e.record(o))
	}

	return MCPResult{MCPServers: out, Failures: Failures(outcomes), Outcomes: outcomes}
}

// InstallPlugins installs each plugin once, in order, collecting failures.
func (e *Executor) InstallPlugins(plugins []string) []Outcome {
	seen := make(map[string]bool, len(plugins))
	var outcomes []Outcome
	for _, plugin := range plugins {
		if seen[plugin] {
			continue
		}
		seen[plugin] = true
		o := Outcome{Kind: KindPlugin, Name: plugin, Action: ActionInstall}
		if e.Plugins == nil {
			o.Err = errNotConfigured
		} else if err := e.Plugins.InstallPlugin(plugin); err != nil {
			o.Err = fmt.Errorf(messages.ReconcilePluginFmt, plugin, err)
		}
		outcomes = append(outcomes, e.record(o))
	}
	return outcomes
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

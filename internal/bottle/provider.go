package bottle

import (
	"context"
	"errors"
	"time"

	"github.com/conn-castle/bottle/internal/mcp"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
)

// Provider answers MCP status server requests from an App.
type Provider struct {
	App *App
}

var _ mcp.Provider = Provider{}

// Status reports the active bottle.
func (p Provider) Status(_ context.Context) (mcp.StatusOutput, error) {
	current, err := p.App.loadActive()
	if err != nil {
		return mcp.StatusOutput{}, err
	}
	out := mcp.StatusOutput{
		Tools:        []mcp.ItemStatus{},
		CustomTools:  []mcp.ItemStatus{},
		MCPServers:   []mcp.ItemStatus{},
		Integrations: []mcp.ItemStatus{},
	}
	if current == nil {
		return out, nil
	}
	out.Installed = true
	out.Bottle = current.Bottle
	out.Version = current.BottleVersion
	out.Mode = string(current.Mode)
	for _, name := range sortedNames(current.Tools) {
		r := current.Tools[name]
		out.Tools = append(out.Tools, mcp.ItemStatus{Name: name, Version: r.Version, Method: string(r.Method), InstalledAt: stamp(r.InstalledAt)})
	}
	for _, name := range sortedNames(current.CustomTools) {
		r := current.CustomTools[name]
		out.CustomTools = append(out.CustomTools, mcp.ItemStatus{Name: name, Version: r.Version, Method: string(r.Method), InstalledAt: stamp(r.InstalledAt)})
	}
	for _, name := range sortedNames(current.MCPServers) {
		r := current.MCPServers[name]
		out.MCPServers = append(out.MCPServers, mcp.ItemStatus{Name: name, Method: r.Scope, InstalledAt: stamp(r.InstalledAt)})
	}
	for _, name := range sortedNames(current.Integrations) {
		out.Integrations = append(out.Integrations, mcp.ItemStatus{Name: name, InstalledAt: stamp(current.Integrations[name].InstalledAt)})
	}
	return out, nil
}

// Plan reports the tool changes between the active state and bottle, which
// defaults to the active bottle.
func (p Provider) Plan(ctx context.Context, bottle string) (mcp.PlanOutput, error) {
	current, err := p.App.loadActive()
	if err != nil {
		return mcp.PlanOutput{}, err
	}
	if bottle == "" {
		if current == nil {
			return mcp.PlanOutput{}, errors.New(messages.ProviderPlanNoBottle)
		}
		bottle = current.Bottle
	}
	target, err := p.App.Source.Manifest(ctx, bottle)
	if err != nil {
		return mcp.PlanOutput{}, err
	}

	changes := plan.Calculate(current, target)
	out := mcp.PlanOutput{
		Bottle:    target.Name,
		ToVersion: target.Version,
		Noop:      changes.IsNoop(),
		Changes:   []mcp.Change{},
	}
	if current != nil {
		out.FromVersion = current.BottleVersion
	}
	for _, add := range changes.Add {
		out.Changes = append(out.Changes, mcp.Change{Tool: add.Name, Action: "add", To: add.Version})
	}
	for _, c := range changes.Upgrade {
		out.Changes = append(out.Changes, mcp.Change{Tool: c.Name, Action: "upgrade", From: c.From, To: c.To})
	}
	for _, c := range changes.Downgrade {
		out.Changes = append(out.Changes, mcp.Change{Tool: c.Name, Action: "downgrade", From: c.From, To: c.To})
	}
	for _, name := range changes.Remove {
		out.Changes = append(out.Changes, mcp.Change{Tool: name, Action: "remove", From: current.Tools[name].Version})
	}
	return out, nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

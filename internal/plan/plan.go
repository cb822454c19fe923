// Package plan computes the changes needed to move installed tools to a manifest.
package plan

import (
	"sort"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/version"
)

// ToolVersion pairs a tool with a version.
type ToolVersion struct {
	Name    string
	Version string
}

// VersionChange is a tool moving between two versions.
type VersionChange struct {
	Name string
	From string
	To   string
}

// Plan lists per-tool actions. Every list is sorted by name and no name appears in two lists.
type Plan struct {
	Add       []ToolVersion
	Remove    []string
	Upgrade   []VersionChange
	Downgrade []VersionChange
	Unchanged []ToolVersion
}

// IsNoop reports whether applying the plan would change nothing.
func (p Plan) IsNoop() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0 && len(p.Upgrade) == 0 && len(p.Downgrade) == 0
}

// ChangeCount returns the number of tools the plan would touch.
func (p Plan) ChangeCount() int {
	return len(p.Add) + len(p.Remove) + len(p.Upgrade) + len(p.Downgrade)
}

// Calculate diffs the tools recorded in current against target.Tools.
// A nil current is treated as nothing installed.
func Calculate(current *state.State, target *manifest.Manifest) Plan {
	var currentTools map[string]state.ToolRecord
	if current != nil {
		currentTools = current.Tools
	}
	var targetTools map[string]string
	if target != nil {
		targetTools = target.Tools
	}
	return calculate(currentTools, targetTools)
}

// CalculateVersions diffs two name-to-version maps. It backs previews where the
// current side is another manifest rather than a recorded state.
func CalculateVersions(current map[string]string, target map[string]string) Plan {
	records := make(map[string]state.ToolRecord, len(current))
	for name, v := range current {
		records[name] = state.ToolRecord{Version: v}
	}
	return calculate(records, target)
}

func calculate(current map[string]state.ToolRecord, target map[string]string) Plan {
	var p Plan
	for name, want := range target {
		have, ok := current[name]
		if !ok {
			p.Add = append(p.Add, ToolVersion{Name: name, Version: want})
			continue
		}
		switch version.Compare(have.Version, want) {
		case version.Equal:
			p.Unchanged = append(p.Unchanged, ToolVersion{Name: name, Version: have.Version})
		case version.Less:
			p.Upgrade = append(p.Upgrade, VersionChange{Name: name, From: have.Version, To: want})
		case version.Greater:
			p.Downgrade = append(p.Downgrade, VersionChange{Name: name, From: have.Version, To: want})
		}
	}
	for name := range current {
		if _, ok := target[name]; !ok {
			p.Remove = append(p.Remove, name)
		}
	}

	sort.Slice(p.Add, func(i, j int) bool { return p.Add[i].Name < p.Add[j].Name })
	sort.Strings(p.Remove)
	sort.Slice(p.Upgrade, func(i, j int) bool { return p.Upgrade[i].Name < p.Upgrade[j].Name })
	sort.Slice(p.Downgrade, func(i, j int) bool { return p.Downgrade[i].Name < p.Downgrade[j].Name })
	sort.Slice(p.Unchanged, func(i, j int) bool { return p.Unchanged[i].Name < p.Unchanged[j].Name })
	return p
}

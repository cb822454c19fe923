package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/state"
)

type fakeCustom struct {
	fail      map[string]bool
	installed []string
}

func (f *fakeCustom) InstallCustom(name string, tool manifest.CustomTool) (state.CustomMethod, error) {
	f.installed = append(f.installed, name)
	if f.fail[name] {
		return "", errors.New("no method worked")
	}
	return tool.Install[0].Method, nil
}

type fakeMCP struct {
	failRegister   map[string]bool
	failUnregister map[string]bool
	registered     []string
	unregistered   []string
}

func (f *fakeMCP) Register(name string, _ manifest.MCPServer) error {
	f.registered = append(f.registered, name)
	if f.failRegister[name] {
		return errors.New("missing ${TOKEN}")
	}
	return nil
}

func (f *fakeMCP) Unregister(name string) error {
	f.unregistered = append(f.unregistered, name)
	if f.failUnregister[name] {
		return errors.New("claude not found")
	}
	return nil
}

type fakePlugins struct {
	fail      map[string]bool
	installed []string
}

func (f *fakePlugins) InstallPlugin(plugin string) error {
	f.installed = append(f.installed, plugin)
	if f.fail[plugin] {
		return errors.New("marketplace unreachable")
	}
	return nil
}

func customTool(version string, method state.CustomMethod) manifest.CustomTool {
	return manifest.CustomTool{Version: version, Install: []manifest.CustomInstall{{Method: method, Package: "pkg"}}}
}

func TestReconcileCustom(t *testing.T) {
	kept := state.CustomToolRecord{Version: "1.7.1", InstalledAt: earlier, Method: state.CustomBrew}
	stale := state.CustomToolRecord{Version: "13.0.0", InstalledAt: earlier, Method: state.CustomCargo}
	current := map[string]state.CustomToolRecord{
		"jq":   kept,
		"rg":   stale,
		"bat":  {Version: "0.1", InstalledAt: earlier, Method: state.CustomBrew},
		"gone": {Version: "1", InstalledAt: earlier, Method: state.CustomNpm},
	}
	target := map[string]manifest.CustomTool{
		"jq":  customTool("1.7.1", state.CustomBrew),
		"rg":  customTool("14.1.0", state.CustomCargo),
		"bat": customTool("0.2", state.CustomBrew),
		"fd":  customTool("9.0.0", state.CustomBinary),
	}
	custom := &fakeCustom{fail: map[string]bool{"bat": true}}
	exec := &Executor{Custom: custom, Now: func() time.Time { return now }}

	res := exec.ReconcileCustom(current, target)

	assert.Equal(t, []string{"bat", "fd", "rg"}, custom.installed)
	assert.Equal(t, kept, res.CustomTools["jq"])
	assert.Equal(t, state.CustomToolRecord{Version: "14.1.0", InstalledAt: now, Method: state.CustomCargo}, res.CustomTools["rg"])
	assert.Equal(t, state.CustomToolRecord{Version: "9.0.0", InstalledAt: now, Method: state.CustomBinary}, res.CustomTools["fd"])
	assert.Equal(t, "0.1", res.CustomTools["bat"].Version, "failed reinstall keeps prior record")
	assert.NotContains(t, res.CustomTools, "gone")
	require.Len(t, res.Failures, 1)
	assert.Equal(t, KindCustomTool, res.Failures[0].Kind)
}

func TestReconcileCustomFailedFreshInstallIsAbsent(t *testing.T) {
	exec := &Executor{Custom: &fakeCustom{fail: map[string]bool{"fd": true}}}
	res := exec.ReconcileCustom(nil, map[string]manifest.CustomTool{"fd": customTool("1", state.CustomNpm)})
	assert.Empty(t, res.CustomTools)
	assert.Len(t, res.Failures, 1)
}

func TestReconcileMCPServers(t *testing.T) {
	existing := state.MCPServerRecord{InstalledAt: earlier, Scope: "user"}
	current := map[string]state.MCPServerRecord{
		"keep":  existing,
		"drop":  {InstalledAt: earlier, Scope: "user"},
		"stuck": {InstalledAt: earlier, Scope: "project"},
	}
	target := map[string]manifest.MCPServer{
		"keep":   {Command: "k"},
		"new":    {Command: "n", Scope: manifest.ScopeProject},
		"broken": {Command: "b"},
		"weird":  {Command: "w", Scope: "global"},
	}
	registrar := &fakeMCP{failRegister: map[string]bool{"broken": true}, failUnregister: map[string]bool{"stuck": true}}
	exec := &Executor{MCP: registrar, Now: func() time.Time { return now }}

	res := exec.ReconcileMCPServers(current, target)

	assert.Equal(t, []string{"broken", "new"}, registrar.registered)
	assert.Equal(t, []string{"drop", "stuck"}, registrar.unregistered)
	assert.Equal(t, existing, res.MCPServers["keep"])
	assert.Equal(t, state.MCPServerRecord{InstalledAt: now, Scope: "project"}, res.MCPServers["new"])
	assert.Contains(t, res.MCPServers, "stuck")
	assert.NotContains(t, res.MCPServers, "drop")
	assert.NotContains(t, res.MCPServers, "broken")
	assert.NotContains(t, res.MCPServers, "weird")

	names := map[string]bool{}
	for _, f := range res.Failures {
		names[f.Name] = true
	}
	assert.Equal(t, map[string]bool{"broken": true, "weird": true, "stuck": true}, names)
}

func TestInstallPlugins(t *testing.T) {
	plugins := &fakePlugins{fail: map[string]bool{"wm": true}}
	exec := &Executor{Plugins: plugins}

	outcomes := exec.InstallPlugins([]string{"ba", "wm", "ba", "superego"})

	assert.Equal(t, []string{"ba", "wm", "superego"}, plugins.installed)
	failures := Failures(outcomes)
	require.Len(t, failures, 1)
	assert.Equal(t, "wm", failures[0].Name)
	assert.Equal(t, KindPlugin, failures[0].Kind)
}

package bottle

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/conn-castle/bottle/internal/fetch"
	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/integrate"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

var (
	earlier = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
)

type fakeSource struct {
	bottles map[string]*manifest.Manifest
	bespoke map[string]string
}

func (f *fakeSource) Manifest(_ context.Context, name string) (*manifest.Manifest, error) {
	m, ok := f.bottles[name]
	if !ok {
		return nil, &fetch.NotFoundError{Kind: fetch.KindBottle, Name: name}
	}
	copied := *m
	return &copied, nil
}

func (f *fakeSource) Curated(ctx context.Context, name string) (*manifest.Manifest, error) {
	return f.Manifest(ctx, name)
}

func (f *fakeSource) BespokePath(name string) (string, bool) {
	path, ok := f.bespoke[name]
	return path, ok
}

func (f *fakeSource) ListBespoke() ([]string, error) {
	names := make([]string, 0, len(f.bespoke))
	for name := range f.bespoke {
		names = append(names, name)
	}
	return names, nil
}

type fakeDefinitions struct{}

func (fakeDefinitions) Fetch(name string) (*manifest.ToolDefinition, error) {
	typ := manifest.ToolBinary
	if name == "oh-mcp" {
		typ = manifest.ToolMCP
	}
	return &manifest.ToolDefinition{Name: name, Type: typ}, nil
}

type fakeInstaller struct {
	fail        map[string]bool
	installed   []string
	unregisters []string
}

func (f *fakeInstaller) Install(def manifest.ToolDefinition, version string) (state.InstallMethod, error) {
	if f.fail[def.Name] {
		return "", errors.New("install exploded")
	}
	f.installed = append(f.installed, def.Name+"@"+version)
	if def.Type == manifest.ToolMCP {
		return state.MethodMcp, nil
	}
	return state.MethodCargo, nil
}

func (f *fakeInstaller) Unregister(name string) error {
	f.unregisters = append(f.unregisters, name)
	return nil
}

type fakeCustom struct {
	installed []string
}

func (f *fakeCustom) InstallCustom(name string, tool manifest.CustomTool) (state.CustomMethod, error) {
	f.installed = append(f.installed, name+"@"+tool.Version)
	return state.CustomBrew, nil
}

type fakeMCP struct {
	registered   []string
	unregistered []string
}

func (f *fakeMCP) Register(name string, _ manifest.MCPServer) error {
	f.registered = append(f.registered, name)
	return nil
}

func (f *fakeMCP) Unregister(name string) error {
	f.unregistered = append(f.unregistered, name)
	return nil
}

type fakePlugins struct {
	installed          []string
	marketplaceUpdates int
}

func (f *fakePlugins) InstallPlugin(plugin string) error {
	f.installed = append(f.installed, plugin)
	return nil
}

func (f *fakePlugins) UpdateMarketplace() error {
	f.marketplaceUpdates++
	return nil
}

type fakeLedger struct {
	runs []history.Run
	err  error
}

func (f *fakeLedger) Record(_ context.Context, run history.Run) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.runs = append(f.runs, run)
	return "run-id", nil
}

func (f *fakeLedger) List(_ context.Context, limit int) ([]history.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

type fakeIntegrations struct {
	detected  map[integrate.Platform]bool
	installed map[integrate.Platform]bool
	pins      map[string]string
	failWith  error
}

func (f *fakeIntegrations) Detect() []integrate.Detection {
	out := make([]integrate.Detection, 0, len(integrate.Platforms))
	for _, p := range integrate.Platforms {
		out = append(out, integrate.Detection{Platform: p, Detected: f.detected[p], Hint: p.Hint()})
	}
	return out
}

func (f *fakeIntegrations) Install(p integrate.Platform, pins map[string]string) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.installed[p] = true
	f.pins = pins
	return nil, nil
}

func (f *fakeIntegrations) Remove(p integrate.Platform, _ map[string]string) error {
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.installed, p)
	return nil
}

func (f *fakeIntegrations) Installed(p integrate.Platform) bool {
	return f.installed[p]
}

type testApp struct {
	*App
	store        *state.MemoryStore
	source       *fakeSource
	installer    *fakeInstaller
	custom       *fakeCustom
	mcp          *fakeMCP
	plugins      *fakePlugins
	ledger       *fakeLedger
	integrations *fakeIntegrations
	prompter     *ui.StaticPrompter
	out          *bytes.Buffer
	errOut       *bytes.Buffer
}

func newTestApp(t *testing.T, bottles ...*manifest.Manifest) *testApp {
	t.Helper()
	ta := &testApp{
		store:        state.NewMemoryStore(),
		source:       &fakeSource{bottles: map[string]*manifest.Manifest{}, bespoke: map[string]string{}},
		installer:    &fakeInstaller{fail: map[string]bool{}},
		custom:       &fakeCustom{},
		mcp:          &fakeMCP{},
		plugins:      &fakePlugins{},
		ledger:       &fakeLedger{},
		integrations: &fakeIntegrations{detected: map[integrate.Platform]bool{}, installed: map[integrate.Platform]bool{}},
		prompter:     &ui.StaticPrompter{Answer: true},
		out:          &bytes.Buffer{},
		errOut:       &bytes.Buffer{},
	}
	for _, m := range bottles {
		ta.source.bottles[m.Name] = m
	}
	ta.App = &App{
		Store:        ta.store,
		Source:       ta.source,
		Definitions:  func(context.Context) reconcile.ToolDefinitionSource { return fakeDefinitions{} },
		Installer:    ta.installer,
		Custom:       ta.custom,
		MCP:          ta.mcp,
		Plugins:      ta.plugins,
		Integrations: ta.integrations,
		Ledger:       ta.ledger,
		Prompter:     ta.prompter,
		BottlesDir:   t.TempDir(),
		Out:          ta.out,
		Err:          ta.errOut,
		Now:          func() time.Time { return now },
	}
	return ta
}

func bottleManifest(name string, version string, tools map[string]string) *manifest.Manifest {
	return &manifest.Manifest{
		Name:        name,
		Version:     version,
		Description: name + " tools",
		Tools:       tools,
		Plugins:     []string{},
	}
}

// seed saves a managed state for m as if it had been installed earlier.
func (ta *testApp) seed(t *testing.T, m *manifest.Manifest) *state.State {
	t.Helper()
	s := state.New(m.Name, m.Version, earlier)
	for name, version := range m.Tools {
		s.Tools[name] = state.ToolRecord{Version: version, InstalledAt: earlier, Method: state.MethodCargo}
	}
	if err := ta.store.Save(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func (ta *testApp) active(t *testing.T) *state.State {
	t.Helper()
	s, err := ta.store.LoadActive()
	if err != nil {
		t.Fatalf("load active: %v", err)
	}
	return s
}

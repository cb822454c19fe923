package bottle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

func TestInstallFresh(t *testing.T) {
	stable := bottleManifest("stable", "2026.01.15", map[string]string{"rg": "14.1.0", "oh-mcp": "1.0.0"})
	stable.Plugins = []string{"ba"}
	stable.AgentsMD = &manifest.AgentsMD{Snippet: "Use rg."}
	stable.CustomTools = map[string]manifest.CustomTool{"jq": {Version: "1.7"}}
	stable.MCPServers = map[string]manifest.MCPServer{"search": {Command: "search-mcp"}}
	ta := newTestApp(t, stable)

	require.NoError(t, ta.Install(t.Context(), "stable", Options{}))

	got := ta.active(t)
	require.NotNil(t, got)
	assert.Equal(t, "stable", got.Bottle)
	assert.Equal(t, "2026.01.15", got.BottleVersion)
	assert.Equal(t, state.ModeManaged, got.Mode)
	assert.Equal(t, state.ToolRecord{Version: "14.1.0", InstalledAt: now, Method: state.MethodCargo}, got.Tools["rg"])
	assert.Equal(t, state.MethodMcp, got.Tools["oh-mcp"].Method)
	assert.Equal(t, state.CustomToolRecord{Version: "1.7", InstalledAt: now, Method: state.CustomBrew}, got.CustomTools["jq"])
	assert.Equal(t, state.MCPServerRecord{InstalledAt: now, Scope: "user"}, got.MCPServers["search"])
	assert.Equal(t, []string{"ba"}, ta.plugins.installed)
	assert.Equal(t, []string{"search"}, ta.mcp.registered)

	snippet, ok, err := ta.store.LoadSnippet("stable")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Use rg.", snippet)

	require.Len(t, ta.ledger.runs, 1)
	run := ta.ledger.runs[0]
	assert.Equal(t, "install", run.Command)
	assert.Equal(t, "", run.FromVersion)
	assert.Equal(t, "2026.01.15", run.ToVersion)
	assert.Zero(t, run.Failed())
	assert.Equal(t, []string{"Proceed with installation?"}, ta.prompter.Asked)
	assert.Contains(t, ta.out.String(), "Bottle 'stable' installed (2026.01.15).")
}

func TestInstallAlreadyInstalled(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)
	ta.seed(t, stable)

	require.NoError(t, ta.Install(t.Context(), "stable", Options{Yes: true}))
	assert.Empty(t, ta.installer.installed)
	assert.Contains(t, ta.errOut.String(), "already installed")
	assert.Empty(t, ta.ledger.runs)
}

func TestInstallOtherBottleActive(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	edge := bottleManifest("edge", "1", map[string]string{"rg": "15.0.0"})
	ta := newTestApp(t, stable, edge)
	ta.seed(t, stable)

	err := ta.Install(t.Context(), "edge", Options{Yes: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bottle switch edge")
	assert.Equal(t, "stable", ta.active(t).Bottle)
}

func TestInstallAfterEjectStartsFresh(t *testing.T) {
	stable := bottleManifest("stable", "2", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)
	prior := ta.seed(t, bottleManifest("stable", "1", map[string]string{"rg": "14.1.0", "fd": "9.0.0"}))
	prior.Mode = state.ModeEjected
	prior.Integrations["codex"] = state.IntegrationRecord{InstalledAt: earlier}
	require.NoError(t, ta.store.Save(prior))

	require.NoError(t, ta.Install(t.Context(), "stable", Options{Yes: true}))

	got := ta.active(t)
	assert.Equal(t, state.ModeManaged, got.Mode)
	assert.Equal(t, "2", got.BottleVersion)
	assert.Equal(t, []string{"rg@14.1.0"}, ta.installer.installed)
	assert.NotContains(t, got.Tools, "fd")
	assert.Equal(t, earlier, got.Integrations["codex"].InstalledAt)
	assert.Contains(t, ta.errOut.String(), "ejected")
}

func TestInstallCorruptedStateStartsFresh(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)
	ta.seed(t, stable)
	ta.store.MarkCorrupted("stable")

	require.NoError(t, ta.Install(t.Context(), "stable", Options{Yes: true}))
	assert.Contains(t, ta.errOut.String(), "unreadable state")
	assert.Equal(t, []string{"rg@14.1.0"}, ta.installer.installed)
	assert.Equal(t, "stable", ta.active(t).Bottle)
}

func TestInstallDryRun(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)

	require.NoError(t, ta.Install(t.Context(), "stable", Options{DryRun: true}))
	assert.Nil(t, ta.active(t))
	assert.Empty(t, ta.installer.installed)
	assert.Empty(t, ta.prompter.Asked)
	assert.Contains(t, ta.out.String(), "Dry run")
}

func TestInstallCancelled(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})

	t.Run("declined", func(t *testing.T) {
		ta := newTestApp(t, stable)
		ta.prompter.Answer = false
		err := ta.Install(t.Context(), "stable", Options{})
		require.ErrorIs(t, err, ErrCancelled)
		assert.Nil(t, ta.active(t))
	})

	t.Run("aborted", func(t *testing.T) {
		ta := newTestApp(t, stable)
		ta.prompter.Err = ui.ErrAborted
		err := ta.Install(t.Context(), "stable", Options{})
		require.ErrorIs(t, err, ErrCancelled)
	})

	t.Run("not interactive", func(t *testing.T) {
		ta := newTestApp(t, stable)
		ta.prompter.Err = ui.ErrNotInteractive
		err := ta.Install(t.Context(), "stable", Options{})
		require.ErrorIs(t, err, ui.ErrNotInteractive)
	})
}

func TestInstallPartialFailure(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0", "fd": "9.0.0"})

	t.Run("lenient", func(t *testing.T) {
		ta := newTestApp(t, stable)
		ta.installer.fail["fd"] = true
		require.NoError(t, ta.Install(t.Context(), "stable", Options{Yes: true}))

		got := ta.active(t)
		assert.Contains(t, got.Tools, "rg")
		assert.NotContains(t, got.Tools, "fd")
		assert.Contains(t, ta.out.String(), "Re-run the same command")
		require.Len(t, ta.ledger.runs, 1)
		assert.Equal(t, 1, ta.ledger.runs[0].Failed())
	})

	t.Run("strict", func(t *testing.T) {
		ta := newTestApp(t, stable)
		ta.installer.fail["fd"] = true
		err := ta.Install(t.Context(), "stable", Options{Yes: true, Strict: true})
		require.ErrorIs(t, err, ErrCompletedWithFailures)
		assert.Contains(t, err.Error(), "1 item(s) failed")
		assert.Contains(t, ta.active(t).Tools, "rg")
	})
}

func TestInstallUnknownBottle(t *testing.T) {
	ta := newTestApp(t)
	err := ta.Install(t.Context(), "nope", Options{Yes: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Nil(t, ta.active(t))
}

func TestInstallFromManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"team","version":"4","tools":{"rg":"14.1.0"}}`), 0o644))
	ta := newTestApp(t)

	require.NoError(t, ta.Install(t.Context(), "", Options{Yes: true, Manifest: path}))
	got := ta.active(t)
	require.NotNil(t, got)
	assert.Equal(t, "team", got.Bottle)
	assert.Equal(t, "4", got.BottleVersion)
}

func TestInstallFromManifestFileRejectsEscapingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"../../escaped","version":"1","tools":{"rg":"14.1.0"}}`), 0o644))
	root := filepath.Join(dir, "home", ".bottle")
	ta := newTestApp(t)
	ta.Store = state.NewFileStore(root)

	err := ta.Install(t.Context(), "", Options{Yes: true, Manifest: path})
	require.ErrorIs(t, err, manifest.ErrInvalidManifest)
	require.ErrorIs(t, err, state.ErrInvalidName)
	assert.Empty(t, ta.installer.installed)

	_, statErr := os.Stat(filepath.Join(dir, "escaped"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallPrerequisitesNotMet(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)
	missing := errors.New("missing cargo")
	ta.Prereqs = prereqFunc(func(*manifest.Manifest) error { return missing })

	require.ErrorIs(t, ta.Install(t.Context(), "stable", Options{Yes: true}), missing)
	assert.Nil(t, ta.active(t))
}

func TestInstallHistoryFailureOnlyWarns(t *testing.T) {
	stable := bottleManifest("stable", "1", map[string]string{"rg": "14.1.0"})
	ta := newTestApp(t, stable)
	ta.ledger.err = errors.New("disk full")

	require.NoError(t, ta.Install(t.Context(), "stable", Options{Yes: true}))
	assert.Contains(t, ta.errOut.String(), "failed to record history: disk full")
	assert.NotNil(t, ta.active(t))
}

type prereqFunc func(*manifest.Manifest) error

func (f prereqFunc) CheckPrerequisites(m *manifest.Manifest) error {
	return f(m)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/bottle/internal/state"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func writeConfig(t *testing.T, home string, content string) Paths {
	t.Helper()
	paths := DefaultPaths(home)
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigPath, []byte(content), 0o644))
	return paths
}

func TestHomeDirOverride(t *testing.T) {
	home, err := HomeDir(envFrom(map[string]string{EnvHome: "/tmp/bottle-home"}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bottle-home", home)
}

func TestHomeDirDefault(t *testing.T) {
	orig := homeDirFunc
	homeDirFunc = func() (string, error) { return "/home/me", nil }
	t.Cleanup(func() { homeDirFunc = orig })

	home, err := HomeDir(envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/me", ".bottle"), home)
}

func TestHomeDirError(t *testing.T) {
	orig := homeDirFunc
	homeDirFunc = func() (string, error) { return "", errors.New("no home") }
	t.Cleanup(func() { homeDirFunc = orig })

	_, err := HomeDir(envFrom(nil))
	require.Error(t, err)
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(DefaultPaths(home))
	require.NoError(t, err)

	assert.Equal(t, DefaultManifestBaseURL, cfg.ManifestBaseURL)
	assert.Equal(t, DefaultMarketplace, cfg.Marketplace)
	assert.Equal(t, DefaultClaudeCommand, cfg.ClaudeCommand)
	assert.Equal(t, filepath.Join(home, "bin"), cfg.BinaryDir)
	assert.True(t, cfg.HistoryEnabled())
	assert.False(t, cfg.NoNetwork)
}

func TestLoadFullConfig(t *testing.T) {
	paths := writeConfig(t, t.TempDir(), `
manifest_base_url = "https://mirror.example.test/bottle/"
marketplace = "acme/bottles"
claude_command = "claude-beta"
no_network = true
binary_dir = "/opt/bin"

[history]
enabled = false

[install]
prefer = ["npm", "binary"]
`)
	cfg, err := Load(paths)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example.test/bottle", cfg.ManifestBaseURL)
	assert.Equal(t, "acme/bottles", cfg.Marketplace)
	assert.Equal(t, "claude-beta", cfg.ClaudeCommand)
	assert.True(t, cfg.NoNetwork)
	assert.Equal(t, "/opt/bin", cfg.BinaryDir)
	assert.False(t, cfg.HistoryEnabled())
	assert.Equal(t, []state.CustomMethod{state.CustomNpm, state.CustomBinary}, cfg.PreferredMethods())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	paths := writeConfig(t, t.TempDir(), "marketplce = \"typo\"\n")
	_, err := Load(paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))

	cfg, err := LoadLenient(paths)
	require.NoError(t, err)
	assert.Equal(t, DefaultMarketplace, cfg.Marketplace)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad url":    "manifest_base_url = \"ftp://example.test\"\n",
		"bad prefer": "[install]\nprefer = [\"pip\"]\n",
		"bad claude": "claude_command = \"claude --flag\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), content))
			assert.ErrorIs(t, err, ErrConfigValidation)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	paths := writeConfig(t, t.TempDir(), "marketplace = \n")
	_, err := Load(paths)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigValidation))

	_, err = LoadLenient(paths)
	require.Error(t, err)
}

func TestResolveAppliesEnvAndDotEnv(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "marketplace = \"acme/bottles\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("SEARCH_KEY=from-file\nOTHER=x\n"), 0o600))

	settings, err := Resolve(envFrom(map[string]string{
		EnvHome:            home,
		EnvNoNetwork:       "1",
		EnvManifestBaseURL: "http://localhost:8080/",
	}))
	require.NoError(t, err)

	assert.Equal(t, home, settings.Paths.Home)
	assert.True(t, settings.Config.NoNetwork)
	assert.Equal(t, "http://localhost:8080", settings.Config.ManifestBaseURL)
	assert.Equal(t, "acme/bottles", settings.Config.Marketplace)

	lookup := settings.Lookup(func(name string) (string, bool) {
		if name == "SEARCH_KEY" {
			return "from-process", true
		}
		return "", false
	})
	value, ok := lookup("SEARCH_KEY")
	assert.True(t, ok)
	assert.Equal(t, "from-process", value)
	value, ok = lookup("OTHER")
	assert.True(t, ok)
	assert.Equal(t, "x", value)
	_, ok = lookup("MISSING")
	assert.False(t, ok)
}

func TestLoadEnvInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))
	_, err := LoadEnv(path)
	require.Error(t, err)

	env, err := LoadEnv(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, env)
}

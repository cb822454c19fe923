// Package config loads user settings for the bottle CLI.
package config

import (
	"strings"

	"github.com/conn-castle/bottle/internal/state"
)

// Environment variables that override config.toml.
const (
	EnvHome            = "BOTTLE_HOME"
	EnvNoNetwork       = "BOTTLE_NO_NETWORK"
	EnvManifestBaseURL = "BOTTLE_MANIFEST_BASE_URL"
)

// Defaults applied when config.toml leaves a field unset.
const (
	DefaultManifestBaseURL = "https://raw.githubusercontent.com/cloud-atlas-ai/bottle/main"
	DefaultMarketplace     = "cloud-atlas-ai/bottle"
	DefaultClaudeCommand   = "claude"
)

// Config is the contents of ~/.bottle/config.toml.
type Config struct {
	ManifestBaseURL string        `toml:"manifest_base_url"`
	Marketplace     string        `toml:"marketplace"`
	ClaudeCommand   string        `toml:"claude_command"`
	NoNetwork       bool          `toml:"no_network"`
	BinaryDir       string        `toml:"binary_dir"`
	History         HistoryConfig `toml:"history"`
	Install         InstallConfig `toml:"install"`
}

// HistoryConfig controls the reconciliation ledger.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// InstallConfig tunes custom tool installation.
type InstallConfig struct {
	// Prefer lists custom install methods to try before the manifest's own order.
	Prefer []string `toml:"prefer"`
}

// HistoryEnabled reports whether runs are recorded; the ledger is on unless disabled.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// PreferredMethods returns the configured custom method preference.
func (c *Config) PreferredMethods() []state.CustomMethod {
	out := make([]state.CustomMethod, 0, len(c.Install.Prefer))
	for _, raw := range c.Install.Prefer {
		out = append(out, state.CustomMethod(strings.TrimSpace(raw)))
	}
	return out
}

// applyDefaults fills unset fields. paths supplies home-relative defaults.
func (c *Config) applyDefaults(paths Paths) {
	if strings.TrimSpace(c.ManifestBaseURL) == "" {
		c.ManifestBaseURL = DefaultManifestBaseURL
	}
	c.ManifestBaseURL = strings.TrimRight(c.ManifestBaseURL, "/")
	if strings.TrimSpace(c.Marketplace) == "" {
		c.Marketplace = DefaultMarketplace
	}
	if strings.TrimSpace(c.ClaudeCommand) == "" {
		c.ClaudeCommand = DefaultClaudeCommand
	}
	if strings.TrimSpace(c.BinaryDir) == "" {
		c.BinaryDir = paths.BinDir
	}
}

// applyEnv applies environment overrides using getenv.
func (c *Config) applyEnv(getenv func(string) string) {
	if strings.TrimSpace(getenv(EnvNoNetwork)) != "" {
		c.NoNetwork = true
	}
	if url := strings.TrimSpace(getenv(EnvManifestBaseURL)); url != "" {
		c.ManifestBaseURL = strings.TrimRight(url, "/")
	}
}

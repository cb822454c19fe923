// Package integrate installs bottle into agent platforms: the Claude Code
// plugin, OpenCode npm plugins and Codex skills.
package integrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/bottle/internal/install"
	"github.com/conn-castle/bottle/internal/messages"
)

// Platform is the key an integration is recorded under in state.
type Platform string

const (
	ClaudeCode Platform = "claude_code"
	OpenCode   Platform = "opencode"
	Codex      Platform = "codex"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{ClaudeCode, OpenCode, Codex}

// ErrUnknownPlatform reports a platform key that is not supported.
var ErrUnknownPlatform = errors.New(messages.IntegrateUnknownPlatform)

// ParsePlatform returns the platform for key.
func ParsePlatform(key string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == key {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: "+messages.IntegrateUnknownPlatformFmt, ErrUnknownPlatform, key)
}

// DisplayName returns the product name of p.
func (p Platform) DisplayName() string {
	switch p {
	case ClaudeCode:
		return messages.IntegrateClaudeCodeName
	case OpenCode:
		return messages.IntegrateOpenCodeName
	case Codex:
		return messages.IntegrateCodexName
	}
	return string(p)
}

// Hint names what detection looks for.
func (p Platform) Hint() string {
	switch p {
	case ClaudeCode:
		return "~/.claude/"
	case OpenCode:
		return "opencode.json"
	case Codex:
		return "~/.codex/"
	}
	return ""
}

// InstallAction describes what Install changes, for dry runs.
func (p Platform) InstallAction() string {
	switch p {
	case ClaudeCode:
		return messages.IntegrateClaudeCodeInstallAction
	case OpenCode:
		return messages.IntegrateOpenCodeInstallAction
	case Codex:
		return messages.IntegrateCodexInstallAction
	}
	return ""
}

// RemoveAction describes what Remove changes, for dry runs.
func (p Platform) RemoveAction() string {
	switch p {
	case ClaudeCode:
		return messages.IntegrateClaudeCodeRemoveAction
	case OpenCode:
		return messages.IntegrateOpenCodeRemoveAction
	case Codex:
		return messages.IntegrateCodexRemoveAction
	}
	return ""
}

// NextStep is printed after a successful install.
func (p Platform) NextStep() string {
	switch p {
	case ClaudeCode:
		return messages.IntegrateClaudeCodeNextStep
	case OpenCode:
		return messages.IntegrateOpenCodeNextStep
	case Codex:
		return messages.IntegrateCodexNextStep
	}
	return ""
}

// Detection reports whether a platform appears to be present on this machine.
type Detection struct {
	Platform Platform
	Detected bool
	Hint     string
}

// Integrator installs and removes platform integrations.
type Integrator struct {
	// Home is the user's home directory.
	Home string
	// Cwd is searched for a project-level opencode.json first.
	Cwd string
	Env install.Env
	// Marketplace hosts the Claude Code plugin.
	Marketplace string
}

// Detect reports detection results for every platform.
func (i *Integrator) Detect() []Detection {
	out := make([]Detection, 0, len(Platforms))
	for _, p := range Platforms {
		out = append(out, Detection{Platform: p, Detected: i.detected(p), Hint: p.Hint()})
	}
	return out
}

func (i *Integrator) detected(p Platform) bool {
	switch p {
	case ClaudeCode:
		return exists(filepath.Join(i.Home, ".claude"))
	case OpenCode:
		return exists(filepath.Join(i.Home, ".opencode")) || i.Env.Available("opencode")
	case Codex:
		return exists(filepath.Join(i.Home, ".codex"))
	}
	return false
}

// Install adds the integration for p. opencodePlugins pins OpenCode package
// versions; when empty the default packages are added unpinned. The returned
// warnings do not prevent the integration from working.
func (i *Integrator) Install(p Platform, opencodePlugins map[string]string) ([]string, error) {
	switch p {
	case ClaudeCode:
		return nil, i.plugins().InstallPlugin(claudePlugin)
	case OpenCode:
		return nil, i.installOpenCode(opencodePlugins)
	case Codex:
		return i.installCodex()
	}
	return nil, fmt.Errorf("%w: "+messages.IntegrateUnknownPlatformFmt, ErrUnknownPlatform, p)
}

// Remove deletes the integration for p. Removing an absent integration is a no-op
// except for Claude Code, where the host decides.
func (i *Integrator) Remove(p Platform, opencodePlugins map[string]string) error {
	switch p {
	case ClaudeCode:
		return i.plugins().UninstallPlugin(claudePlugin)
	case OpenCode:
		return i.removeOpenCode(opencodePlugins)
	case Codex:
		return i.removeCodex()
	}
	return fmt.Errorf("%w: "+messages.IntegrateUnknownPlatformFmt, ErrUnknownPlatform, p)
}

// Installed reports whether the integration for p is present on disk or in the host.
func (i *Integrator) Installed(p Platform) bool {
	switch p {
	case ClaudeCode:
		return i.plugins().Installed(claudePlugin)
	case OpenCode:
		return i.openCodeInstalled()
	case Codex:
		return i.codexInstalled()
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package install

import (
	"fmt"
	"strings"
)

// DefaultMarketplace is the plugin marketplace bottles install from.
const DefaultMarketplace = "cloud-atlas-ai/bottle"

// Plugins installs agent-host plugins. It implements reconcile.PluginInstaller.
type Plugins struct {
	Env
	Marketplace string
}

// NewPlugins returns a plugin installer over env for marketplace.
func NewPlugins(env Env, marketplace string) *Plugins {
	return &Plugins{Env: env, Marketplace: marketplace}
}

func (p *Plugins) marketplace() string {
	if strings.TrimSpace(p.Marketplace) == "" {
		return DefaultMarketplace
	}
	return p.Marketplace
}

// InstallPlugin runs `plugin install <plugin>@<marketplace>`. Installing an
// already-installed plugin is a no-op on the host side.
func (p *Plugins) InstallPlugin(plugin string) error {
	return p.run(p.claude(), "plugin", "install", p.Qualified(plugin))
}

// UninstallPlugin removes plugin from the agent host.
func (p *Plugins) UninstallPlugin(plugin string) error {
	return p.run(p.claude(), "plugin", "uninstall", p.Qualified(plugin))
}

// UpdateMarketplace refreshes the marketplace index so new plugin versions are visible.
func (p *Plugins) UpdateMarketplace() error {
	if !p.Available(p.claude()) {
		return fmt.Errorf("%w: %s", ErrHostMissing, p.claude())
	}
	return p.run(p.claude(), "plugin", "marketplace", "update", p.marketplace())
}

// Qualified returns plugin@marketplace.
func (p *Plugins) Qualified(plugin string) string {
	return plugin + "@" + p.marketplace()
}

// Installed reports whether the host lists plugin from the configured marketplace.
// A missing or failing host reports false.
func (p *Plugins) Installed(plugin string) bool {
	if !p.Available(p.claude()) {
		return false
	}
	out, err := p.system().Output(p.claude(), "plugin", "list")
	if err != nil {
		return false
	}
	listed := string(out)
	return strings.Contains(listed, plugin) && strings.Contains(listed, p.marketplace())
}

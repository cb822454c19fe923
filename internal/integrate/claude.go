package integrate

import "github.com/conn-castle/bottle/internal/install"

// claudePlugin is the marketplace plugin bundling the bottle commands.
const claudePlugin = "bottle"

func (i *Integrator) plugins() *install.Plugins {
	return install.NewPlugins(i.Env, i.Marketplace)
}

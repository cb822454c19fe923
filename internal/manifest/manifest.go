// Package manifest models the desired state a bottle describes.
package manifest

import (
	"errors"
	"sort"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// ErrInvalidManifest wraps manifest decoding and validation failures.
var ErrInvalidManifest = errors.New(messages.ManifestInvalid)

// Scope is where an MCP server is registered.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// Manifest is a named, versioned snapshot of pinned tools, plugins and MCP servers.
type Manifest struct {
	Name            string                `json:"name" yaml:"name"`
	Version         string                `json:"version" yaml:"version"`
	Description     string                `json:"description" yaml:"description"`
	Tools           map[string]string     `json:"tools" yaml:"tools"`
	Plugins         []string              `json:"plugins" yaml:"plugins"`
	Prerequisites   map[string]string     `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	OpencodePlugins map[string]string     `json:"opencode_plugins,omitempty" yaml:"opencode_plugins,omitempty"`
	MCPServers      map[string]MCPServer  `json:"mcp_servers,omitempty" yaml:"mcp_servers,omitempty"`
	CustomTools     map[string]CustomTool `json:"custom_tools,omitempty" yaml:"custom_tools,omitempty"`
	AgentsMD        *AgentsMD             `json:"agents_md,omitempty" yaml:"agents_md,omitempty"`
}

// MCPServer describes a bespoke MCP server to register with the agent host.
type MCPServer struct {
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Scope   Scope             `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// EffectiveScope returns the registration scope, defaulting to user.
func (s MCPServer) EffectiveScope() Scope {
	if s.Scope == "" {
		return ScopeUser
	}
	return s.Scope
}

// CustomTool is a tool outside the curated registry, installed by the first method that works.
type CustomTool struct {
	Version string          `json:"version" yaml:"version"`
	Install []CustomInstall `json:"install" yaml:"install"`
	Verify  string          `json:"verify,omitempty" yaml:"verify,omitempty"`
}

// CustomInstall is one candidate way to install a custom tool.
type CustomInstall struct {
	Method  state.CustomMethod `json:"method" yaml:"method"`
	Package string             `json:"package,omitempty" yaml:"package,omitempty"`
	URL     string             `json:"url,omitempty" yaml:"url,omitempty"`
	SHA256  string             `json:"sha256,omitempty" yaml:"sha256,omitempty"`
}

// AgentsMD carries the snippet a bottle contributes to AGENTS.md.
type AgentsMD struct {
	Snippet string `json:"snippet" yaml:"snippet"`
}

// ToolNames returns the pinned tool names in sorted order.
func (m *Manifest) ToolNames() []string {
	return sortedKeys(m.Tools)
}

// MCPServerNames returns the MCP server names in sorted order.
func (m *Manifest) MCPServerNames() []string {
	return sortedKeys(m.MCPServers)
}

// CustomToolNames returns the custom tool names in sorted order.
func (m *Manifest) CustomToolNames() []string {
	return sortedKeys(m.CustomTools)
}

// Snippet returns the AGENTS.md snippet, or "".
func (m *Manifest) Snippet() string {
	if m.AgentsMD == nil {
		return ""
	}
	return m.AgentsMD.Snippet
}

// normalize replaces absent collections with empty ones.
func (m *Manifest) normalize() {
	if m.Tools == nil {
		m.Tools = map[string]string{}
	}
	if m.Prerequisites == nil {
		m.Prerequisites = map[string]string{}
	}
	if m.OpencodePlugins == nil {
		m.OpencodePlugins = map[string]string{}
	}
	if m.MCPServers == nil {
		m.MCPServers = map[string]MCPServer{}
	}
	if m.CustomTools == nil {
		m.CustomTools = map[string]CustomTool{}
	}
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

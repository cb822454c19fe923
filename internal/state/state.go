// Package state models what is installed for a bottle and persists it.
package state

import (
	"fmt"
	"time"

	"github.com/conn-castle/bottle/internal/messages"
)

// Mode controls whether a bottle's tools are reconciled.
type Mode string

const (
	// ModeManaged lets install, update and switch reconcile tools.
	ModeManaged Mode = "managed"
	// ModeEjected freezes reconciliation until a fresh install.
	ModeEjected Mode = "ejected"
)

// UnmarshalText rejects modes other than managed and ejected.
func (m *Mode) UnmarshalText(text []byte) error {
	switch Mode(text) {
	case ModeManaged, ModeEjected:
		*m = Mode(text)
		return nil
	case "":
		*m = ModeManaged
		return nil
	}
	return fmt.Errorf(messages.StateUnknownModeFmt, string(text))
}

// InstallMethod is the mechanism a curated tool was installed with.
type InstallMethod string

const (
	MethodCargo InstallMethod = "cargo"
	MethodBrew  InstallMethod = "brew"
	MethodMcp   InstallMethod = "mcp"
)

// UnmarshalText rejects unknown install methods.
func (m *InstallMethod) UnmarshalText(text []byte) error {
	switch InstallMethod(text) {
	case MethodCargo, MethodBrew, MethodMcp:
		*m = InstallMethod(text)
		return nil
	}
	return fmt.Errorf(messages.StateUnknownMethodFmt, string(text))
}

// Unregisterable reports whether removing a tool installed this way must
// actively unregister it. Binaries installed by a package manager are left on disk.
func (m InstallMethod) Unregisterable() bool {
	return m == MethodMcp
}

// CustomMethod is the mechanism a custom tool was installed with.
type CustomMethod string

const (
	CustomBrew   CustomMethod = "brew"
	CustomCargo  CustomMethod = "cargo"
	CustomNpm    CustomMethod = "npm"
	CustomBinary CustomMethod = "binary"
)

// Valid reports whether m is a known custom install method.
func (m CustomMethod) Valid() bool {
	switch m {
	case CustomBrew, CustomCargo, CustomNpm, CustomBinary:
		return true
	}
	return false
}

// UnmarshalText rejects unknown custom install methods.
func (m *CustomMethod) UnmarshalText(text []byte) error {
	if !CustomMethod(text).Valid() {
		return fmt.Errorf(messages.StateUnknownMethodFmt, string(text))
	}
	*m = CustomMethod(text)
	return nil
}

// ToolRecord tracks one installed curated tool.
type ToolRecord struct {
	Version     string        `json:"version"`
	InstalledAt time.Time     `json:"installed_at"`
	Method      InstallMethod `json:"method"`
}

// CustomToolRecord tracks one installed custom tool.
type CustomToolRecord struct {
	Version     string       `json:"version"`
	InstalledAt time.Time    `json:"installed_at"`
	Method      CustomMethod `json:"method"`
}

// IntegrationRecord tracks one installed platform integration.
type IntegrationRecord struct {
	InstalledAt time.Time `json:"installed_at"`
}

// MCPServerRecord tracks one registered bespoke MCP server.
type MCPServerRecord struct {
	InstalledAt time.Time `json:"installed_at"`
	Scope       string    `json:"scope"`
}

// State is the observed installation for one bottle.
type State struct {
	Bottle        string                       `json:"bottle"`
	BottleVersion string                       `json:"bottle_version"`
	InstalledAt   time.Time                    `json:"installed_at"`
	Tools         map[string]ToolRecord        `json:"tools"`
	Mode          Mode                         `json:"mode"`
	Integrations  map[string]IntegrationRecord `json:"integrations"`
	CustomTools   map[string]CustomToolRecord  `json:"custom_tools"`
	MCPServers    map[string]MCPServerRecord   `json:"mcp_servers,omitempty"`
}

// New returns an empty managed state for bottle.
func New(bottle string, bottleVersion string, now time.Time) *State {
	s := &State{
		Bottle:        bottle,
		BottleVersion: bottleVersion,
		InstalledAt:   now.UTC(),
		Mode:          ModeManaged,
	}
	s.normalize()
	return s
}

// IsManaged reports whether reconciliation is enabled.
func (s *State) IsManaged() bool {
	return s != nil && s.Mode != ModeEjected
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Tools = CloneMap(s.Tools)
	out.Integrations = CloneMap(s.Integrations)
	out.CustomTools = CloneMap(s.CustomTools)
	out.MCPServers = CloneMap(s.MCPServers)
	return &out
}

// normalize fills absent collections so older records load with empty defaults.
func (s *State) normalize() {
	if s.Mode == "" {
		s.Mode = ModeManaged
	}
	if s.Tools == nil {
		s.Tools = map[string]ToolRecord{}
	}
	if s.Integrations == nil {
		s.Integrations = map[string]IntegrationRecord{}
	}
	if s.CustomTools == nil {
		s.CustomTools = map[string]CustomToolRecord{}
	}
	if s.MCPServers == nil {
		s.MCPServers = map[string]MCPServerRecord{}
	}
}

// CloneMap returns a shallow copy of in. A nil map yields an empty one.
func CloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

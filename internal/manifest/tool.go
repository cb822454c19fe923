package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

// ToolType selects the install strategy family for a curated tool.
type ToolType string

const (
	// ToolBinary installs with cargo when available, otherwise brew.
	ToolBinary ToolType = "binary"
	// ToolMCP registers an npx-launched MCP server with the agent host.
	ToolMCP ToolType = "mcp"
)

// ToolDefinition maps a curated tool name to an installable package.
type ToolDefinition struct {
	Name     string            `json:"name"`
	Binary   string            `json:"binary,omitempty"`
	Type     ToolType          `json:"type"`
	Registry string            `json:"registry"`
	Package  string            `json:"package"`
	Install  map[string]string `json:"install"`
	Check    string            `json:"check"`
	Homepage string            `json:"homepage"`
}

// BinaryName returns the executable the tool provides.
func (d ToolDefinition) BinaryName() string {
	if strings.TrimSpace(d.Binary) != "" {
		return d.Binary
	}
	return d.Name
}

// PackageName returns the package to install, defaulting to the tool name.
func (d ToolDefinition) PackageName() string {
	if strings.TrimSpace(d.Package) != "" {
		return d.Package
	}
	return d.Name
}

// ParseToolDefinition decodes a tool definition document.
func ParseToolDefinition(data []byte, source string) (*ToolDefinition, error) {
	var def ToolDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ManifestParseFmt, ErrInvalidManifest, source, err)
	}
	switch def.Type {
	case ToolBinary, ToolMCP:
	default:
		return nil, fmt.Errorf("%w: "+messages.ManifestUnknownToolTypeFmt, ErrInvalidManifest, source, def.Type)
	}
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("%w: "+messages.ManifestMissingFieldFmt, ErrInvalidManifest, source, "name")
	}
	return &def, nil
}

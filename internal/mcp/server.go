// Package mcp exposes bottle state to agents over the Model Context Protocol
// and probes MCP servers bottle registers.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conn-castle/bottle/internal/messages"
)

// Tool names served by the status server.
const (
	StatusToolName = "bottle_status"
	PlanToolName   = "bottle_plan"
)

// ItemStatus is one installed item.
type ItemStatus struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Method      string `json:"method,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"`
}

// StatusInput takes no arguments.
type StatusInput struct{}

// StatusOutput describes the active bottle. Installed is false when no bottle is active.
type StatusOutput struct {
	Installed    bool         `json:"installed"`
	Bottle       string       `json:"bottle,omitempty"`
	Version      string       `json:"version,omitempty"`
	Mode         string       `json:"mode,omitempty"`
	Tools        []ItemStatus `json:"tools"`
	CustomTools  []ItemStatus `json:"custom_tools"`
	MCPServers   []ItemStatus `json:"mcp_servers"`
	Integrations []ItemStatus `json:"integrations"`
}

// PlanInput selects the bottle to plan against.
type PlanInput struct {
	Bottle string `json:"bottle,omitempty" jsonschema:"bottle to compare against; defaults to the active bottle"`
}

// Change is one planned tool change.
type Change struct {
	Tool   string `json:"tool"`
	Action string `json:"action"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// PlanOutput is a plan between the active state and a bottle's manifest.
type PlanOutput struct {
	Bottle      string   `json:"bottle"`
	FromVersion string   `json:"from_version,omitempty"`
	ToVersion   string   `json:"to_version"`
	Noop        bool     `json:"noop"`
	Changes     []Change `json:"changes"`
}

// Provider answers status server requests.
type Provider interface {
	Status(ctx context.Context) (StatusOutput, error)
	Plan(ctx context.Context, bottle string) (PlanOutput, error)
}

type serverRunner func(ctx context.Context, server *mcp.Server) error

// RunStatusServer serves the bottle tools over stdio until ctx ends or stdin closes.
func RunStatusServer(ctx context.Context, version string, provider Provider) error {
	return runStatusServer(ctx, version, provider, defaultServerRunner)
}

func runStatusServer(ctx context.Context, version string, provider Provider, runner serverRunner) error {
	if runner == nil {
		return fmt.Errorf(messages.McpRunServerFailedFmt, errors.New(messages.McpRunnerNil))
	}
	if provider == nil {
		return fmt.Errorf(messages.McpRunServerFailedFmt, errors.New(messages.McpProviderNil))
	}
	if err := runner(ctx, NewStatusServer(version, provider)); err != nil {
		return fmt.Errorf(messages.McpRunServerFailedFmt, err)
	}
	return nil
}

// NewStatusServer builds the server with the status and plan tools registered.
func NewStatusServer(version string, provider Provider) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bottle",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        StatusToolName,
		Description: messages.McpStatusToolDescription,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		out, err := provider.Status(ctx)
		return nil, out, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        PlanToolName,
		Description: messages.McpPlanToolDescription,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in PlanInput) (*mcp.CallToolResult, PlanOutput, error) {
		out, err := provider.Plan(ctx, in.Bottle)
		return nil, out, err
	})

	return server
}

func defaultServerRunner(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

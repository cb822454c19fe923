package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	status    StatusOutput
	plan      PlanOutput
	err       error
	planAsked string
}

func (f *fakeProvider) Status(context.Context) (StatusOutput, error) {
	return f.status, f.err
}

func (f *fakeProvider) Plan(_ context.Context, bottle string) (PlanOutput, error) {
	f.planAsked = bottle
	return f.plan, f.err
}

func connect(t *testing.T, provider Provider) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewStatusServer("v1.2.3", provider)
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestStatusServerListsTools(t *testing.T) {
	session := connect(t, &fakeProvider{})
	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{StatusToolName, PlanToolName}, names)
}

func TestStatusTool(t *testing.T) {
	provider := &fakeProvider{status: StatusOutput{
		Installed:    true,
		Bottle:       "stable",
		Version:      "2026.01.15",
		Mode:         "managed",
		Tools:        []ItemStatus{{Name: "ripgrep", Version: "14.1.0", Method: "cargo"}},
		CustomTools:  []ItemStatus{},
		MCPServers:   []ItemStatus{},
		Integrations: []ItemStatus{},
	}}
	session := connect(t, provider)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: StatusToolName, Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got StatusOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	assert.Equal(t, provider.status, got)
}

func TestPlanToolPassesBottle(t *testing.T) {
	provider := &fakeProvider{plan: PlanOutput{
		Bottle:    "edge",
		ToVersion: "2026.02.01",
		Changes:   []Change{{Tool: "jq", Action: "upgrade", From: "1.7.0", To: "1.7.1"}},
	}}
	session := connect(t, provider)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: PlanToolName, Arguments: map[string]any{"bottle": "edge"}})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "edge", provider.planAsked)
	assert.Contains(t, textOf(t, result), `"action":"upgrade"`)
}

func TestToolErrorIsReported(t *testing.T) {
	session := connect(t, &fakeProvider{err: errors.New("state record is corrupted")})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: StatusToolName, Arguments: map[string]any{}})
	if err != nil {
		assert.Contains(t, err.Error(), "corrupted")
		return
	}
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "corrupted")
}

func TestRunStatusServerRunnerErrors(t *testing.T) {
	err := runStatusServer(context.Background(), "v1", &fakeProvider{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner is nil")

	err = runStatusServer(context.Background(), "v1", nil, func(context.Context, *mcp.Server) error { return nil })
	require.Error(t, err)

	err = runStatusServer(context.Background(), "v1", &fakeProvider{}, func(context.Context, *mcp.Server) error {
		return errors.New("stdin closed")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin closed")

	var served *mcp.Server
	err = runStatusServer(context.Background(), "v1", &fakeProvider{}, func(_ context.Context, server *mcp.Server) error {
		served = server
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, served)
}

func TestRunStatusServerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Cancellation may be treated as a clean shutdown; either way it must return.
	_ = RunStatusServer(ctx, "v1", &fakeProvider{})
}

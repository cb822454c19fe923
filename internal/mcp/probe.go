package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conn-castle/bottle/internal/messages"
)

// probeTimeout bounds connecting to and listing one server.
var probeTimeout = 10 * time.Second

type clientInterface interface {
	Connect(ctx context.Context, transport mcp.Transport, opts *mcp.ClientSessionOptions) (sessionInterface, error)
}

type sessionInterface interface {
	ListTools(ctx context.Context, params *mcp.ListToolsParams) (*mcp.ListToolsResult, error)
	Close() error
}

type realClient struct {
	client *mcp.Client
}

func (c *realClient) Connect(ctx context.Context, transport mcp.Transport, opts *mcp.ClientSessionOptions) (sessionInterface, error) {
	session, err := c.client.Connect(ctx, transport, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// NewClientFunc creates the MCP client used by probes.
var NewClientFunc = func(impl *mcp.Implementation, opts *mcp.ClientOptions) clientInterface {
	return &realClient{client: mcp.NewClient(impl, opts)}
}

// ProbeTarget is a stdio MCP server to launch and query.
type ProbeTarget struct {
	Name    string
	Command string
	Args    []string
	// Env entries are KEY=VALUE and extend the current environment.
	Env []string
}

// ProbeResult is the outcome of probing one server.
type ProbeResult struct {
	Name  string
	Tools []string
	Err   error
}

// Probe launches target, lists its tools and shuts it down.
func Probe(ctx context.Context, target ProbeTarget) ProbeResult {
	result := ProbeResult{Name: target.Name}
	if target.Command == "" {
		result.Err = errors.New(messages.McpProbeCommandRequired)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, target.Command, target.Args...)
	cmd.Env = append(os.Environ(), target.Env...)
	client := NewClientFunc(&mcp.Implementation{Name: "bottle-doctor", Version: "v1"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		result.Err = fmt.Errorf(messages.McpProbeConnectFailedFmt, err)
		return result
	}
	defer func() { _ = session.Close() }()

	params := &mcp.ListToolsParams{}
	for {
		page, err := session.ListTools(ctx, params)
		if err != nil {
			result.Err = fmt.Errorf(messages.McpProbeListToolsFailedFmt, err)
			return result
		}
		for _, tool := range page.Tools {
			result.Tools = append(result.Tools, tool.Name)
		}
		if page.NextCursor == "" || page.NextCursor == params.Cursor {
			break
		}
		params = &mcp.ListToolsParams{Cursor: page.NextCursor}
	}
	sort.Strings(result.Tools)
	return result
}

// ProbeAll probes targets concurrently and returns results in target order.
func ProbeAll(ctx context.Context, targets []ProbeTarget) []ProbeResult {
	results := make([]ProbeResult, len(targets))
	if len(targets) == 0 {
		return results
	}
	sem := make(chan struct{}, probeConcurrency(len(targets)))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target ProbeTarget) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = Probe(ctx, target)
		}(i, target)
	}
	wg.Wait()
	return results
}

// probeConcurrency uses about two thirds of GOMAXPROCS, at least one.
func probeConcurrency(count int) int {
	limit := (runtime.GOMAXPROCS(0) * 2) / 3
	if limit < 1 {
		limit = 1
	}
	if count < limit {
		return count
	}
	return limit
}

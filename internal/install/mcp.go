package install

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
)

// MCPServers registers bespoke MCP servers with the agent host.
// It implements reconcile.MCPRegistrar.
type MCPServers struct {
	Env
	// Lookup resolves ${VAR} references. Defaults to the process environment.
	Lookup func(string) (string, bool)
}

// NewMCPServers returns a registrar over env that resolves variables with lookup.
func NewMCPServers(env Env, lookup func(string) (string, bool)) *MCPServers {
	return &MCPServers{Env: env, Lookup: lookup}
}

func (m *MCPServers) lookup() func(string) (string, bool) {
	if m.Lookup == nil {
		return os.LookupEnv
	}
	return m.Lookup
}

// Register adds server under name. Unresolved ${VAR} references fail the
// registration before the agent host is invoked.
func (m *MCPServers) Register(name string, server manifest.MCPServer) error {
	args, err := m.RegisterArgs(name, server)
	if err != nil {
		return err
	}
	return m.run(m.claude(), args...)
}

// RegisterArgs builds the `mcp add` argument list with variables expanded.
func (m *MCPServers) RegisterArgs(name string, server manifest.MCPServer) ([]string, error) {
	lookup := m.lookup()
	var missing []string
	expand := func(s string) string {
		out, unresolved := manifest.ExpandEnvRefs(s, lookup)
		missing = append(missing, unresolved...)
		return out
	}

	args := []string{"mcp", "add", name, "-s", string(server.EffectiveScope())}
	keys := make([]string, 0, len(server.Env))
	for key := range server.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-e", key+"="+expand(server.Env[key]))
	}
	args = append(args, "--", server.Command)
	for _, arg := range server.Args {
		args = append(args, expand(arg))
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf(messages.InstallMCPMissingEnvFmt, name, strings.Join(dedupe(missing), ", "))
	}
	return args, nil
}

// Unregister removes name from the agent host.
func (m *MCPServers) Unregister(name string) error {
	return m.run(m.claude(), "mcp", "remove", name)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

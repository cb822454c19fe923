package install

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/testutil"
)

// fakeSystem records commands and answers LookPath from a fixed set.
type fakeSystem struct {
	onPath map[string]bool
	fail   map[string]error
	output map[string]string
	calls  []string
}

func newFakeSystem(onPath ...string) *fakeSystem {
	f := &fakeSystem{onPath: map[string]bool{}, fail: map[string]error{}, output: map[string]string{}}
	for _, name := range onPath {
		f.onPath[name] = true
	}
	return f
}

func (f *fakeSystem) LookPath(file string) (string, error) {
	if f.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found")
}

func (f *fakeSystem) Run(_ io.Writer, _ io.Writer, name string, args ...string) error {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)
	for prefix, err := range f.fail {
		if strings.HasPrefix(line, prefix) {
			return err
		}
	}
	return nil
}

func (f *fakeSystem) Output(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return []byte(f.output[name]), nil
}

func (f *fakeSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func TestInstallBinaryPrefersCargo(t *testing.T) {
	sys := newFakeSystem("cargo", "brew")
	tools := NewTools(Env{Sys: sys})

	method, err := tools.Install(manifest.ToolDefinition{Name: "ripgrep", Type: manifest.ToolBinary}, "14.1.0")
	require.NoError(t, err)
	assert.Equal(t, state.MethodCargo, method)
	assert.Equal(t, []string{"cargo install ripgrep@14.1.0"}, sys.calls)
}

func TestInstallBinaryLatestOmitsVersion(t *testing.T) {
	sys := newFakeSystem("cargo")
	tools := NewTools(Env{Sys: sys})

	_, err := tools.Install(manifest.ToolDefinition{Name: "fd", Package: "fd-find", Type: manifest.ToolBinary}, "latest")
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo install fd-find"}, sys.calls)
}

func TestInstallBinaryFallsBackToBrew(t *testing.T) {
	sys := newFakeSystem("brew")
	tools := NewTools(Env{Sys: sys})

	method, err := tools.Install(manifest.ToolDefinition{Name: "jq", Type: manifest.ToolBinary}, "1.7.1")
	require.NoError(t, err)
	assert.Equal(t, state.MethodBrew, method)
	assert.Equal(t, []string{"brew install jq"}, sys.calls)
}

func TestInstallBinaryWithoutPackageManager(t *testing.T) {
	tools := NewTools(Env{Sys: newFakeSystem()})

	_, err := tools.Install(manifest.ToolDefinition{Name: "jq", Type: manifest.ToolBinary}, "1.7.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrerequisitesNotMet)
}

func TestInstallBinaryCommandFailure(t *testing.T) {
	sys := newFakeSystem("cargo")
	sys.fail["cargo install"] = errors.New("exit status 101")
	tools := NewTools(Env{Sys: sys})

	_, err := tools.Install(manifest.ToolDefinition{Name: "ripgrep", Type: manifest.ToolBinary}, "14.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cargo install ripgrep@14.1.0")
	assert.Contains(t, err.Error(), "exit status 101")
}

func TestInstallMCPTool(t *testing.T) {
	sys := newFakeSystem("claude")
	tools := NewTools(Env{Sys: sys, Claude: "claude"})

	method, err := tools.Install(manifest.ToolDefinition{Name: "context7", Package: "@upstash/context7-mcp", Type: manifest.ToolMCP}, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, state.MethodMcp, method)
	assert.Equal(t, []string{"claude mcp add context7 -s user -- npx -y @upstash/context7-mcp@1.0.0"}, sys.calls)

	require.NoError(t, tools.Unregister("context7"))
	assert.Equal(t, "claude mcp remove context7", sys.calls[1])
}

func TestInstallUnknownType(t *testing.T) {
	tools := NewTools(Env{Sys: newFakeSystem("cargo")})
	_, err := tools.Install(manifest.ToolDefinition{Name: "x", Type: "script"}, "1.0.0")
	require.Error(t, err)
}

func TestPresent(t *testing.T) {
	sys := newFakeSystem("rg", "claude")
	sys.output["claude"] = "context7: npx -y @upstash/context7-mcp - ✓ Connected\n"
	tools := NewTools(Env{Sys: sys})
	listing := tools.ListMCP()

	assert.True(t, tools.Present(manifest.ToolDefinition{Name: "ripgrep", Binary: "rg", Type: manifest.ToolBinary}, listing))
	assert.False(t, tools.Present(manifest.ToolDefinition{Name: "jq", Type: manifest.ToolBinary}, listing))
	assert.True(t, tools.Present(manifest.ToolDefinition{Name: "context7", Type: manifest.ToolMCP}, listing))
	assert.False(t, tools.Present(manifest.ToolDefinition{Name: "sequential", Type: manifest.ToolMCP}, listing))
}

func TestPresentMatchesWholeMCPName(t *testing.T) {
	listing := "Checking MCP server health...\n\n" +
		"foo-bar: npx -y foo-bar-mcp - ✓ Connected\n" +
		"search: search-mcp --foo - ✗ Failed to connect\n"
	tools := NewTools(Env{Sys: newFakeSystem()})

	assert.False(t, tools.Present(manifest.ToolDefinition{Name: "foo", Type: manifest.ToolMCP}, listing))
	assert.True(t, tools.Present(manifest.ToolDefinition{Name: "foo-bar", Type: manifest.ToolMCP}, listing))
	assert.True(t, tools.Present(manifest.ToolDefinition{Name: "search", Type: manifest.ToolMCP}, listing))
	assert.False(t, tools.Present(manifest.ToolDefinition{Name: "bar", Type: manifest.ToolMCP}, listing))
}

func TestListMCPWithoutHost(t *testing.T) {
	sys := newFakeSystem()
	assert.Empty(t, Env{Sys: sys}.ListMCP())
	assert.Empty(t, sys.calls)
}

func TestCheckPrerequisites(t *testing.T) {
	env := Env{Sys: newFakeSystem("node")}
	m := &manifest.Manifest{Prerequisites: map[string]string{"cargo": "", "node": "", "uv": "install uv: https://docs.astral.sh/uv"}}

	err := env.CheckPrerequisites(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrerequisitesNotMet)
	assert.Contains(t, err.Error(), "cargo (install Rust: https://rustup.rs), uv (install uv: https://docs.astral.sh/uv)")
	assert.NotContains(t, err.Error(), "node")

	assert.NoError(t, Env{Sys: newFakeSystem("cargo", "node", "uv")}.CheckPrerequisites(m))
	assert.NoError(t, env.CheckPrerequisites(nil))
}

func TestRegisterMCPServerExpandsEnv(t *testing.T) {
	sys := newFakeSystem("claude")
	lookup := func(name string) (string, bool) {
		if name == "SEARCH_KEY" {
			return "s3cret", true
		}
		return "", false
	}
	servers := NewMCPServers(Env{Sys: sys}, lookup)

	err := servers.Register("search", manifest.MCPServer{
		Command: "npx",
		Args:    []string{"-y", "search-mcp", "--key=${SEARCH_KEY}"},
		Env:     map[string]string{"B": "plain", "A": "${SEARCH_KEY}"},
		Scope:   manifest.ScopeProject,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"claude mcp add search -s project -e A=s3cret -e B=plain -- npx -y search-mcp --key=s3cret"}, sys.calls)
}

func TestRegisterMCPServerMissingEnv(t *testing.T) {
	sys := newFakeSystem("claude")
	servers := NewMCPServers(Env{Sys: sys}, func(string) (string, bool) { return "", false })

	err := servers.Register("search", manifest.MCPServer{
		Command: "search-mcp",
		Args:    []string{"${TOKEN}"},
		Env:     map[string]string{"KEY": "${API_KEY}", "OTHER": "${TOKEN}"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY, TOKEN")
	assert.Empty(t, sys.calls)
}

func TestPlugins(t *testing.T) {
	sys := newFakeSystem("claude")
	plugins := NewPlugins(Env{Sys: sys}, "")

	require.NoError(t, plugins.InstallPlugin("superego"))
	require.NoError(t, plugins.UpdateMarketplace())
	require.NoError(t, plugins.UninstallPlugin("superego"))
	assert.Equal(t, []string{
		"claude plugin install superego@cloud-atlas-ai/bottle",
		"claude plugin marketplace update cloud-atlas-ai/bottle",
		"claude plugin uninstall superego@cloud-atlas-ai/bottle",
	}, sys.calls)

	err := NewPlugins(Env{Sys: newFakeSystem()}, "acme/market").UpdateMarketplace()
	assert.ErrorIs(t, err, ErrHostMissing)
}

func TestRealSystemWithStubs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	testutil.WriteRecordingStub(t, dir, "brew", logPath, "", 0)
	testutil.WriteRecordingStub(t, dir, "claude", logPath, "jq-mcp: connected", 0)
	testutil.IsolatePath(t, dir)

	env := Env{Sys: RealSystem{}}
	method, err := NewTools(env).Install(manifest.ToolDefinition{Name: "jq", Type: manifest.ToolBinary}, "1.7.1")
	require.NoError(t, err)
	assert.Equal(t, state.MethodBrew, method)
	assert.Contains(t, env.ListMCP(), "jq-mcp")

	assert.Equal(t, []string{"brew install jq", "claude mcp list"}, testutil.ReadInvocations(t, logPath))
}

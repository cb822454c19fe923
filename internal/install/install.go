// Package install performs package-manager and agent-host work for bottle:
// curated tools via cargo or brew, custom tools via their declared methods,
// MCP server registration and plugin installation.
package install

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// ErrPrerequisitesNotMet reports that an external tool bottle depends on is missing.
var ErrPrerequisitesNotMet = errors.New(messages.InstallPrerequisitesNotMet)

// ErrHostMissing reports that the agent host CLI is not on PATH.
var ErrHostMissing = errors.New(messages.InstallHostMissing)

// DefaultClaudeCommand is the agent host CLI used when none is configured.
const DefaultClaudeCommand = "claude"

// Env carries what every installer needs to run external commands.
type Env struct {
	Sys    System
	Stdout io.Writer
	Stderr io.Writer
	// Claude is the agent host CLI used for MCP and plugin registration.
	Claude string
}

func (e Env) system() System {
	if e.Sys == nil {
		return RealSystem{}
	}
	return e.Sys
}

func (e Env) claude() string {
	if strings.TrimSpace(e.Claude) == "" {
		return DefaultClaudeCommand
	}
	return e.Claude
}

// Available reports whether command is on PATH.
func (e Env) Available(command string) bool {
	_, err := e.system().LookPath(command)
	return err == nil
}

// run executes name and wraps a failure with the command line that failed.
func (e Env) run(name string, args ...string) error {
	stdout, stderr := e.Stdout, e.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if err := e.system().Run(stdout, stderr, name, args...); err != nil {
		return fmt.Errorf(messages.InstallCommandFailedFmt, name, strings.Join(args, " "), err)
	}
	return nil
}

// strategy is one way of installing a binary tool, usable when command is on PATH.
type strategy struct {
	method  state.InstallMethod
	command string
	args    func(pkg string, version string) []string
}

// binaryStrategies are tried in order; the first whose command is available wins.
var binaryStrategies = []strategy{
	{method: state.MethodCargo, command: "cargo", args: cargoArgs},
	{method: state.MethodBrew, command: "brew", args: brewArgs},
}

func cargoArgs(pkg string, version string) []string {
	if version == "" || version == "latest" {
		return []string{"install", pkg}
	}
	return []string{"install", pkg + "@" + version}
}

// brew installs whatever version its formula currently pins.
func brewArgs(pkg string, _ string) []string {
	return []string{"install", pkg}
}

// Tools installs curated tools. It implements reconcile.Installer.
type Tools struct {
	Env
}

// NewTools returns a curated tool installer over env.
func NewTools(env Env) *Tools {
	return &Tools{Env: env}
}

// Install installs def at version and reports the method used.
// Binary tools use the first available strategy; MCP tools are registered
// with the agent host as npx-launched servers.
func (t *Tools) Install(def manifest.ToolDefinition, version string) (state.InstallMethod, error) {
	switch def.Type {
	case manifest.ToolMCP:
		args := []string{"mcp", "add", def.Name, "-s", string(manifest.ScopeUser), "--", "npx", "-y", def.PackageName() + "@" + version}
		if err := t.run(t.claude(), args...); err != nil {
			return "", err
		}
		return state.MethodMcp, nil
	case manifest.ToolBinary, "":
		for _, s := range binaryStrategies {
			if !t.Available(s.command) {
				continue
			}
			if err := t.run(s.command, s.args(def.PackageName(), version)...); err != nil {
				return "", err
			}
			return s.method, nil
		}
		return "", fmt.Errorf("%w: %s", ErrPrerequisitesNotMet, messages.InstallNoBinaryStrategy)
	default:
		return "", fmt.Errorf(messages.InstallUnknownToolTypeFmt, def.Name, def.Type)
	}
}

// Unregister removes an MCP tool from the agent host.
func (t *Tools) Unregister(name string) error {
	return t.run(t.claude(), "mcp", "remove", name)
}

// Present reports whether def is installed: binaries on PATH, MCP tools
// listed by the agent host. registered is the output of ListMCP.
func (t *Tools) Present(def manifest.ToolDefinition, registered string) bool {
	if def.Type == manifest.ToolMCP {
		return mcpListed(registered, def.Name)
	}
	return t.Available(def.BinaryName())
}

// mcpListed reports whether name is a server in `mcp list` output, where each
// server line starts with "<name>: ".
func mcpListed(registered string, name string) bool {
	for _, line := range strings.Split(registered, "\n") {
		listed, _, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(listed) == name {
			return true
		}
	}
	return false
}

// ListMCP returns the agent host's `mcp list` output. A missing or failing
// host yields an empty listing.
func (e Env) ListMCP() string {
	if !e.Available(e.claude()) {
		return ""
	}
	out, err := e.system().Output(e.claude(), "mcp", "list")
	if err != nil {
		return ""
	}
	return string(out)
}

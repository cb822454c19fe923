// Package reconcile applies plans by driving installers one item at a time.
//
// Every item is attempted regardless of earlier failures. Failures are
// collected as data and the caller persists whatever succeeded.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// Kind identifies the collection an item belongs to.
type Kind string

const (
	KindTool       Kind = "tool"
	KindCustomTool Kind = "custom_tool"
	KindMCPServer  Kind = "mcp_server"
	KindPlugin     Kind = "plugin"
)

// Action is what the executor did, or tried to do, with an item.
type Action string

const (
	ActionAdd        Action = "add"
	ActionUpgrade    Action = "upgrade"
	ActionDowngrade  Action = "downgrade"
	ActionUnchanged  Action = "unchanged"
	ActionUnregister Action = "unregister"
	ActionUntrack    Action = "untrack"
	ActionInstall    Action = "install"
)

// ToolDefinitionSource resolves a curated tool name to an installable definition.
type ToolDefinitionSource interface {
	Fetch(name string) (*manifest.ToolDefinition, error)
}

// Installer installs curated tools and unregisters those that need it.
type Installer interface {
	// Install installs def at version and reports the method actually used.
	Install(def manifest.ToolDefinition, version string) (state.InstallMethod, error)
	Unregister(name string) error
}

// CustomInstaller installs custom tools by trying their methods in order.
type CustomInstaller interface {
	InstallCustom(name string, tool manifest.CustomTool) (state.CustomMethod, error)
}

// MCPRegistrar registers and removes bespoke MCP servers.
type MCPRegistrar interface {
	Register(name string, server manifest.MCPServer) error
	Unregister(name string) error
}

// PluginInstaller installs agent-host plugins.
type PluginInstaller interface {
	InstallPlugin(plugin string) error
}

// Failure is one item that could not be applied.
type Failure struct {
	Name string
	Kind Kind
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf(messages.ReconcileFailureFmt, f.Kind, f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Outcome records what happened to one item, successful or not.
type Outcome struct {
	Kind   Kind
	Name   string
	Action Action
	From   string
	To     string
	Method string
	Err    error
}

// Executor applies plans. Now defaults to time.Now and Observe may be nil.
type Executor struct {
	Definitions ToolDefinitionSource
	Installer   Installer
	Custom      CustomInstaller
	MCP         MCPRegistrar
	Plugins     PluginInstaller
	Now         func() time.Time
	// Observe is called after each item is processed, in processing order.
	Observe func(Outcome)
}

var errNotConfigured = errors.New(messages.ReconcileNotConfigured)

func (e *Executor) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// record notifies the observer and returns the outcome for accumulation.
func (e *Executor) record(o Outcome) Outcome {
	if e.Observe != nil {
		e.Observe(o)
	}
	return o
}

// Failures extracts failed outcomes.
func Failures(outcomes []Outcome) []Failure {
	var failures []Failure
	for _, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, Failure{Name: o.Name, Kind: o.Kind, Err: o.Err})
		}
	}
	return failures
}

package reconcile

import (
	"fmt"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/state"
)

// Result is the outcome of executing a tool plan.
type Result struct {
	// Tools is the tool set to persist: unchanged records, successful installs,
	// prior records of failed upgrades, and removals that could not be applied.
	Tools    map[string]state.ToolRecord
	Failures []Failure
	Outcomes []Outcome
}

// Execute applies p against the tools recorded in current.
// It never stops early; each item succeeds or fails on its own.
func (e *Executor) Execute(current *state.State, p plan.Plan) Result {
	prior := map[string]state.ToolRecord{}
	if current != nil {
		prior = current.Tools
	}
	tools := make(map[string]state.ToolRecord, len(prior))
	var outcomes []Outcome

	for _, tv := range p.Unchanged {
		record, ok := prior[tv.Name]
		if !ok {
			continue
		}
		tools[tv.Name] = record
		outcomes = append(outcomes, e.record(Outcome{
			Kind: KindTool, Name: tv.Name, Action: ActionUnchanged,
			From: record.Version, To: record.Version, Method: string(record.Method),
		}))
	}

	for _, tv := range p.Add {
		outcomes = append(outcomes, e.installTool(tools, ActionAdd, tv.Name, "", tv.Version, nil))
	}
	for _, vc := range p.Upgrade {
		old := prior[vc.Name]
		outcomes = append(outcomes, e.installTool(tools, ActionUpgrade, vc.Name, vc.From, vc.To, &old))
	}
	for _, vc := range p.Downgrade {
		old := prior[vc.Name]
		outcomes = append(outcomes, e.installTool(tools, ActionDowngrade, vc.Name, vc.From, vc.To, &old))
	}

	for _, name := range p.Remove {
		old, ok := prior[name]
		if !ok {
			continue
		}
		if !old.Method.Unregisterable() {
			outcomes = append(outcomes, e.record(Outcome{
				Kind: KindTool, Name: name, Action: ActionUntrack, From: old.Version, Method: string(old.Method),
			}))
			continue
		}
		o := Outcome{Kind: KindTool, Name: name, Action: ActionUnregister, From: old.Version, Method: string(old.Method)}
		if e.Installer == nil {
			o.Err = errNotConfigured
		} else if err := e.Installer.Unregister(name); err != nil {
			o.Err = fmt.Errorf(messages.ReconcileUnregisterFmt, name, err)
		}
		if o.Err != nil {
			tools[name] = old
		}
		outcomes = append(outcomes, e.record(o))
	}

	return Result{Tools: tools, Failures: Failures(outcomes), Outcomes: outcomes}
}

// installTool resolves and installs one tool, writing the resulting record into tools.
// When old is non-nil a failure keeps the old record in place.
func (e *Executor) installTool(tools map[string]state.ToolRecord, action Action, name string, from string, to string, old *state.ToolRecord) Outcome {
	o := Outcome{Kind: KindTool, Name: name, Action: action, From: from, To: to}
	fail := func(err error) Outcome {
		o.Err = err
		if old != nil && old.Version != "" {
			tools[name] = *old
		}
		return e.record(o)
	}

	if e.Definitions == nil || e.Installer == nil {
		return fail(errNotConfigured)
	}
	def, err := e.Definitions.Fetch(name)
	if err != nil {
		return fail(fmt.Errorf(messages.ReconcileResolveFmt, name, err))
	}
	method, err := e.Installer.Install(*def, to)
	if err != nil {
		return fail(fmt.Errorf(messages.ReconcileInstallFmt, name, to, err))
	}
	tools[name] = state.ToolRecord{Version: to, InstalledAt: e.now(), Method: method}
	o.Method = string(method)
	return e.record(o)
}

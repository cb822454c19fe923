package ui

import (
	"fmt"
	"io"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/reconcile"
)

// RenderTransition prints the "<verb> <from> -> <to> (<version>)" heading of a
// plan followed by the target description, if any.
func RenderTransition(w io.Writer, verb string, from string, to string, toVersion string, description string) {
	target := nameColor.Sprint(to)
	if from != "" {
		target = nameColor.Sprint(from) + " -> " + target
	}
	_, _ = fmt.Fprintf(w, messages.UITransitionFmt, boldColor.Sprint(verb), target, toVersion)
	if description != "" {
		_, _ = dimColor.Fprintln(w, description)
	}
	_, _ = fmt.Fprintln(w)
}

// RenderPlan prints the tool changes of p, one line per touched tool and a
// count of unchanged tools.
func RenderPlan(w io.Writer, p plan.Plan) {
	if p.IsNoop() {
		_, _ = dimColor.Fprintln(w, messages.UIPlanNoChanges)
		_, _ = fmt.Fprintln(w)
		return
	}
	_, _ = boldColor.Fprintln(w, messages.UIPlanChangesHeader)
	for _, tv := range p.Add {
		_, _ = fmt.Fprintf(w, messages.UIPlanAddFmt, successColor.Sprint("+"), tv.Name, dimColor.Sprint(tv.Version))
	}
	for _, name := range p.Remove {
		_, _ = fmt.Fprintf(w, messages.UIPlanRemoveFmt, errorColor.Sprint("-"), name)
	}
	for _, vc := range p.Upgrade {
		_, _ = fmt.Fprintf(w, messages.UIPlanMoveFmt, infoColor.Sprint("↑"), vc.Name, dimColor.Sprint(vc.From), successColor.Sprint(vc.To))
	}
	for _, vc := range p.Downgrade {
		_, _ = fmt.Fprintf(w, messages.UIPlanMoveFmt, warnColor.Sprint("↓"), vc.Name, dimColor.Sprint(vc.From), warnColor.Sprint(vc.To))
	}
	if len(p.Unchanged) > 0 {
		_, _ = fmt.Fprintf(w, messages.UIPlanUnchangedFmt, dimColor.Sprint("="), len(p.Unchanged))
	}
	_, _ = fmt.Fprintln(w)
}

// RenderOutcome prints one processed item. Unchanged items are not shown.
func RenderOutcome(w io.Writer, o reconcile.Outcome) {
	if o.Action == reconcile.ActionUnchanged {
		return
	}
	detail := o.To
	if detail == "" {
		detail = o.From
	}
	_, _ = fmt.Fprintf(w, messages.UIOutcomeFmt, o.Name, dimColor.Sprint(detail), outcomeLabel(o))
}

func outcomeLabel(o reconcile.Outcome) string {
	if o.Err != nil {
		return errorColor.Sprint(messages.UIOutcomeFailed)
	}
	switch o.Action {
	case reconcile.ActionUpgrade, reconcile.ActionDowngrade:
		return successColor.Sprint(messages.UIOutcomeUpdated)
	case reconcile.ActionUnregister:
		return successColor.Sprint(messages.UIOutcomeRemoved)
	case reconcile.ActionUntrack:
		return dimColor.Sprint(messages.UIOutcomeUntracked)
	default:
		return successColor.Sprint(messages.UIOutcomeInstalled)
	}
}

// RenderFailures prints a summary of failed items. Nothing is printed when
// failures is empty.
func RenderFailures(w io.Writer, failures []reconcile.Failure) {
	if len(failures) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = warnColor.Fprintf(w, messages.UIFailuresHeaderFmt, len(failures))
	for _, f := range failures {
		_, _ = fmt.Fprintf(w, messages.UIFailureLineFmt, f.Error())
	}
}

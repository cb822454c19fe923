package bottle

import (
	"context"
	"fmt"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// Switch moves the active managed bottle to name. Tools are reconciled
// against the new manifest; integrations and custom tools carry over.
func (a *App) Switch(ctx context.Context, name string, opts Options) error {
	current, err := a.loadManaged()
	if err != nil {
		return err
	}
	if current.Bottle == name {
		ui.Warn(a.errOut(), messages.BottleAlreadyOnFmt, name)
		return nil
	}

	target, err := a.fetch(ctx, messages.BottleFetchingManifest, name)
	if err != nil {
		return err
	}
	if err := a.checkPrerequisites(target); err != nil {
		return err
	}

	p := plan.Calculate(current, target)
	out := a.out()
	ui.RenderTransition(out, messages.BottleVerbSwitching, current.Bottle, target.Name, target.Version, target.Description)
	ui.RenderPlan(out, p)
	a.renderExtras(target)
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.BottleDryRun)
		return nil
	}
	if err := a.confirm(messages.BottleConfirmSwitch, true, opts); err != nil {
		return err
	}

	next := state.New(target.Name, target.Version, a.now())
	next.Integrations = state.CloneMap(current.Integrations)
	failures, err := a.apply(ctx, reconciliation{
		command:     "switch",
		target:      target,
		plan:        p,
		tools:       current,
		prior:       current,
		carryCustom: true,
		next:        next,
		fromVersion: current.BottleVersion,
	})
	if err != nil {
		return err
	}

	ui.Success(out, messages.BottleSwitchedFmt, target.Name, target.Version)
	return finish(failures, opts)
}

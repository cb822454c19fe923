package bottle

import (
	"context"
	"fmt"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// Update reconciles the active managed bottle against the latest snapshot
// of its manifest. The original install time and integrations are kept.
func (a *App) Update(ctx context.Context, opts Options) error {
	current, err := a.loadManaged()
	if err != nil {
		return err
	}

	target, err := a.fetch(ctx, messages.BottleCheckingUpdates, current.Bottle)
	if err != nil {
		return err
	}

	p := plan.Calculate(current, target)
	out := a.out()
	if p.IsNoop() && target.Version == current.BottleVersion && !extrasChanged(current, target) {
		_, _ = fmt.Fprintf(out, messages.BottleUpToDateFmt+"\n", current.Bottle, current.BottleVersion)
		return nil
	}
	if err := a.checkPrerequisites(target); err != nil {
		return err
	}

	ui.RenderTransition(out, messages.BottleVerbUpdating, current.BottleVersion, target.Version, target.Version, target.Description)
	ui.RenderPlan(out, p)
	a.renderExtras(target)
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.BottleDryRun)
		return nil
	}
	if err := a.confirm(messages.BottleConfirmUpdate, true, opts); err != nil {
		return err
	}

	if updater, ok := a.Plugins.(marketplaceUpdater); ok && len(target.Plugins) > 0 {
		if err := updater.UpdateMarketplace(); err != nil {
			ui.Warn(a.errOut(), "%v", err)
		}
	}

	next := state.New(target.Name, target.Version, a.now())
	next.InstalledAt = current.InstalledAt
	next.Integrations = state.CloneMap(current.Integrations)
	failures, err := a.apply(ctx, reconciliation{
		command:     "update",
		target:      target,
		plan:        p,
		tools:       current,
		prior:       current,
		next:        next,
		fromVersion: current.BottleVersion,
	})
	if err != nil {
		return err
	}

	ui.Success(out, messages.BottleUpdatedFmt, target.Name, target.Version)
	return finish(failures, opts)
}

package bottle

import (
	"context"
	"errors"
	"fmt"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// Install installs bottle name, or the manifest at opts.Manifest when set.
//
// A managed bottle of the same name is left alone and a different managed
// bottle must be switched to instead. An ejected or unreadable active state
// is replaced by a fresh install that keeps recorded integrations.
func (a *App) Install(ctx context.Context, name string, opts Options) error {
	prior, err := a.Store.LoadActive()
	if errors.Is(err, state.ErrStateCorrupted) {
		ui.Warn(a.errOut(), messages.BottleCorruptedFreshFmt, err)
		prior, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf(messages.BottleLoadStateFmt, err)
	}

	var target *manifest.Manifest
	if opts.Manifest != "" {
		target, err = manifest.Load(opts.Manifest)
		if err != nil {
			return err
		}
		name = target.Name
	}
	if done, err := a.checkInstallable(prior, name); done || err != nil {
		return err
	}
	if target == nil {
		target, err = a.fetch(ctx, messages.BottleFetchingManifest, name)
		if err != nil {
			return err
		}
	}
	if err := a.checkPrerequisites(target); err != nil {
		return err
	}

	p := plan.Calculate(nil, target)
	out := a.out()
	ui.RenderTransition(out, messages.BottleVerbInstalling, "", target.Name, target.Version, target.Description)
	ui.RenderPlan(out, p)
	a.renderExtras(target)
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.BottleDryRun)
		return nil
	}
	if err := a.confirm(messages.BottleConfirmInstall, true, opts); err != nil {
		return err
	}

	next := state.New(target.Name, target.Version, a.now())
	if prior != nil {
		next.Integrations = state.CloneMap(prior.Integrations)
	}
	failures, err := a.apply(ctx, reconciliation{
		command: "install",
		target:  target,
		plan:    p,
		prior:   prior,
		next:    next,
	})
	if err != nil {
		return err
	}

	ui.Success(out, messages.BottleInstalledFmt, target.Name, target.Version)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, messages.BottleNextStepsHeader)
	_, _ = fmt.Fprintln(out, messages.BottleNextStepStatus)
	_, _ = fmt.Fprintln(out, messages.BottleNextStepIntegr)
	return finish(failures, opts)
}

// checkInstallable applies the install rules for an existing active state.
// done is true when there is nothing to do.
func (a *App) checkInstallable(prior *state.State, name string) (done bool, err error) {
	if prior == nil {
		return false, nil
	}
	if !prior.IsManaged() {
		ui.Info(a.errOut(), messages.BottleEjectedFresh)
		return false, nil
	}
	if prior.Bottle == name {
		ui.Warn(a.errOut(), messages.BottleAlreadyInstalledFmt, name)
		return true, nil
	}
	return false, fmt.Errorf(messages.BottleOtherActiveFmt, prior.Bottle, name)
}

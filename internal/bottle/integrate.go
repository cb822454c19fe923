package bottle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/conn-castle/bottle/internal/integrate"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// IntegrateOptions are the flags of the integrate command.
type IntegrateOptions struct {
	Platform string
	List     bool
	Remove   bool
	DryRun   bool
}

// Integrate adds, removes or lists platform integrations. Integrations are
// recorded on the active bottle and survive switch and update.
func (a *App) Integrate(ctx context.Context, opts IntegrateOptions) error {
	out := a.out()
	if opts.List || opts.Platform == "" {
		if opts.Platform == "" && opts.Remove {
			return errors.New(messages.IntegratePlatformRequired)
		}
		a.printIntegrations(out)
		return nil
	}

	p, err := integrate.ParsePlatform(opts.Platform)
	if err != nil {
		return err
	}
	current, err := a.loadActive()
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoBottleInstalled
	}
	if opts.Remove {
		return a.removeIntegration(ctx, out, current, p, opts)
	}
	return a.addIntegration(ctx, out, current, p, opts)
}

func (a *App) addIntegration(ctx context.Context, out io.Writer, current *state.State, p integrate.Platform, opts IntegrateOptions) error {
	_, recorded := current.Integrations[string(p)]
	if a.Integrations.Installed(p) {
		if recorded {
			ui.Info(out, messages.IntegrateAlreadyFmt, p.DisplayName())
			return nil
		}
	} else if recorded {
		ui.Warn(a.errOut(), messages.IntegrateIncompleteFmt, p.DisplayName())
	}

	detection := a.detection(p)
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.IntegrateDryRunHeader)
		_, _ = fmt.Fprintf(out, messages.IntegrateDryRunInstallFmt, p.DisplayName())
		a.printDryRunDetails(out, detection, p.InstallAction(), "added", current.Bottle)
		return nil
	}
	if !detection.Detected {
		ui.Warn(a.errOut(), messages.IntegrateNotDetectedFmt, p.DisplayName(), detection.Hint)
	}

	warnings, err := a.Integrations.Install(p, a.opencodePins(ctx, current, p))
	for _, warning := range warnings {
		ui.Warn(a.errOut(), "%s", warning)
	}
	if err != nil {
		return fmt.Errorf(messages.IntegrateFailedFmt, p.DisplayName(), err)
	}

	next := current.Clone()
	next.Integrations[string(p)] = state.IntegrationRecord{InstalledAt: a.now()}
	if err := a.Store.Save(next); err != nil {
		return fmt.Errorf(messages.BottleSaveStateFmt, err)
	}
	ui.Success(out, messages.IntegrateInstalledFmt, p.DisplayName())
	if step := p.NextStep(); step != "" {
		_, _ = fmt.Fprintln(out, step)
	}
	return nil
}

func (a *App) removeIntegration(ctx context.Context, out io.Writer, current *state.State, p integrate.Platform, opts IntegrateOptions) error {
	_, recorded := current.Integrations[string(p)]
	if !recorded && !a.Integrations.Installed(p) {
		ui.Info(out, messages.IntegrateNotInstalledFmt, p.DisplayName())
		return nil
	}
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.IntegrateDryRunHeader)
		_, _ = fmt.Fprintf(out, messages.IntegrateDryRunRemoveFmt, p.DisplayName())
		a.printDryRunDetails(out, a.detection(p), p.RemoveAction(), "removed", current.Bottle)
		return nil
	}

	if err := a.Integrations.Remove(p, a.opencodePins(ctx, current, p)); err != nil {
		return fmt.Errorf(messages.IntegrateRemoveFailedFmt, p.DisplayName(), err)
	}
	next := current.Clone()
	delete(next.Integrations, string(p))
	if err := a.Store.Save(next); err != nil {
		return fmt.Errorf(messages.BottleSaveStateFmt, err)
	}
	ui.Success(out, messages.IntegrateRemovedFmt, p.DisplayName())
	return nil
}

func (a *App) printDryRunDetails(out io.Writer, detection integrate.Detection, action string, change string, bottle string) {
	if detection.Detected {
		_, _ = fmt.Fprintf(out, messages.IntegrateDryRunDetectedFmt, detection.Hint)
	} else {
		_, _ = fmt.Fprintf(out, messages.IntegrateDryRunMissingFmt, detection.Hint)
	}
	_, _ = fmt.Fprintf(out, messages.IntegrateDryRunActionFmt, action)
	_, _ = fmt.Fprintf(out, messages.IntegrateDryRunStateFmt, change, bottle)
}

func (a *App) detection(p integrate.Platform) integrate.Detection {
	for _, d := range a.Integrations.Detect() {
		if d.Platform == p {
			return d
		}
	}
	return integrate.Detection{Platform: p, Hint: p.Hint()}
}

// opencodePins returns the active manifest's OpenCode plugin pins. Other
// platforms do not use them.
func (a *App) opencodePins(ctx context.Context, current *state.State, p integrate.Platform) map[string]string {
	if p != integrate.OpenCode || a.Source == nil {
		return nil
	}
	m, err := a.Source.Manifest(ctx, current.Bottle)
	if err != nil {
		ui.Warn(a.errOut(), messages.IntegrateOpencodePinsFmt, current.Bottle, err)
		return nil
	}
	return m.OpencodePlugins
}

func (a *App) printIntegrations(out io.Writer) {
	_, _ = fmt.Fprintln(out, messages.IntegrateListHeader)
	for _, d := range a.Integrations.Detect() {
		status := messages.IntegrateStatusNotFound
		switch {
		case a.Integrations.Installed(d.Platform):
			status = messages.IntegrateStatusInstalled
		case d.Detected:
			status = messages.IntegrateStatusAvailable
		}
		_, _ = fmt.Fprintf(out, messages.IntegrateListLineFmt, d.Platform, status, d.Platform.DisplayName())
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, messages.IntegrateCommandsHeader)
	_, _ = fmt.Fprintln(out, messages.IntegrateCommandAdd)
	_, _ = fmt.Fprintln(out, messages.IntegrateCommandRemove)
}

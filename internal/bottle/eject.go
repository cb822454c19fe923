package bottle

import (
	"context"
	"fmt"

	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

// Eject stops reconciliation for the active bottle. Nothing is uninstalled;
// only the recorded mode changes.
func (a *App) Eject(ctx context.Context, opts Options) error {
	current, err := a.loadActive()
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoBottleInstalled
	}
	if !current.IsManaged() {
		return ErrAlreadyEjected
	}

	out := a.out()
	ui.Header(out, messages.BottleEjectHeader)
	_, _ = fmt.Fprintf(out, messages.BottleEjectExplainFmt, current.Bottle)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, messages.BottleEjectMeaning)
	for _, line := range []string{
		messages.BottleEjectToolsRemain,
		messages.BottleEjectMCPRemain,
		messages.BottleEjectPluginRemain,
		messages.BottleEjectNoUpdates,
	} {
		ui.Info(out, "%s", line)
	}
	_, _ = fmt.Fprintln(out)
	if opts.DryRun {
		_, _ = fmt.Fprintln(out, messages.BottleDryRun)
		return nil
	}
	if err := a.confirm(messages.BottleConfirmEject, false, opts); err != nil {
		return err
	}

	started := a.now()
	next := current.Clone()
	next.Mode = state.ModeEjected
	if err := a.Store.Save(next); err != nil {
		return fmt.Errorf(messages.BottleSaveStateFmt, err)
	}
	a.recordRun(ctx, history.Run{
		Command:     "eject",
		Bottle:      next.Bottle,
		FromVersion: next.BottleVersion,
		ToVersion:   next.BottleVersion,
		StartedAt:   started,
		FinishedAt:  a.now(),
	})

	ui.Success(out, messages.BottleEjectedFmt, next.Bottle)
	_, _ = fmt.Fprintf(out, messages.BottleEjectReturnFmt+"\n", next.Bottle)
	return nil
}

package bottle

import (
	"context"
	"fmt"

	"github.com/conn-castle/bottle/internal/history"
	"github.com/conn-castle/bottle/internal/messages"
)

// History prints the most recent limit runs, newest first.
func (a *App) History(ctx context.Context, limit int) error {
	out := a.out()
	if a.Ledger == nil {
		_, _ = fmt.Fprintln(out, messages.HistoryDisabled)
		return nil
	}
	runs, err := a.Ledger.List(ctx, limit)
	if err != nil {
		return fmt.Errorf(messages.HistoryListFailedFmt, err)
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, messages.HistoryEmpty)
		return nil
	}
	for _, run := range runs {
		_, _ = fmt.Fprintln(out, historyLine(run))
	}
	return nil
}

func historyLine(run history.Run) string {
	versions := run.ToVersion
	if run.FromVersion != "" && run.FromVersion != run.ToVersion {
		versions = fmt.Sprintf(messages.HistoryVersionFmt, run.FromVersion, run.ToVersion)
	}
	line := fmt.Sprintf(messages.HistoryLineFmt,
		run.StartedAt.Local().Format("2006-01-02 15:04"), run.Command, run.Bottle, versions, len(run.Items))
	if failed := run.Failed(); failed > 0 {
		line += fmt.Sprintf(messages.HistoryFailedFmt, failed)
	}
	return line
}

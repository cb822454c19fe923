// Package updatewarn prints a best-effort notice when a newer bottle release exists.
package updatewarn

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/bottle/internal/config"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/update"
)

// CheckForUpdate is a seam for tests.
var CheckForUpdate = update.Check

// WarnIfOutdated prints a yellow notice to stderr when the release check finds
// something worth saying. It is skipped when network access is disabled and
// never returns an error.
func WarnIfOutdated(ctx context.Context, currentVersion string, stderr io.Writer) {
	if strings.TrimSpace(os.Getenv(config.EnvNoNetwork)) != "" {
		return
	}
	text := notice(CheckForUpdate(ctx, currentVersion))
	if text == "" || stderr == nil {
		return
	}
	_, _ = color.New(color.FgYellow).Fprint(stderr, text)
}

// notice renders the outcome of a release check. Rate limits and current
// releases produce nothing.
func notice(result update.Result, err error) string {
	switch {
	case update.IsRateLimitError(err):
		return ""
	case err != nil:
		return fmt.Sprintf(messages.UpdateWarnCheckFailedFmt, err)
	case result.Dev:
		return fmt.Sprintf(messages.UpdateWarnDevBuildFmt, result.Latest)
	case result.Outdated:
		return fmt.Sprintf(messages.UpdateWarnAvailableFmt, result.Latest, result.Current, update.ReleasesURL)
	default:
		return ""
	}
}

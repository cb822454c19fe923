package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

var releasePattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Normalize strips a leading "v" from a release version and validates the X.Y.Z form.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf(messages.VersionRequired)
	}
	trimmed = strings.TrimPrefix(trimmed, "v")
	if !releasePattern.MatchString(trimmed) {
		return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
	}
	return trimmed, nil
}

// IsDev reports whether raw identifies a development build.
func IsDev(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "dev" || strings.HasPrefix(trimmed, "dev-")
}

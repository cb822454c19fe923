package ui

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/bottle/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown.
const DefaultDiffMaxLines = 40

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

// UnifiedDiff renders a unified diff of from and to capped at maxLines
// (DefaultDiffMaxLines when maxLines <= 0). It reports whether lines were cut.
// Identical contents render as "".
func UnifiedDiff(fromName string, toName string, from string, to string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	lines := splitDiffLines(udiff.Unified(fromName, toName, from, to))
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.UIDiffTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

// ColorizeDiff colors added and removed lines of a rendered unified diff.
func ColorizeDiff(diff string) string {
	lines := splitDiffLines(diff)
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = boldColor.Sprint(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = nameColor.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = successColor.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = errorColor.Sprint(line)
		}
	}
	return ensureTrailingNewline(strings.Join(lines, "\n"))
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}

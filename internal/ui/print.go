// Package ui renders bottle output: colored status lines, plans, diffs,
// confirmation prompts and a progress spinner.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgBlue)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	boldColor    = color.New(color.Bold)
	nameColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// Success prints a green check line.
func Success(w io.Writer, format string, args ...any) {
	printLine(w, successColor, "✓", format, args...)
}

// Info prints a neutral bullet line.
func Info(w io.Writer, format string, args ...any) {
	printLine(w, infoColor, "•", format, args...)
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, format string, args ...any) {
	printLine(w, warnColor, "!", format, args...)
}

// Error prints a red error line.
func Error(w io.Writer, format string, args ...any) {
	printLine(w, errorColor, "error:", format, args...)
}

// Header prints a bold line surrounded by blank lines.
func Header(w io.Writer, text string) {
	_, _ = fmt.Fprintln(w)
	_, _ = boldColor.Fprintln(w, text)
	_, _ = fmt.Fprintln(w)
}

// BottleHeader prints "Bottle: <name> (<version>)".
func BottleHeader(w io.Writer, name string, version string) {
	_, _ = fmt.Fprintf(w, "%s: %s (%s)\n\n", boldColor.Sprint("Bottle"), nameColor.Sprint(name), version)
}

func printLine(w io.Writer, c *color.Color, marker string, format string, args ...any) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", c.Sprint(marker), fmt.Sprintf(format, args...))
}

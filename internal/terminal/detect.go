// Package terminal decides whether bottle may prompt and animate.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is a seam for tests.
var isTerminal = term.IsTerminal

// CanPrompt reports whether a confirmation can be answered: stdin and stdout
// must both be terminals.
func CanPrompt() bool {
	return attached(os.Stdin, os.Stdout)
}

// CanAnimate reports whether a spinner on stderr would be seen. A dumb
// terminal gets plain output.
func CanAnimate() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return attached(os.Stderr)
}

func attached(files ...*os.File) bool {
	for _, f := range files {
		if !isTerminal(int(f.Fd())) {
			return false
		}
	}
	return true
}

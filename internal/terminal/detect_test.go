package terminal

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func attachTerminals(t *testing.T, files ...*os.File) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(fd int) bool {
		for _, f := range files {
			if int(f.Fd()) == fd {
				return true
			}
		}
		return false
	}
	t.Cleanup(func() { isTerminal = orig })
}

func TestCanPrompt(t *testing.T) {
	attachTerminals(t, os.Stdin)
	assert.False(t, CanPrompt(), "stdout redirected")

	attachTerminals(t, os.Stdout)
	assert.False(t, CanPrompt(), "stdin piped")

	attachTerminals(t, os.Stdin, os.Stdout)
	assert.True(t, CanPrompt())
}

func TestCanAnimate(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	attachTerminals(t, os.Stderr)
	assert.True(t, CanAnimate())

	t.Setenv("TERM", "dumb")
	assert.False(t, CanAnimate())

	t.Setenv("TERM", "xterm-256color")
	attachTerminals(t, os.Stdin, os.Stdout)
	assert.False(t, CanAnimate(), "stderr redirected")
}

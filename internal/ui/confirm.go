package ui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/terminal"
)

// ErrNotInteractive reports a prompt requested without a terminal.
var ErrNotInteractive = errors.New(messages.UIRequiresTerminal)

// ErrAborted reports that the user dismissed a prompt with Esc or Ctrl+C.
var ErrAborted = errors.New(messages.UIAborted)

// Prompter asks the user yes/no questions.
type Prompter interface {
	Confirm(title string, def bool) (bool, error)
}

// HuhPrompter implements Prompter with charmbracelet/huh, rendering on stderr.
type HuhPrompter struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhPrompter returns a prompter that requires terminal.CanPrompt.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{isTerminal: terminal.CanPrompt}
}

// Confirm asks title and returns the answer, starting from def.
func (p *HuhPrompter) Confirm(title string, def bool) (bool, error) {
	checker := p.isTerminal
	if checker == nil {
		checker = terminal.CanPrompt
	}
	if !checker() {
		return false, ErrNotInteractive
	}

	value := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&value),
	))
	form.WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrAborted
	}
	if err != nil {
		return false, err
	}
	return value, nil
}

// StaticPrompter answers every prompt with Answer. It backs --yes and tests.
type StaticPrompter struct {
	Answer bool
	Err    error
	// Asked records each prompt title.
	Asked []string
}

// Confirm records title and returns the fixed answer.
func (s *StaticPrompter) Confirm(title string, _ bool) (bool, error) {
	s.Asked = append(s.Asked, title)
	if s.Err != nil {
		return false, s.Err
	}
	return s.Answer, nil
}

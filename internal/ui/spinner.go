package ui

import (
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conn-castle/bottle/internal/terminal"
)

// spinnerEnabled is a seam for tests.
var spinnerEnabled = terminal.CanAnimate

type stopSpinnerMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopSpinnerMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View clears the line once stopped so no spinner residue is left behind.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

// StartSpinner shows message with a spinner on w until the returned stop
// function is called. It is a no-op when stderr is not a terminal.
// stop is safe to call more than once.
func StartSpinner(w io.Writer, message string) (stop func()) {
	if w == nil || !spinnerEnabled() {
		return func() {}
	}
	program := tea.NewProgram(
		newSpinnerModel(message),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(done)
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			program.Send(stopSpinnerMsg{})
			<-done
		})
	}
}

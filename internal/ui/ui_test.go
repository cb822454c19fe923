package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/reconcile"
)

func withoutColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestPrinters(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	Success(&buf, "installed %s", "ripgrep")
	Info(&buf, "fetching")
	Warn(&buf, "careful")
	Error(&buf, "broken")
	BottleHeader(&buf, "stable", "2026.01.15")

	assert.Equal(t, "✓ installed ripgrep\n• fetching\n! careful\nerror: broken\nBottle: stable (2026.01.15)\n\n", buf.String())
	Success(nil, "ignored")
}

func TestRenderPlan(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	RenderPlan(&buf, plan.Plan{
		Add:       []plan.ToolVersion{{Name: "jq", Version: "1.7.1"}},
		Remove:    []string{"fd"},
		Upgrade:   []plan.VersionChange{{Name: "ripgrep", From: "14.0.0", To: "14.1.0"}},
		Downgrade: []plan.VersionChange{{Name: "bat", From: "0.25.0", To: "0.24.0"}},
		Unchanged: []plan.ToolVersion{{Name: "wm", Version: "0.3.0"}},
	})
	out := buf.String()
	assert.Contains(t, out, "Changes:")
	assert.Contains(t, out, "+ jq")
	assert.Contains(t, out, "- fd")
	assert.Contains(t, out, "↑ ripgrep      14.0.0 -> 14.1.0")
	assert.Contains(t, out, "↓ bat          0.25.0 -> 0.24.0")
	assert.Contains(t, out, "= 1 tool(s) unchanged")

	buf.Reset()
	RenderPlan(&buf, plan.Plan{Unchanged: []plan.ToolVersion{{Name: "wm", Version: "0.3.0"}}})
	assert.Contains(t, buf.String(), "No tool changes needed.")
}

func TestRenderTransition(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	RenderTransition(&buf, "Switching", "stable", "edge", "2026.02.01", "Bleeding edge")
	assert.Equal(t, "Switching stable -> edge (2026.02.01)\nBleeding edge\n\n", buf.String())

	buf.Reset()
	RenderTransition(&buf, "Installing", "", "stable", "2026.01.15", "")
	assert.Equal(t, "Installing stable (2026.01.15)\n\n", buf.String())
}

func TestRenderOutcomeAndFailures(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	RenderOutcome(&buf, reconcile.Outcome{Name: "wm", Action: reconcile.ActionUnchanged})
	assert.Empty(t, buf.String())

	RenderOutcome(&buf, reconcile.Outcome{Name: "jq", Action: reconcile.ActionAdd, To: "1.7.1"})
	RenderOutcome(&buf, reconcile.Outcome{Name: "rg", Action: reconcile.ActionUpgrade, From: "14.0.0", To: "14.1.0", Err: errors.New("boom")})
	RenderOutcome(&buf, reconcile.Outcome{Name: "fd", Action: reconcile.ActionUntrack, From: "9.0.0"})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "installed")
	assert.Contains(t, lines[1], "failed")
	assert.Contains(t, lines[2], "9.0.0")
	assert.Contains(t, lines[2], "kept installed")

	buf.Reset()
	RenderFailures(&buf, nil)
	assert.Empty(t, buf.String())
	RenderFailures(&buf, []reconcile.Failure{{Name: "rg", Kind: reconcile.KindTool, Err: errors.New("boom")}})
	assert.Contains(t, buf.String(), "1 item(s) failed:")
	assert.Contains(t, buf.String(), "tool rg: boom")
}

func TestUnifiedDiff(t *testing.T) {
	diff, truncated := UnifiedDiff("a", "b", "x\n", "x\n", 0)
	assert.Empty(t, diff)
	assert.False(t, truncated)

	diff, truncated = UnifiedDiff("from.txt", "to.txt", "a\nb\nc\n", "a\nx\ny\nz\n", 2)
	assert.True(t, truncated)
	assert.Contains(t, diff, "truncated to 2 lines")
	assert.True(t, strings.HasSuffix(diff, "\n"))

	diff, truncated = UnifiedDiff("from.txt", "to.txt", "a\n", "b\n", 0)
	assert.False(t, truncated)
	assert.Contains(t, diff, "-a")
	assert.Contains(t, diff, "+b")
}

func TestNormalizeDiffMaxLines(t *testing.T) {
	assert.Equal(t, DefaultDiffMaxLines, normalizeDiffMaxLines(0))
	assert.Equal(t, DefaultDiffMaxLines, normalizeDiffMaxLines(-3))
	assert.Equal(t, 7, normalizeDiffMaxLines(7))
}

func TestColorizeDiffKeepsText(t *testing.T) {
	withoutColor(t)
	in := "--- a\n+++ b\n@@ -1 +1 @@\n-x\n+y\n"
	assert.Equal(t, in, ColorizeDiff(in))
	assert.Empty(t, ColorizeDiff(""))
}

func TestHuhPrompterRequiresTerminal(t *testing.T) {
	p := &HuhPrompter{isTerminal: func() bool { return false }}
	_, err := p.Confirm("Proceed?", true)
	assert.ErrorIs(t, err, ErrNotInteractive)
	assert.NotNil(t, NewHuhPrompter().isTerminal)
}

func TestHuhPrompterRunsForm(t *testing.T) {
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })
	p := &HuhPrompter{isTerminal: func() bool { return true }}

	runFormFunc = func(form *huh.Form) error {
		require.NotNil(t, form)
		return nil
	}
	ok, err := p.Confirm("Proceed?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	runFormFunc = func(*huh.Form) error { return huh.ErrUserAborted }
	_, err = p.Confirm("Proceed?", true)
	assert.ErrorIs(t, err, ErrAborted)

	runFormFunc = func(*huh.Form) error { return errors.New("tty gone") }
	_, err = p.Confirm("Proceed?", true)
	assert.EqualError(t, err, "tty gone")
}

func TestStaticPrompter(t *testing.T) {
	p := &StaticPrompter{Answer: true}
	ok, err := p.Confirm("Proceed?", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Proceed?"}, p.Asked)

	p.Err = ErrAborted
	_, err = p.Confirm("Again?", true)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestSpinnerModel(t *testing.T) {
	m := newSpinnerModel("Fetching bottle manifest...")
	require.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Fetching bottle manifest...")

	next, _ := m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	assert.Contains(t, next.View(), "Fetching bottle manifest...")

	next, cmd := next.Update(stopSpinnerMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestStartSpinnerDisabledWithoutTerminal(t *testing.T) {
	orig := spinnerEnabled
	spinnerEnabled = func() bool { return false }
	t.Cleanup(func() { spinnerEnabled = orig })

	var buf bytes.Buffer
	stop := StartSpinner(&buf, "Fetching")
	stop()
	assert.Empty(t, buf.String())
}

func TestStartSpinnerStops(t *testing.T) {
	orig := spinnerEnabled
	spinnerEnabled = func() bool { return true }
	t.Cleanup(func() { spinnerEnabled = orig })

	var buf bytes.Buffer
	stop := StartSpinner(&buf, "Fetching")
	stop()
	stop()
}

package bottle

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/bottle/internal/fetch"
	"github.com/conn-castle/bottle/internal/fsutil"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/plan"
	"github.com/conn-castle/bottle/internal/state"
	"github.com/conn-castle/bottle/internal/ui"
)

var (
	lookupEnv  = os.LookupEnv
	runEditor  = defaultRunEditor
	writeFile  = fsutil.WriteFileAtomic
	mkdirAll   = os.MkdirAll
	toolsDirFS = os.DirFS
)

// List prints the curated bottles with their descriptions, then the
// bespoke bottles on disk. The active bottle is marked.
func (a *App) List(ctx context.Context) error {
	active := ""
	if name, err := a.Store.ActiveName(); err == nil {
		active = name
	}

	out := a.out()
	_, _ = fmt.Fprintln(out, messages.ListCuratedHeader)
	a.printCurated(ctx, out, active)
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, messages.ListBespokeHeader)
	names, err := a.Source.ListBespoke()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, _ = fmt.Fprintln(out, messages.ListNone)
		return nil
	}
	for _, name := range names {
		description := messages.ListInvalidManifest
		if path, ok := a.Source.BespokePath(name); ok {
			if m, err := manifest.Load(path); err == nil {
				description = m.Description
			}
		}
		_, _ = fmt.Fprintf(out, messages.ListLineFmt, marker(name, active), name, description)
	}
	return nil
}

func (a *App) printCurated(ctx context.Context, out io.Writer, active string) {
	if len(fetch.Curated) == 0 {
		_, _ = fmt.Fprintln(out, messages.ListNoneAvailable)
		return
	}
	stop := startSpinner(a.errOut(), messages.BottleFetchingManifest)
	descriptions := make(map[string]string, len(fetch.Curated))
	for _, name := range fetch.Curated {
		description := messages.ListUnavailableDesc
		if m, err := a.Source.Curated(ctx, name); err == nil {
			description = m.Description
		}
		descriptions[name] = description
	}
	stop()
	for _, name := range fetch.Curated {
		_, _ = fmt.Fprintf(out, messages.ListLineFmt, marker(name, active), name, descriptions[name])
	}
}

func marker(name string, active string) string {
	if name == active {
		return messages.ListActiveMarker
	}
	return messages.ListInactiveMarker
}

// Create writes a bespoke bottle named name, optionally copied from the
// bottle from, and opens $EDITOR on it when set. It returns the manifest path.
func (a *App) Create(ctx context.Context, name string, from string) (string, error) {
	if !state.ValidName(name) {
		return "", fmt.Errorf(messages.CreateInvalidNameFmt, name)
	}
	if path, ok := a.Source.BespokePath(name); ok {
		return "", fmt.Errorf(messages.CreateExistsFmt, name, path)
	}

	m := &manifest.Manifest{
		Description: messages.CreateDefaultDesc,
		Tools:       map[string]string{},
		Plugins:     []string{},
	}
	if from != "" {
		source, err := a.Source.Manifest(ctx, from)
		if err != nil {
			return "", fmt.Errorf(messages.CreateSourceMissingFmt, from, err)
		}
		copied := *source
		m = &copied
		m.Description = fmt.Sprintf(messages.CreateBasedOnFmt, from)
	}
	m.Name = name
	m.Version = a.now().Format("2006.01.02")

	dir := filepath.Join(a.BottlesDir, name)
	if err := mkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf(messages.CreateMkdirFmt, dir, err)
	}
	data, err := manifest.Marshal(m, manifest.FormatJSON)
	if err != nil {
		return "", fmt.Errorf(messages.CreateMarshalFmt, err)
	}
	path := filepath.Join(dir, "manifest.json")
	if err := writeFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf(messages.CreateWriteFmt, path, err)
	}

	out := a.out()
	ui.Success(out, messages.CreatedFmt, name)
	_, _ = fmt.Fprintf(out, messages.CreateLocationFmt, path)
	if editor, ok := lookupEnv("EDITOR"); ok && strings.TrimSpace(editor) != "" {
		if err := runEditor(editor, path); err != nil {
			ui.Warn(a.errOut(), messages.CreateEditorFailedFmt, err)
		}
		return path, nil
	}
	_, _ = fmt.Fprintln(out, messages.CreateEditHint)
	return path, nil
}

func defaultRunEditor(editor string, path string) error {
	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Validate checks the manifest at path and prints a report. Curated tool
// definitions are checked when a tools/ directory sits next to the manifest.
func (a *App) Validate(path string) error {
	out := a.out()
	_, _ = fmt.Fprintf(out, messages.ValidateHeaderFmt, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.ValidateReadFmt, path, err)
	}

	m, report := manifest.Validate(data, manifest.FormatForPath(path))
	toolsChecked := false
	if m != nil {
		root := filepath.Dir(path)
		if info, err := os.Stat(filepath.Join(root, "tools")); err == nil && info.IsDir() {
			report.Errors = append(report.Errors, manifest.CheckToolDefinitions(m, toolsDirFS(root), "tools")...)
			toolsChecked = true
		}
	}

	for _, problem := range report.Errors {
		_, _ = fmt.Fprintf(out, messages.ValidateErrorLineFmt, color.RedString("✗"), problem)
	}
	for _, warning := range report.Warnings {
		_, _ = fmt.Fprintf(out, messages.ValidateWarnLineFmt, color.YellowString("!"), warning)
	}
	if !report.OK() {
		return fmt.Errorf(messages.ValidateFailedFmt, len(report.Errors), path)
	}

	ui.Success(out, "%s", messages.ValidateOKSchema)
	if toolsChecked {
		ui.Success(out, "%s", messages.ValidateOKTools)
	} else {
		ui.Info(out, "%s", messages.ValidateOKToolsSkipped)
	}
	if len(report.Warnings) == 0 {
		ui.Success(out, "%s", messages.ValidateOKVersions)
	}
	ui.Success(out, "%s", messages.ValidateOKDuplicates)
	_, _ = fmt.Fprintln(out)
	if len(report.Warnings) > 0 {
		ui.Success(out, messages.ValidateValidWarningFmt, path)
		return nil
	}
	ui.Success(out, messages.ValidateValidFmt, path)
	return nil
}

// Diff prints the plan that would move a machine on bottle from to bottle
// to, followed by a unified diff of their pinned tools.
func (a *App) Diff(ctx context.Context, from string, to string, maxLines int) error {
	fromManifest, err := a.fetch(ctx, messages.BottleFetchingManifest, from)
	if err != nil {
		return err
	}
	toManifest, err := a.fetch(ctx, messages.BottleFetchingManifest, to)
	if err != nil {
		return err
	}

	out := a.out()
	_, _ = fmt.Fprintf(out, messages.DiffHeaderFmt, messages.DiffVerb,
		fromManifest.Name, fromManifest.Version, toManifest.Name, toManifest.Version)
	_, _ = fmt.Fprintln(out)
	ui.RenderPlan(out, plan.CalculateVersions(fromManifest.Tools, toManifest.Tools))

	diff, _ := ui.UnifiedDiff(fromManifest.Name, toManifest.Name, renderTools(fromManifest), renderTools(toManifest), maxLines)
	if diff == "" {
		_, _ = fmt.Fprintln(out, messages.DiffSameTools)
		return nil
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, ui.ColorizeDiff(diff))
	return nil
}

func renderTools(m *manifest.Manifest) string {
	lines := make([]string, 0, len(m.Tools))
	for name, version := range m.Tools {
		lines = append(lines, name+" "+version)
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

package doctor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/conn-castle/bottle/internal/config"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/reconcile"
	"github.com/conn-castle/bottle/internal/state"
)

var loadConfigLenientFunc = config.LoadLenient

// PathChecker reports whether a command is on PATH.
type PathChecker interface {
	Available(command string) bool
}

// ToolChecker reports whether recorded tools are actually present.
type ToolChecker interface {
	PathChecker
	Present(def manifest.ToolDefinition, registered string) bool
	// ListMCP returns the agent host's MCP listing used for MCP tool presence.
	ListMCP() string
}

// CheckConfig loads config.toml strictly. When strict loading fails on
// validation but lenient loading succeeds, it returns a FAIL result together
// with the lenient config so the remaining checks still run.
func CheckConfig(paths config.Paths) ([]Result, *config.Config) {
	cfg, err := config.Load(paths)
	if err == nil {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameConfig,
			Message:   messages.DoctorConfigLoaded,
		}}, cfg
	}
	if !errors.Is(err, config.ErrConfigValidation) {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}
	lenient, lenientErr := loadConfigLenientFunc(paths)
	if lenientErr != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, lenientErr),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}
	return []Result{{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameConfig,
		Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
		Recommendation: messages.DoctorConfigLoadLenientRecommend,
	}}, lenient
}

// CheckCommands reports which package managers and agent host commands are on PATH.
// Missing commands are warnings: bottle falls back to whatever is available.
func CheckCommands(paths PathChecker, commands []string) []Result {
	results := make([]Result, 0, len(commands))
	for _, command := range commands {
		if paths.Available(command) {
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNamePrerequisites,
				Message:   fmt.Sprintf(messages.DoctorCommandFoundFmt, command),
			})
			continue
		}
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePrerequisites,
			Message:        fmt.Sprintf(messages.DoctorCommandMissingFmt, command),
			Recommendation: fmt.Sprintf(messages.DoctorCommandMissingRecFmt, command),
		})
	}
	return results
}

// CheckPrerequisites fails once per prerequisite the active manifest declares
// that is missing. missing is the output of install.Env.MissingPrerequisites.
func CheckPrerequisites(missing []string) []Result {
	results := make([]Result, 0, len(missing))
	for _, item := range missing {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNamePrerequisites,
			Message:        fmt.Sprintf(messages.DoctorPrereqMissingFmt, item),
			Recommendation: messages.DoctorPrereqMissingRecommend,
		})
	}
	return results
}

// CheckState loads the active state record. Corruption is surfaced here as a
// failure rather than hidden behind "no bottle installed".
func CheckState(store state.Store) ([]Result, *state.State) {
	current, err := store.LoadActive()
	switch {
	case errors.Is(err, state.ErrStateCorrupted):
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameState,
			Message:        fmt.Sprintf(messages.DoctorStateCorruptedFmt, err),
			Recommendation: messages.DoctorStateCorruptedRecommend,
		}}, nil
	case err != nil:
		return []Result{{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNameState,
			Message:   fmt.Sprintf(messages.DoctorStateLoadFailedFmt, err),
		}}, nil
	case current == nil:
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameState,
			Message:        messages.DoctorNoBottleInstalled,
			Recommendation: messages.DoctorNoBottleInstalledRecommend,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameState,
		Message:   fmt.Sprintf(messages.DoctorStateOKFmt, current.Bottle, current.BottleVersion, current.Mode),
	}}, current
}

// CheckTools verifies that every recorded tool and custom tool is present.
// Ejected bottles are not checked.
func CheckTools(checker ToolChecker, defs reconcile.ToolDefinitionSource, current *state.State) []Result {
	if current == nil {
		return nil
	}
	if !current.IsManaged() {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameTools, Message: messages.DoctorToolEjected}}
	}
	if len(current.Tools) == 0 && len(current.CustomTools) == 0 {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameTools, Message: messages.DoctorToolsNone}}
	}

	var results []Result
	registered := ""
	for _, name := range sortedKeys(current.Tools) {
		record := current.Tools[name]
		def, err := defs.Fetch(name)
		if err != nil {
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameTools,
				Message:   fmt.Sprintf(messages.DoctorToolDefinitionFmt, name, err),
			})
			continue
		}
		if def.Type == manifest.ToolMCP && registered == "" {
			registered = checker.ListMCP()
		}
		if checker.Present(*def, registered) {
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameTools,
				Message:   fmt.Sprintf(messages.DoctorToolPresentFmt, name, record.Version),
			})
			continue
		}
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameTools,
			Message:        fmt.Sprintf(messages.DoctorToolMissingFmt, name, record.Version),
			Recommendation: messages.DoctorToolMissingRecommend,
		})
	}
	for _, name := range sortedKeys(current.CustomTools) {
		record := current.CustomTools[name]
		if checker.Available(name) {
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameTools,
				Message:   fmt.Sprintf(messages.DoctorCustomToolPresentFmt, name, record.Version),
			})
			continue
		}
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameTools,
			Message:        fmt.Sprintf(messages.DoctorCustomToolMissingFmt, name, record.Version, name),
			Recommendation: messages.DoctorToolMissingRecommend,
		})
	}
	return results
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

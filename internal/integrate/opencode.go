package integrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conn-castle/bottle/internal/fsutil"
	"github.com/conn-castle/bottle/internal/messages"
)

// DefaultOpenCodePackages are added when the bottle pins no OpenCode plugins.
var DefaultOpenCodePackages = []string{
	"@cloud-atlas-ai/bottle",
	"ba-opencode",
	"wm-opencode",
	"superego-opencode",
}

const openCodeSchema = "https://opencode.ai/config.json"

// openCodeConfig returns the project opencode.json when it exists, else the
// user-level config path. ok reports whether the returned file exists.
func (i *Integrator) openCodeConfig() (path string, ok bool) {
	if i.Cwd != "" {
		project := filepath.Join(i.Cwd, "opencode.json")
		if exists(project) {
			return project, true
		}
	}
	user := filepath.Join(i.Home, ".config", "opencode", "opencode.json")
	return user, exists(user)
}

// packageName strips a trailing @version, keeping the scope of scoped packages.
func packageName(spec string) string {
	if idx := strings.LastIndex(spec, "@"); idx > 0 {
		return spec[:idx]
	}
	return spec
}

// openCodePackages returns the plugin specs to add, sorted by name.
func openCodePackages(pinned map[string]string) []string {
	if len(pinned) == 0 {
		return append([]string(nil), DefaultOpenCodePackages...)
	}
	names := make([]string, 0, len(pinned))
	for name := range pinned {
		names = append(names, name)
	}
	sort.Strings(names)
	specs := make([]string, 0, len(names))
	for _, name := range names {
		specs = append(specs, name+"@"+pinned[name])
	}
	return specs
}

func (i *Integrator) installOpenCode(pinned map[string]string) error {
	path, ok := i.openCodeConfig()
	config := map[string]json.RawMessage{}
	if ok {
		loaded, err := readOpenCodeConfig(path)
		if err != nil {
			return err
		}
		config = loaded
	} else {
		schema, _ := json.Marshal(openCodeSchema)
		config["$schema"] = schema
	}

	plugins, err := pluginList(path, config)
	if err != nil {
		return err
	}
	for _, spec := range openCodePackages(pinned) {
		name := packageName(spec)
		plugins = filterPlugins(plugins, func(entry string) bool { return packageName(entry) == name })
		plugins = append(plugins, spec)
	}
	return writeOpenCodeConfig(path, config, plugins)
}

func (i *Integrator) removeOpenCode(pinned map[string]string) error {
	path, ok := i.openCodeConfig()
	if !ok {
		return nil
	}
	config, err := readOpenCodeConfig(path)
	if err != nil {
		return err
	}
	if _, has := config["plugin"]; !has {
		return nil
	}
	plugins, err := pluginList(path, config)
	if err != nil {
		return err
	}
	owned := map[string]bool{}
	for _, name := range DefaultOpenCodePackages {
		owned[name] = true
	}
	for name := range pinned {
		owned[name] = true
	}
	plugins = filterPlugins(plugins, func(entry string) bool { return owned[packageName(entry)] })
	return writeOpenCodeConfig(path, config, plugins)
}

func (i *Integrator) openCodeInstalled() bool {
	path, ok := i.openCodeConfig()
	if !ok {
		return false
	}
	config, err := readOpenCodeConfig(path)
	if err != nil {
		return false
	}
	plugins, err := pluginList(path, config)
	if err != nil {
		return false
	}
	for _, entry := range plugins {
		if s, isString := entry.(string); isString && packageName(s) == DefaultOpenCodePackages[0] {
			return true
		}
	}
	return false
}

func readOpenCodeConfig(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.IntegrateReadConfigFmt, path, err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf(messages.IntegrateParseConfigFmt, path, err)
	}
	if _, isObject := raw.(map[string]any); !isObject {
		return nil, fmt.Errorf(messages.IntegrateConfigNotObjectFmt, path)
	}
	config := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(messages.IntegrateParseConfigFmt, path, err)
	}
	return config, nil
}

// pluginList decodes the plugin array. Entries that are not strings are kept as-is.
func pluginList(path string, config map[string]json.RawMessage) ([]any, error) {
	raw, ok := config["plugin"]
	if !ok || string(raw) == "null" {
		return []any{}, nil
	}
	var plugins []any
	if err := json.Unmarshal(raw, &plugins); err != nil {
		return nil, fmt.Errorf(messages.IntegratePluginNotArrayFmt, path)
	}
	return plugins, nil
}

// filterPlugins drops string entries for which drop returns true.
func filterPlugins(plugins []any, drop func(entry string) bool) []any {
	kept := plugins[:0:0]
	for _, entry := range plugins {
		if s, ok := entry.(string); ok && drop(s) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func writeOpenCodeConfig(path string, config map[string]json.RawMessage, plugins []any) error {
	encoded, err := json.Marshal(plugins)
	if err != nil {
		return fmt.Errorf(messages.IntegrateEncodeConfigFmt, path, err)
	}
	config["plugin"] = encoded
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.IntegrateEncodeConfigFmt, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf(messages.IntegrateCreateDirFmt, filepath.Dir(path), err)
	}
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf(messages.IntegrateWriteConfigFmt, path, err)
	}
	return nil
}

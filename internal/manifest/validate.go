package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Report collects validation findings. Errors make a manifest unusable; warnings do not.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were found.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate decodes data and checks it the way curators need before publishing.
// The returned manifest is nil only when data cannot be decoded at all.
func Validate(data []byte, format Format) (*Manifest, Report) {
	var report Report
	m, err := decode(data, format)
	if err != nil {
		report.errorf(messages.ValidateDecodeFailedFmt, err)
		return nil, report
	}

	for _, field := range []struct {
		name    string
		missing bool
	}{
		{"name", strings.TrimSpace(m.Name) == ""},
		{"version", strings.TrimSpace(m.Version) == ""},
		{"description", strings.TrimSpace(m.Description) == ""},
		{"tools", m.Tools == nil},
	} {
		if field.missing {
			report.errorf(messages.ValidateMissingFieldFmt, field.name)
		}
	}
	if strings.TrimSpace(m.Name) != "" && !state.ValidName(m.Name) {
		report.errorf(messages.ValidateInvalidNameFmt, m.Name)
	}
	m.normalize()

	for _, name := range m.ToolNames() {
		if v := m.Tools[name]; !looksLikeSemver(v) {
			report.warnf(messages.ValidateVersionFormatFmt, name, v)
		}
	}

	seen := make(map[string]bool, len(m.Plugins))
	for _, plugin := range m.Plugins {
		if seen[plugin] {
			report.errorf(messages.ValidateDuplicatePluginFmt, plugin)
		}
		seen[plugin] = true
	}

	for _, name := range m.MCPServerNames() {
		server := m.MCPServers[name]
		if strings.TrimSpace(server.Command) == "" {
			report.errorf(messages.ValidateMCPCommandMissingFmt, name)
		}
		switch server.EffectiveScope() {
		case ScopeUser, ScopeProject:
		default:
			report.errorf(messages.ValidateMCPScopeFmt, name, server.Scope)
		}
		if refs := EnvRefs(server); len(refs) > 0 {
			quoted := make([]string, len(refs))
			for i, ref := range refs {
				quoted[i] = "${" + ref + "}"
			}
			report.warnf(messages.ValidateMCPEnvRefsFmt, name, strings.Join(quoted, ", "))
		}
	}

	for _, name := range m.CustomToolNames() {
		tool := m.CustomTools[name]
		if len(tool.Install) == 0 {
			report.errorf(messages.ValidateCustomNoMethodsFmt, name)
		}
		for _, inst := range tool.Install {
			if inst.Method == state.CustomBinary && strings.TrimSpace(inst.URL) == "" {
				report.errorf(messages.ValidateCustomBinaryURLFmt, name)
			}
			if inst.Method != state.CustomBinary && strings.TrimSpace(inst.Package) == "" {
				report.errorf(messages.ValidateCustomPackageFmt, name, inst.Method)
			}
		}
		if strings.TrimSpace(tool.Version) == "" {
			report.warnf(messages.ValidateCustomVersionFmt, name)
		}
	}
	return m, report
}

// CheckToolDefinitions reports curated tools without a parseable definition at <toolsDir>/<name>.json.
func CheckToolDefinitions(m *Manifest, fsys fs.FS, toolsDir string) []string {
	var problems []string
	for _, name := range m.ToolNames() {
		path := filepath.ToSlash(filepath.Join(toolsDir, name+".json"))
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				problems = append(problems, fmt.Sprintf(messages.ValidateToolDefinitionMissingFmt, name, path))
				continue
			}
			problems = append(problems, fmt.Sprintf(messages.ValidateToolDefinitionReadFmt, name, err))
			continue
		}
		if _, err := ParseToolDefinition(data, path); err != nil {
			problems = append(problems, err.Error())
		}
	}
	return problems
}

// EnvRefs returns the distinct ${VAR} names referenced by a server's args and env, sorted.
func EnvRefs(server MCPServer) []string {
	seen := map[string]bool{}
	collect := func(s string) {
		for _, match := range envRefPattern.FindAllStringSubmatch(s, -1) {
			seen[match[1]] = true
		}
	}
	for _, arg := range server.Args {
		collect(arg)
	}
	for _, value := range server.Env {
		collect(value)
	}
	return sortedKeys(seen)
}

// ExpandEnvRefs replaces ${VAR} references using lookup and reports names lookup could not resolve.
func ExpandEnvRefs(s string, lookup func(string) (string, bool)) (string, []string) {
	var missing []string
	out := envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		value, ok := lookup(name)
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return value
	})
	return out, missing
}

// looksLikeSemver reports whether v has at least two dot-separated numeric parts.
func looksLikeSemver(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return false
		}
	}
	return true
}

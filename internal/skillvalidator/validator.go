// Package skillvalidator checks agent skill files (SKILL.md) against the
// frontmatter rules agent hosts enforce.
package skillvalidator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/conn-castle/bottle/internal/messages"
)

const (
	// MaxNameLength is the maximum accepted length for a skill name.
	MaxNameLength = 64
	// MaxDescriptionLength is the maximum accepted length for a skill description.
	MaxDescriptionLength = 1024
	// MaxRecommendedLines is the recommended upper bound for SKILL.md lines.
	MaxRecommendedLines = 500
)

// Finding codes.
const (
	CodeMissing            = "SKILL_MISSING"
	CodeNameMissing        = "SKILL_NAME_MISSING"
	CodeNameInvalid        = "SKILL_NAME_INVALID"
	CodeNameTooLong        = "SKILL_NAME_TOO_LONG"
	CodeNameMismatch       = "SKILL_NAME_PATH_MISMATCH"
	CodeDescriptionMissing = "SKILL_DESCRIPTION_MISSING"
	CodeDescriptionTooLong = "SKILL_DESCRIPTION_TOO_LONG"
	CodeUnknownField       = "SKILL_FRONTMATTER_UNKNOWN_FIELD"
	CodeTooLong            = "SKILL_SIZE_RECOMMENDATION"
)

var allowedFields = map[string]struct{}{
	"name":          {},
	"description":   {},
	"license":       {},
	"compatibility": {},
	"metadata":      {},
	"allowed-tools": {},
}

// Finding is a single validation diagnostic.
type Finding struct {
	Code    string
	Path    string
	Message string
}

func (f Finding) String() string {
	return f.Path + ": " + f.Message
}

// Skill is a parsed SKILL.md.
type Skill struct {
	Path string
	// Dir is the name of the directory holding SKILL.md; the frontmatter name must match it.
	Dir         string
	Keys        []string
	Name        *string
	Description *string
	Lines       int
}

// Parse parses the SKILL.md content read from path.
func Parse(path string, data []byte) (Skill, error) {
	content, err := splitFrontMatter(path, data)
	if err != nil {
		return Skill{}, err
	}
	fm, err := parseFrontMatter(content)
	if err != nil {
		return Skill{}, fmt.Errorf(messages.SkillParseFrontMatterFmt, path, err)
	}
	return Skill{
		Path:        path,
		Dir:         filepath.Base(filepath.Dir(path)),
		Keys:        fm.keys,
		Name:        fm.name,
		Description: fm.description,
		Lines:       countLines(string(data)),
	}, nil
}

// Validate returns the findings for skill, sorted by code.
func Validate(skill Skill) []Finding {
	var findings []Finding
	add := func(code string, message string) {
		findings = append(findings, Finding{Code: code, Path: skill.Path, Message: message})
	}

	for _, key := range skill.Keys {
		if _, ok := allowedFields[key]; !ok {
			add(CodeUnknownField, fmt.Sprintf(messages.SkillUnknownFieldFmt, key))
		}
	}

	name := ""
	if skill.Name != nil {
		name = normalizeName(*skill.Name)
	}
	if name == "" {
		add(CodeNameMissing, messages.SkillNameMissing)
	} else {
		if n := utf8.RuneCountInString(name); n > MaxNameLength {
			add(CodeNameTooLong, fmt.Sprintf(messages.SkillNameTooLongFmt, MaxNameLength, n))
		}
		if !validName(name) {
			add(CodeNameInvalid, messages.SkillNameInvalid)
		}
		if skill.Dir != "" && name != normalizeName(skill.Dir) {
			add(CodeNameMismatch, fmt.Sprintf(messages.SkillNameMismatchFmt, strings.TrimSpace(*skill.Name), skill.Dir))
		}
	}

	description := ""
	if skill.Description != nil {
		description = strings.TrimSpace(*skill.Description)
	}
	if description == "" {
		add(CodeDescriptionMissing, messages.SkillDescriptionMissing)
	} else if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		add(CodeDescriptionTooLong, fmt.Sprintf(messages.SkillDescriptionTooLongFmt, MaxDescriptionLength, n))
	}

	if skill.Lines > MaxRecommendedLines {
		add(CodeTooLong, fmt.Sprintf(messages.SkillTooLongFmt, skill.Lines, MaxRecommendedLines))
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Code < findings[j].Code
	})
	return findings
}

// ValidateBytes parses and validates content read from path.
func ValidateBytes(path string, data []byte) ([]Finding, error) {
	skill, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	return Validate(skill), nil
}

// ValidateInstalled validates root/<name>/SKILL.md for each name. A missing
// file is reported as a finding, not an error.
func ValidateInstalled(root string, names []string) ([]Finding, error) {
	var findings []Finding
	for _, name := range names {
		path := filepath.Join(root, name, "SKILL.md")
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			findings = append(findings, Finding{Code: CodeMissing, Path: path, Message: messages.SkillNotInstalled})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf(messages.SkillReadFmt, path, err)
		}
		found, err := ValidateBytes(path, data)
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)
	}
	return findings, nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(norm.NFKC.String(name))
}

// validName allows lowercase letters, digits and single interior hyphens.
func validName(name string) bool {
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return false
	}
	for _, r := range name {
		if r == '-' || (r >= '0' && r <= '9') || unicode.IsLower(r) {
			continue
		}
		return false
	}
	return true
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	count := strings.Count(content, "\n")
	if strings.HasSuffix(content, "\n") {
		return count
	}
	return count + 1
}

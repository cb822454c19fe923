package skillvalidator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conn-castle/bottle/internal/templates"
)

func codes(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Code)
	}
	return out
}

func hasCode(findings []Finding, code string) bool {
	for _, f := range findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

func TestParse(t *testing.T) {
	skill, err := Parse("skills/alpha/SKILL.md", []byte("\xEF\xBB\xBF---\nname: alpha\ndescription: test\nlicense: MIT\n---\nBody.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skill.Dir != "alpha" {
		t.Fatalf("dir = %q, want alpha", skill.Dir)
	}
	if skill.Name == nil || *skill.Name != "alpha" {
		t.Fatalf("name = %#v, want alpha", skill.Name)
	}
	if skill.Description == nil || *skill.Description != "test" {
		t.Fatalf("description = %#v, want test", skill.Description)
	}
	if strings.Join(skill.Keys, ",") != "description,license,name" {
		t.Fatalf("keys = %v", skill.Keys)
	}
	if skill.Lines != 6 {
		t.Fatalf("lines = %d, want 6", skill.Lines)
	}
	if findings := Validate(skill); len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"no frontmatter": "# title\n",
		"unterminated":   "---\nname: a\n",
		"not a mapping":  "---\n- a\n---\n",
		"name not str":   "---\nname: [a]\n---\n",
		"bad metadata":   "---\nmetadata: text\n---\n",
	}
	for label, content := range cases {
		if _, err := Parse("a/SKILL.md", []byte(content)); err == nil {
			t.Fatalf("%s: expected error", label)
		}
	}
}

func TestValidateMissingFields(t *testing.T) {
	findings, err := ValidateBytes("x/SKILL.md", []byte("---\nname:\ndescription: \"  \"\nextra: 1\n---\n"))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	want := []string{CodeDescriptionMissing, CodeUnknownField, CodeNameMissing}
	if strings.Join(codes(findings), ",") != strings.Join(want, ",") {
		t.Fatalf("codes = %v, want %v", codes(findings), want)
	}
}

func TestValidateNameRules(t *testing.T) {
	cases := []struct {
		name  string
		dir   string
		code  string
		valid bool
	}{
		{name: "pdf-tools2", dir: "pdf-tools2", valid: true},
		{name: "ünïcode", dir: "ünïcode", valid: true},
		{name: "Upper", dir: "Upper", code: CodeNameInvalid},
		{name: "a--b", dir: "a--b", code: CodeNameInvalid},
		{name: "-lead", dir: "-lead", code: CodeNameInvalid},
		{name: "alpha", dir: "beta", code: CodeNameMismatch},
		{name: strings.Repeat("é", MaxNameLength+1), dir: strings.Repeat("é", MaxNameLength+1), code: CodeNameTooLong},
	}
	for _, tc := range cases {
		description := "d"
		name := tc.name
		findings := Validate(Skill{Path: "p", Dir: tc.dir, Keys: []string{"description", "name"}, Name: &name, Description: &description})
		if tc.valid {
			if len(findings) != 0 {
				t.Fatalf("%s: expected no findings, got %v", tc.name, findings)
			}
			continue
		}
		if !hasCode(findings, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, codes(findings))
		}
	}
}

func TestValidateNameUsesNFKC(t *testing.T) {
	name := "ｆｕｌｌ"
	description := "d"
	findings := Validate(Skill{Path: "p", Dir: "full", Name: &name, Description: &description})
	if hasCode(findings, CodeNameMismatch) {
		t.Fatalf("expected NFKC-equivalent name to match directory, got %v", findings)
	}
}

func TestValidateLengthLimits(t *testing.T) {
	name := "long"
	description := strings.Repeat("x", MaxDescriptionLength+1)
	findings := Validate(Skill{Path: "p", Dir: "long", Name: &name, Description: &description, Lines: MaxRecommendedLines + 1})
	if !hasCode(findings, CodeDescriptionTooLong) || !hasCode(findings, CodeTooLong) {
		t.Fatalf("expected length findings, got %v", codes(findings))
	}
	if !strings.Contains(findings[0].String(), "p: ") {
		t.Fatalf("expected path prefix in %q", findings[0].String())
	}
}

func TestValidateInstalled(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bottle"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bottle", "SKILL.md"), []byte("---\nname: bottle\ndescription: d\n---\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	findings, err := ValidateInstalled(root, []string{"bottle", "wm"})
	if err != nil {
		t.Fatalf("ValidateInstalled: %v", err)
	}
	if len(findings) != 1 || findings[0].Code != CodeMissing {
		t.Fatalf("expected one missing finding, got %v", findings)
	}
	if !strings.HasSuffix(findings[0].Path, filepath.Join("wm", "SKILL.md")) {
		t.Fatalf("unexpected path %q", findings[0].Path)
	}
}

func TestBundledCodexSkillsAreValid(t *testing.T) {
	names, err := templates.CodexSkills()
	if err != nil {
		t.Fatalf("CodexSkills: %v", err)
	}
	for _, name := range names {
		data, err := templates.CodexSkill(name)
		if err != nil {
			t.Fatalf("CodexSkill(%s): %v", name, err)
		}
		findings, err := ValidateBytes(filepath.Join(name, "SKILL.md"), data)
		if err != nil {
			t.Fatalf("ValidateBytes(%s): %v", name, err)
		}
		if len(findings) != 0 {
			t.Fatalf("bundled skill %s has findings: %v", name, findings)
		}
	}
}

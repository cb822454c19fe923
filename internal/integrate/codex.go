package integrate

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"

	"github.com/conn-castle/bottle/internal/fsutil"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/skillvalidator"
	"github.com/conn-castle/bottle/internal/templates"
)

// CodexSkillsDir returns the directory Codex loads user skills from.
func CodexSkillsDir(home string) string {
	return filepath.Join(home, ".codex", "skills")
}

func (i *Integrator) installCodex() ([]string, error) {
	names, err := templates.CodexSkills()
	if err != nil {
		return nil, fmt.Errorf(messages.IntegrateReadSkillFmt, templates.CodexRoot, err)
	}
	root := CodexSkillsDir(i.Home)
	for _, name := range names {
		content, err := templates.CodexSkill(name)
		if err != nil {
			return nil, fmt.Errorf(messages.IntegrateReadSkillFmt, name, err)
		}
		findings, err := skillvalidator.ValidateBytes(filepath.Join(root, name, "SKILL.md"), content)
		if err != nil {
			return nil, fmt.Errorf(messages.IntegrateReadSkillFmt, name, err)
		}
		if len(findings) > 0 {
			return nil, fmt.Errorf(messages.IntegrateInvalidSkillFmt, name, findings[0].Message)
		}
		if err := writeSkillFile(filepath.Join(root, name, "SKILL.md"), content); err != nil {
			return nil, err
		}
	}

	snippet, err := templates.Read(path.Join(templates.CodexRoot, templates.CodexSnippet))
	if err != nil {
		return nil, fmt.Errorf(messages.IntegrateReadSkillFmt, templates.CodexSnippet, err)
	}
	if err := writeSkillFile(filepath.Join(root, "bottle", templates.CodexSnippet), snippet); err != nil {
		return nil, err
	}
	return codexConfigWarnings(filepath.Join(i.Home, ".codex", "config.toml")), nil
}

func writeSkillFile(target string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf(messages.IntegrateCreateDirFmt, filepath.Dir(target), err)
	}
	if err := fsutil.WriteFileAtomic(target, content, 0o644); err != nil {
		return fmt.Errorf(messages.IntegrateWriteSkillFmt, target, err)
	}
	return nil
}

func (i *Integrator) removeCodex() error {
	names, err := templates.CodexSkills()
	if err != nil {
		return fmt.Errorf(messages.IntegrateReadSkillFmt, templates.CodexRoot, err)
	}
	root := CodexSkillsDir(i.Home)
	for _, name := range names {
		dir := filepath.Join(root, name)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf(messages.IntegrateRemoveDirFmt, dir, err)
		}
	}
	return nil
}

func (i *Integrator) codexInstalled() bool {
	return exists(filepath.Join(CodexSkillsDir(i.Home), "bottle", "SKILL.md"))
}

// codexConfigWarnings inspects the Codex config for problems that would stop
// skills from loading. A missing config is fine.
func codexConfigWarnings(configPath string) []string {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf(messages.IntegrateCodexConfigInvalidFmt, configPath, err)}
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return []string{fmt.Sprintf(messages.IntegrateCodexConfigInvalidFmt, configPath, strings.TrimSpace(err.Error()))}
	}
	if enabled, ok := tree.Get("features.skills").(bool); ok && !enabled {
		return []string{fmt.Sprintf(messages.IntegrateCodexSkillsDisabledFmt, configPath)}
	}
	return nil
}

// Package templates holds files embedded in the bottle binary.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed codex
var files embed.FS

// CodexRoot is the embedded directory holding the Codex skills.
const CodexRoot = "codex"

// CodexSnippet is the AGENTS.md snippet shipped next to the bottle skill.
const CodexSnippet = "AGENTS.md.snippet"

// Read returns the embedded file at path.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Walk walks the embedded tree rooted at root.
func Walk(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(files, root, fn)
}

// CodexSkills returns the names of the bundled Codex skills in directory order.
func CodexSkills() ([]string, error) {
	entries, err := files.ReadDir(CodexRoot)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// CodexSkill returns the SKILL.md content of the bundled skill name.
func CodexSkill(name string) ([]byte, error) {
	return files.ReadFile(path.Join(CodexRoot, name, "SKILL.md"))
}

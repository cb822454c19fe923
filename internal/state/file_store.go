package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

const (
	activeFile  = "active"
	bottlesDir  = "bottles"
	stateFile   = "state.json"
	snippetFile = "agents-md-snippet"
)

// FileStore keeps state under a home directory:
//
//	<root>/active                           active bottle name
//	<root>/bottles/<name>/state.json        state record
//	<root>/bottles/<name>/agents-md-snippet AGENTS.md snippet
type FileStore struct {
	Root string
	Sys  System
}

// NewFileStore returns a FileStore rooted at root using the OS filesystem.
func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root, Sys: RealSystem{}}
}

// ActivePath returns the active pointer location.
func (f *FileStore) ActivePath() string {
	return filepath.Join(f.Root, activeFile)
}

// BottleDir returns the directory holding a bottle's record.
func (f *FileStore) BottleDir(bottle string) string {
	return filepath.Join(f.Root, bottlesDir, bottle)
}

// StatePath returns the record location for bottle.
func (f *FileStore) StatePath(bottle string) string {
	return filepath.Join(f.BottleDir(bottle), stateFile)
}

// SnippetPath returns the AGENTS.md snippet location for bottle.
func (f *FileStore) SnippetPath(bottle string) string {
	return filepath.Join(f.BottleDir(bottle), snippetFile)
}

// ActiveName reads the active pointer.
func (f *FileStore) ActiveName() (string, error) {
	data, err := f.Sys.ReadFile(f.ActivePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf(messages.StateReadActiveFmt, f.ActivePath(), err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", nil
	}
	if err := CheckName(name); err != nil {
		return "", &CorruptedError{Path: f.ActivePath(), Err: err}
	}
	return name, nil
}

// LoadActive loads the record named by the active pointer.
func (f *FileStore) LoadActive() (*State, error) {
	return loadActive(f)
}

// LoadFor loads the record for bottle.
func (f *FileStore) LoadFor(bottle string) (*State, error) {
	if err := CheckName(bottle); err != nil {
		return nil, err
	}
	path := f.StatePath(bottle)
	data, err := f.Sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.StateReadFmt, path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, &CorruptedError{Path: path, Err: err}
	}
	return s, nil
}

// Save writes s under its own bottle name and marks that bottle active.
func (f *FileStore) Save(s *State) error {
	if s == nil || strings.TrimSpace(s.Bottle) == "" {
		return errors.New(messages.StateBottleRequired)
	}
	if err := CheckName(s.Bottle); err != nil {
		return err
	}
	dir := f.BottleDir(s.Bottle)
	if err := f.Sys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.StateCreateDirFmt, dir, err)
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	path := f.StatePath(s.Bottle)
	if err := f.Sys.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.StateWriteFmt, path, err)
	}
	return f.SetActive(s.Bottle)
}

// SetActive points the active pointer at bottle.
func (f *FileStore) SetActive(bottle string) error {
	if err := CheckName(bottle); err != nil {
		return err
	}
	if err := f.Sys.MkdirAll(f.Root, 0o755); err != nil {
		return fmt.Errorf(messages.StateCreateDirFmt, f.Root, err)
	}
	if err := f.Sys.WriteFileAtomic(f.ActivePath(), []byte(bottle), 0o644); err != nil {
		return fmt.Errorf(messages.StateWriteActiveFmt, f.ActivePath(), err)
	}
	return nil
}

// SaveSnippet writes the AGENTS.md snippet for bottle.
func (f *FileStore) SaveSnippet(bottle string, snippet string) error {
	if err := CheckName(bottle); err != nil {
		return err
	}
	dir := f.BottleDir(bottle)
	if err := f.Sys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.StateCreateDirFmt, dir, err)
	}
	path := f.SnippetPath(bottle)
	if err := f.Sys.WriteFileAtomic(path, []byte(snippet), 0o644); err != nil {
		return fmt.Errorf(messages.StateWriteFmt, path, err)
	}
	return nil
}

// LoadSnippet reads the AGENTS.md snippet for bottle.
func (f *FileStore) LoadSnippet(bottle string) (string, bool, error) {
	if err := CheckName(bottle); err != nil {
		return "", false, err
	}
	path := f.SnippetPath(bottle)
	data, err := f.Sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(messages.StateReadFmt, path, err)
	}
	return string(data), true, nil
}

// Encode renders s as indented JSON.
func Encode(s *State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf(messages.StateEncodeFmt, err)
	}
	return append(data, '\n'), nil
}

// Decode parses a state record, filling defaults for fields older records lack.
func Decode(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Bottle) == "" {
		return nil, errors.New(messages.StateBottleRequired)
	}
	if err := CheckName(s.Bottle); err != nil {
		return nil, err
	}
	s.normalize()
	return &s, nil
}

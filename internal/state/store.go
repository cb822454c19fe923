package state

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/conn-castle/bottle/internal/messages"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrInvalidName reports a bottle name that is not a single path segment.
var ErrInvalidName = errors.New(messages.StateInvalidName)

// ValidName reports whether name is usable as a bottle name. Names become
// directory names under the store root, so only letters, digits, '-' and '_'
// are accepted.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// CheckName returns an ErrInvalidName error when name is not a valid bottle name.
func CheckName(name string) error {
	if ValidName(name) {
		return nil
	}
	return fmt.Errorf(messages.StateInvalidNameFmt, ErrInvalidName, name)
}

// ErrStateCorrupted reports a state record that exists but cannot be parsed.
var ErrStateCorrupted = errors.New(messages.StateCorrupted)

// CorruptedError identifies the unreadable record.
type CorruptedError struct {
	Path string
	Err  error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf(messages.StateCorruptedFmt, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the parse failure.
func (e *CorruptedError) Unwrap() []error {
	return []error{ErrStateCorrupted, e.Err}
}

// Store persists per-bottle state records and the active-bottle pointer.
//
// Load methods return (nil, nil) when nothing is recorded and a *CorruptedError
// when a record is present but unreadable.
type Store interface {
	// ActiveName returns the bottle named by the active pointer, or "".
	ActiveName() (string, error)
	LoadActive() (*State, error)
	LoadFor(bottle string) (*State, error)
	// Save writes the record under s.Bottle and points the active pointer at it.
	Save(s *State) error
	SetActive(bottle string) error
	SaveSnippet(bottle string, snippet string) error
	// LoadSnippet returns the bottle's AGENTS.md snippet and whether one exists.
	LoadSnippet(bottle string) (string, bool, error)
}

// loadActive resolves the active pointer through store.
func loadActive(store Store) (*State, error) {
	name, err := store.ActiveName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return store.LoadFor(name)
}

package state

import (
	"errors"
	"sync"

	"github.com/conn-castle/bottle/internal/messages"
)

// MemoryStore is an in-process Store. Records are copied on the way in and out.
type MemoryStore struct {
	mu       sync.Mutex
	active   string
	records  map[string]*State
	snippets map[string]string
	corrupt  map[string]bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  map[string]*State{},
		snippets: map[string]string{},
		corrupt:  map[string]bool{},
	}
}

// MarkCorrupted makes later loads of bottle fail as an unreadable record.
func (m *MemoryStore) MarkCorrupted(bottle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrupt[bottle] = true
}

// ActiveName returns the active bottle name.
func (m *MemoryStore) ActiveName() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, nil
}

// LoadActive loads the active record.
func (m *MemoryStore) LoadActive() (*State, error) {
	return loadActive(m)
}

// LoadFor loads a copy of the record for bottle.
func (m *MemoryStore) LoadFor(bottle string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.corrupt[bottle] {
		return nil, &CorruptedError{Path: bottle, Err: errors.New(messages.StateMemoryCorrupted)}
	}
	s, ok := m.records[bottle]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Save stores a copy of s and marks it active.
func (m *MemoryStore) Save(s *State) error {
	if s == nil || s.Bottle == "" {
		return errors.New(messages.StateBottleRequired)
	}
	if err := CheckName(s.Bottle); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := s.Clone()
	stored.normalize()
	m.records[s.Bottle] = stored
	delete(m.corrupt, s.Bottle)
	m.active = s.Bottle
	return nil
}

// SetActive sets the active bottle name.
func (m *MemoryStore) SetActive(bottle string) error {
	if err := CheckName(bottle); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = bottle
	return nil
}

// SaveSnippet stores the AGENTS.md snippet for bottle.
func (m *MemoryStore) SaveSnippet(bottle string, snippet string) error {
	if err := CheckName(bottle); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snippets[bottle] = snippet
	return nil
}

// LoadSnippet returns the AGENTS.md snippet for bottle.
func (m *MemoryStore) LoadSnippet(bottle string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snippet, ok := m.snippets[bottle]
	return snippet, ok, nil
}

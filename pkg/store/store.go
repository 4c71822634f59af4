// Package store provides in-memory storage for expression sessions.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/types"
)

// SessionPrefix prefixes every session resource name.
const SessionPrefix = "sessions/"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a session under a taken ID.
var ErrAlreadyExists = errors.New("already exists")

// Entry is a stored session with its resource name.
type Entry struct {
	Name    string
	Session *runtime.Session
}

// ID returns the session ID, the resource name without its prefix.
func (e *Entry) ID() string {
	return strings.TrimPrefix(e.Name, SessionPrefix)
}

// Store is a thread-safe in-memory storage for sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Entry

	// Counter for generating unique IDs
	sessionCounter int64
}

// New creates a new empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*Entry),
	}
}

// CreateSession creates a session with a generated ID.
func (s *Store) CreateSession(radix types.Radix) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		s.sessionCounter++
		name := SessionPrefix + "session-" + strconv.FormatInt(s.sessionCounter, 10)
		if _, exists := s.sessions[name]; exists {
			continue
		}
		e := &Entry{Name: name, Session: runtime.NewLimitedSession(radix, runtime.MaxLinesPerSession)}
		s.sessions[name] = e
		return e
	}
}

// CreateNamedSession creates a session under the given ID.
func (s *Store) CreateNamedSession(id string, radix types.Radix) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := SessionPrefix + id
	if _, exists := s.sessions[name]; exists {
		return nil, fmt.Errorf("session '%s' %w", name, ErrAlreadyExists)
	}
	e := &Entry{Name: name, Session: runtime.NewLimitedSession(radix, runtime.MaxLinesPerSession)}
	s.sessions[name] = e
	return e, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[SessionPrefix+id]
	if !ok {
		return nil, fmt.Errorf("session '%s%s' %w", SessionPrefix, id, ErrNotFound)
	}
	return e, nil
}

// ListSessions returns all sessions sorted by name.
func (s *Store) ListSessions() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := SessionPrefix + id
	if _, ok := s.sessions[name]; !ok {
		return fmt.Errorf("session '%s' %w", name, ErrNotFound)
	}
	delete(s.sessions, name)
	return nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/remedytax/intake-engine/internal/model"
)

// ErrSessionNotFound is returned for unknown or ended sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session owns one client's form and step pointer. A session has a single
// writer; mu serializes the handler goroutines that may touch it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu   sync.Mutex
	Form *model.FormState
	Step model.StepID
}

// Lock takes the session's writer lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's writer lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store keeps live sessions in memory. Sessions are not persisted; ending
// the session destroys the form.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore builds an empty session store.
func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// Create starts a new session at the given first step.
func (s *Store) Create(first model.StepID) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Form:      model.NewFormState(),
		Step:      first,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session by id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete ends a session and destroys its form.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

package store

import (
	"context"
	"sync"
	"time"

	"footfit/internal/models"
)

type memoryEntry struct {
	state   *models.WizardState
	expires time.Time
}

// MemoryStore keeps states in a map. Entries past their TTL are treated as
// absent and swept lazily.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*models.WizardState, error) {
	defer observe("memory", "load", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(e) {
		delete(s.entries, sessionID)
		return nil, ErrSessionNotFound
	}
	return e.state.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, state *models.WizardState) error {
	defer observe("memory", "save", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{state: state.Clone()}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.entries[state.SessionID] = e
	s.sweep()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	defer observe("memory", "delete", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	if !ok || s.expired(e) {
		return ErrSessionNotFound
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}

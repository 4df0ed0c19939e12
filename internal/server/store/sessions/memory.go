package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

// MemoryStore implements Store with an insertion-ordered slice,
// backing tests and runs without a configured document database.
type MemoryStore struct {
	mu    sync.RWMutex
	items []telemetry.Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create stores the session, assigning id and startedAt defaults.
func (s *MemoryStore) Create(_ context.Context, session telemetry.Session) (telemetry.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.Activity == nil {
		session.Activity = []string{}
	}

	s.mu.Lock()
	s.items = append(s.items, session)
	s.mu.Unlock()

	return session, nil
}

// List returns all stored sessions in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]telemetry.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]telemetry.Session, len(s.items))
	copy(copied, s.items)
	return copied, nil
}

// Update applies the patch to the session with the given id.
func (s *MemoryStore) Update(_ context.Context, id string, patch telemetry.SessionPatch) (telemetry.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = applyPatch(s.items[i], patch)
			return s.items[i], nil
		}
	}
	return telemetry.Session{}, ErrNotFound
}

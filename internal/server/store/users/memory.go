package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/radiantlabs/cyberboy/internal/model/account"
)

// MemoryStore implements Store with a map, backing tests and runs
// without a configured document database.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]account.User
}

// NewMemoryStore returns an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]account.User)}
}

// Create stores the user, assigning an id when absent. Duplicate
// emails yield ErrEmailTaken.
func (s *MemoryStore) Create(_ context.Context, user account.User) (account.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Email == user.Email {
			return account.User{}, ErrEmailTaken
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.items[user.ID] = user
	return user, nil
}

// FindByEmail looks up a user by email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.items {
		if user.Email == email {
			return user, nil
		}
	}
	return account.User{}, ErrNotFound
}

// Delete removes the user with the given id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

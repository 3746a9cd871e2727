package profile

import (
	"context"
	"fmt"
	"maps"
	"sync"

	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in a map. Used in tests and the demo server.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.UserID]Profile)}
}

func (s *InMemoryStore) Save(_ context.Context, userID id.UserID, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = maps.Clone(p)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return maps.Clone(p), nil
	}
	return nil, fmt.Errorf("profile %s: %w", userID, sentinel.ErrNotFound)
}

package content

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
)

// InMemoryStore keeps elements in memory. Used in tests and the demo server.
type InMemoryStore struct {
	mu       sync.RWMutex
	elements map[id.ContentID]Element
}

func NewInMemoryStore(elements ...Element) *InMemoryStore {
	s := &InMemoryStore{elements: make(map[id.ContentID]Element, len(elements))}
	for _, e := range elements {
		s.elements[e.UID] = e
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, e Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[e.UID] = e
	return nil
}

func (s *InMemoryStore) FindForms(_ context.Context, q FormQuery) ([]Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Element
	for _, e := range s.elements {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Element) int {
		return cmp.Compare(a.UID, b.UID)
	})
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, uid id.ContentID) (Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.elements[uid]
	if !ok || !e.Visible() {
		return Element{}, fmt.Errorf("content element %s: %w", uid, sentinel.ErrNotFound)
	}
	return e, nil
}

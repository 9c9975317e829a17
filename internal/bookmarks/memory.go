package bookmarks

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used when Redis is not configured.
// Bookmarks are lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string][]string)}
}

func (s *MemoryStore) Add(_ context.Context, userID, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.users[userID] {
		if id == articleID {
			return nil
		}
	}

	s.users[userID] = append(s.users[userID], articleID)

	return nil
}

func (s *MemoryStore) Remove(_ context.Context, userID, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.users[userID]
	for i, id := range ids {
		if id == articleID {
			s.users[userID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.users[userID]
	out := make([]string, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, ids[i])
	}

	return out, nil
}

func (s *MemoryStore) Contains(_ context.Context, userID, articleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.users[userID] {
		if id == articleID {
			return true, nil
		}
	}

	return false, nil
}

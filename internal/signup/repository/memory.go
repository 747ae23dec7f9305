package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu           sync.Mutex
	Applications []Application
	Subscribers  map[string]time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Subscribers: make(map[string]time.Time)}
}

func (s *MemoryStore) CreateApplication(_ context.Context, app Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applications = append(s.Applications, app)
	return nil
}

func (s *MemoryStore) SubscribeNewsletter(_ context.Context, email string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Subscribers[email]; ok {
		return false, nil
	}
	s.Subscribers[email] = at
	return true, nil
}

// Package memory provides a claim store that forgets everything on exit,
// used by --ephemeral runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/Layr-Labs/disputectl/internal/storage"
)

type InMemoryClaimStore struct {
	mu     sync.Mutex
	id     uint64
	saved  bool
	closed bool
}

func NewInMemoryClaimStore() *InMemoryClaimStore {
	return &InMemoryClaimStore{}
}

func (s *InMemoryClaimStore) SaveClaimID(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}
	s.id, s.saved = id, true
	return nil
}

func (s *InMemoryClaimStore) LoadClaimID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return 0, storage.ErrStoreClosed
	case !s.saved:
		return 0, storage.ErrNotFound
	}
	return s.id, nil
}

func (s *InMemoryClaimStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

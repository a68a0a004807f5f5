package cache

import (
	"context"
	"sync"
	"time"

	"github.com/taponce/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps keys in a map. Single instance only.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkProcessed claims key unless a live entry exists. Expired entries are
// purged on each call.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, k)
		}
	}
	if _, exists := s.entries[key]; exists {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether key holds a live entry
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.entries[key]
	return exists && s.now().Before(expiresAt), nil
}

// Release forgets key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close is a no-op
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

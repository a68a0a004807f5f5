package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/taponce/backend/internal/domain/draft"
	"github.com/taponce/backend/internal/domain/shared"
)

const defaultDraftPrefix = "taponce:draft:"

// RedisDraftStore keeps order drafts as JSON strings with a TTL
type RedisDraftStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisDraftStore creates a draft store over an existing client
func NewRedisDraftStore(client *redis.Client, keyPrefix string) *RedisDraftStore {
	if keyPrefix == "" {
		keyPrefix = defaultDraftPrefix
	}
	return &RedisDraftStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisDraftStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

// Save writes the draft and refreshes its expiry
func (s *RedisDraftStore) Save(ctx context.Context, d *draft.DraftOrder, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(d.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Get loads a draft. Expired or unknown drafts return shared.ErrNotFound.
func (s *RedisDraftStore) Get(ctx context.Context, id uuid.UUID) (*draft.DraftOrder, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var d draft.DraftOrder
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

// Delete removes a draft; deleting a missing draft is not an error
func (s *RedisDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

var _ draft.Store = (*RedisDraftStore)(nil)

type draftEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryDraftStore is the single-instance fallback for RedisDraftStore
type InMemoryDraftStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]draftEntry
	now     func() time.Time
}

// NewInMemoryDraftStore creates an empty store
func NewInMemoryDraftStore() *InMemoryDraftStore {
	return &InMemoryDraftStore{
		entries: make(map[uuid.UUID]draftEntry),
		now:     time.Now,
	}
}

// Save stores a copy of the draft
func (s *InMemoryDraftStore) Save(_ context.Context, d *draft.DraftOrder, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.ID] = draftEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get returns a copy of the draft
func (s *InMemoryDraftStore) Get(_ context.Context, id uuid.UUID) (*draft.DraftOrder, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, shared.ErrNotFound
	}

	var d draft.DraftOrder
	if err := json.Unmarshal(entry.data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

// Delete removes a draft
func (s *InMemoryDraftStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

var _ draft.Store = (*InMemoryDraftStore)(nil)

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taponce/backend/internal/domain/shared"
)

const defaultIdempotencyPrefix = "taponce:idempotency:"

// RedisIdempotencyStore implements shared.IdempotencyStore using Redis so that
// every API instance sees the same Idempotency-Key history.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store over an existing client
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultIdempotencyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed claims key with SETNX. It returns false when the key was
// already claimed and has not expired.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark idempotency key: %w", err)
	}
	return ok, nil
}

// IsProcessed checks if key has been claimed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return n > 0, nil
}

// Release forgets key so a failed submission can be retried with it
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)

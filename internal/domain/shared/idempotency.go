package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already processed, such as the
// Idempotency-Key header of an order submission.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the caller may retry after a failure
	Release(ctx context.Context, key string) error

	Close() error
}

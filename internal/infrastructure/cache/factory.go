package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/taponce/backend/internal/domain/draft"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the Redis-backed stores the API needs
type Stores struct {
	Client      *redis.Client
	Idempotency shared.IdempotencyStore
	Drafts      draft.Store
}

// StoreFactoryOption is a functional option for configuring NewStores
type StoreFactoryOption func(*storeFactory)

type storeFactory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *storeFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether in-memory stores replace Redis when it
// is unreachable. Default is false: production needs shared state.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *storeFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStores connects to Redis and builds the stores. When Redis is down and
// fallback is allowed, in-memory stores are returned with a nil Client.
func NewStores(ctx context.Context, cfg config.RedisConfig, opts ...StoreFactoryOption) (*Stores, error) {
	f := &storeFactory{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}

	client, err := NewRedisClient(ctx, cfg)
	if err == nil {
		f.logger.Info("Using Redis stores", zap.String("addr", cfg.Addr()))
		return &Stores{
			Client:      client,
			Idempotency: NewRedisIdempotencyStore(client, ""),
			Drafts:      NewRedisDraftStore(client, ""),
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Idempotency keys and drafts will not be shared between instances.",
		zap.Error(err),
	)
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Drafts:      NewInMemoryDraftStore(),
	}, nil
}

// Close releases the Redis client, if any
func (s *Stores) Close() error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}

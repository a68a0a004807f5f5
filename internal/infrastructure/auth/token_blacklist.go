package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates tokens before they expire, on logout or when a
// profile is suspended.
type TokenBlacklist interface {
	// Revoke blacklists one token by its JTI for ttl
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser invalidates every token issued to userID before now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevoked reports whether a token issued at issuedAt predates a RevokeUser call
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const defaultBlacklistPrefix = "taponce:token:"

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a blacklist over an existing Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: defaultBlacklistPrefix,
	}
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.keyPrefix+"jti:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.keyPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := b.client.Set(ctx, b.keyPrefix+"user:"+userID, ts, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	val, err := b.client.Get(ctx, b.keyPrefix+"user:"+userID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("invalid revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is used when Redis is not configured and in tests
type InMemoryTokenBlacklist struct {
	mu    sync.RWMutex
	jtis  map[string]time.Time
	users map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:  make(map[string]time.Time),
		users: make(map[string]time.Time),
	}
}

func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = time.Now().Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	expiresAt, ok := b.jtis[jti]
	return ok && time.Now().Before(expiresAt), nil
}

func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[userID] = time.Now()
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	revokedAt, ok := b.users[userID]
	return ok && !issuedAt.After(revokedAt), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*visitor
	limit    rate.Limit
	burst    int
	requests int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window with the given burst on top.
// Idle clients are forgotten after two windows.
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		clients:  make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    burst,
		requests: requests,
		idleTTL:  window * 2,
		stop:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes idle clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, v := range rl.clients {
				if now.Sub(v.lastSeen) > rl.idleTTL {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) visitor(key string) *visitor {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = v
	}
	v.lastSeen = time.Now()
	return v
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	return rl.visitor(key).limiter.Allow()
}

// Remaining returns the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	tokens := int(rl.visitor(key).limiter.Tokens())
	if tokens < 0 {
		return 0
	}
	return tokens
}

// RateLimit limits by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}

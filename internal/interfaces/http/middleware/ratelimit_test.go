package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.Equal(t, 1, rl.Remaining("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// Keys are independent
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(10, time.Second, 1)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 2)
	defer rl.Stop()

	router := gin.New()
	router.Use(RequestID(), RateLimit(rl))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:4567"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do().Code)

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "1", third.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errorCode(t, third))

	// Another client is not affected
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

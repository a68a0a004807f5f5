package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records finished requests. telemetry.Metrics implements it.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// HTTPMetrics records request count and latency per matched route. Passing
// nil disables collection.
func HTTPMetrics(observer HTTPObserver) gin.HandlerFunc {
	if observer == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath is the route pattern, e.g. /api/profiles/:slug
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// Package middleware provides HTTP middleware for the TapOnce API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the maximum accepted length of a client request id
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "taponce-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with custom configuration.
// Spans are named after the matched route pattern.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the current span with the authenticated
// principal. It runs after the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if userID := GetJWTUserID(c); userID != "" {
				span.SetAttributes(
					attribute.String("user_id", userID),
					attribute.String("role", string(GetJWTRole(c))),
				)
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks spans of 4xx and 5xx responses as errors. It runs
// after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quietPaths are logged at debug level to keep health checks out of the request log
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// GinMiddleware logs every HTTP request and makes a request-scoped logger
// available both as c.Get("logger") and through the request context.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetString("request_id")
		reqLogger := base.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set("logger", reqLogger)

		ctx := WithContext(c.Request.Context(), reqLogger)
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if query != "" {
			fields = append(fields, zap.String("query", redactQuery(query)))
		}
		if uid := c.GetString("jwt_user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid), zap.String("role", c.GetString("jwt_role")))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		const msg = "HTTP Request"
		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error(msg, fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn(msg, fields...)
		case quietPaths[path]:
			reqLogger.Debug(msg, fields...)
		default:
			reqLogger.Info(msg, fields...)
		}
	}
}

// redactQuery hides claim tokens and phone numbers passed in query strings
func redactQuery(q string) string {
	parts := strings.Split(q, "&")
	for i, p := range parts {
		k, _, found := strings.Cut(p, "=")
		if found && (k == "token" || k == "phone") {
			parts[i] = k + "=REDACTED"
		}
	}
	return strings.Join(parts, "&")
}

// Recovery recovers from panics, logs them with a stack and answers with the
// standard error envelope.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				base.Error("Panic recovered",
					zap.String("request_id", requestID),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":       "INTERNAL_ERROR",
						"message":    "An internal error occurred",
						"request_id": requestID,
					},
				})
			}
		}()
		c.Next()
	}
}

// GetGinLogger retrieves the request logger from the gin context
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}

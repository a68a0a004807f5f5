package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		// Wrap the body with a limited reader for streaming requests
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// abortWithError stops the chain with the standard error envelope
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

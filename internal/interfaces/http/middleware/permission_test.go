package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/taponce/backend/internal/domain/identity"
)

func roleRouter(userID string, role identity.Role, guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(JWTUserIDKey, userID)
			c.Set(JWTRoleKey, string(role))
		}
		c.Next()
	})
	router.GET("/test", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireRole(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name   string
		userID string
		role   identity.Role
		guard  gin.HandlerFunc
		status int
		code   string
	}{
		{"admin passes admin guard", userID, identity.RoleAdmin, RequireAdmin(), http.StatusOK, ""},
		{"agent passes agent guard", userID, identity.RoleAgent, RequireAgent(), http.StatusOK, ""},
		{"agent denied admin guard", userID, identity.RoleAgent, RequireAdmin(), http.StatusForbidden, "FORBIDDEN"},
		{"customer denied agent guard", userID, identity.RoleCustomer, RequireAgent(), http.StatusForbidden, "FORBIDDEN"},
		{"any of several roles", userID, identity.RoleAgent, RequireRole(identity.RoleAdmin, identity.RoleAgent), http.StatusOK, ""},
		{"anonymous", "", "", RequireAdmin(), http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			roleRouter(tt.userID, tt.role, tt.guard).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for the role guard
type RoleConfig struct {
	Logger *zap.Logger
}

// RequireRole lets the request through only when the authenticated profile
// holds one of roles. It must run after JWTAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig is RequireRole with a logger for denials
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTUserID(c) == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		role := GetJWTRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		if cfg.Logger != nil {
			cfg.Logger.Warn("Role check failed",
				zap.String("user_id", GetJWTUserID(c)),
				zap.String("role", string(role)),
				zap.String("path", c.Request.URL.Path),
			)
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have access to this resource")
	}
}

// RequireAdmin is shorthand for RequireRole(identity.RoleAdmin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireAgent is shorthand for RequireRole(identity.RoleAgent)
func RequireAgent() gin.HandlerFunc {
	return RequireRole(identity.RoleAgent)
}

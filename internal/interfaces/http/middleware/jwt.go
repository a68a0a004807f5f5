package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"github.com/taponce/backend/internal/infrastructure/logger"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	JWTAgentIDKey = "jwt_agent_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// RevocationChecker reports whether a validated token has been revoked.
// identity.AuthService implements it on top of the token blacklist.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *auth.Claims) error
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocation is optional; without it revoked tokens stay valid until expiry
	Revocation RevocationChecker
	Logger     *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked access token
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.Revocation != nil {
			if err := cfg.Revocation.IsRevoked(c.Request.Context(), claims); err != nil {
				if de, ok := shared.AsDomainError(err); ok && de.Code == dto.ErrCodeTokenRevoked {
					handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
					return
				}
				// Fail open when the blacklist store is unreachable
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token revocation",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			}
		}

		setPrincipal(c, claims)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("role", string(claims.Role)),
			)
		}

		c.Next()
	}
}

// OptionalJWTAuth extracts the principal when a valid token is present and
// lets anonymous requests through. An invalid token is treated as absent.
func OptionalJWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}
		if cfg.Revocation != nil {
			if err := cfg.Revocation.IsRevoked(c.Request.Context(), claims); err != nil {
				c.Next()
				return
			}
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// setPrincipal stores the claims in the gin and request contexts
func setPrincipal(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTRoleKey, string(claims.Role))
	if claims.AgentID != "" {
		c.Set(JWTAgentIDKey, claims.AgentID)
	}

	ctx := logger.WithPrincipal(c.Request.Context(), claims.UserID, string(claims.Role))
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError answers 401 with a code describing why the token failed
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		errorCode = dto.ErrCodeTokenRevoked
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	case errors.Is(err, auth.ErrInvalidToken) && c.GetHeader(AuthHeaderKey) != "":
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	}

	abortWithError(c, http.StatusUnauthorized, errorCode, errorMessage)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the authenticated profile ID from context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTRole retrieves the authenticated role from context
func GetJWTRole(c *gin.Context) identity.Role {
	return identity.Role(c.GetString(JWTRoleKey))
}

// GetJWTAgentID retrieves the agent ID claim, empty for non-agents
func GetJWTAgentID(c *gin.Context) string {
	return c.GetString(JWTAgentIDKey)
}

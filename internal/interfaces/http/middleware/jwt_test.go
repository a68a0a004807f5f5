package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"github.com/taponce/backend/internal/infrastructure/config"
	"github.com/taponce/backend/tests/testutil"
)

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "taponce-test",
	})
}

func agentSubject() auth.Subject {
	agentID := uuid.New()
	return auth.Subject{UserID: uuid.New(), Email: "agent@example.com", Role: identity.RoleAgent, AgentID: &agentID}
}

type stubRevocation struct {
	err error
}

func (s stubRevocation) IsRevoked(context.Context, *auth.Claims) error {
	return s.err
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jwtRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(cfg))
	router.GET("/test", handler)
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	tc := &testutil.TestContext{Recorder: w}
	resp := testutil.JSONResponse(t, tc)
	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	return errMap["code"].(string)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	sub := agentSubject()
	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	router := jwtRouter(JWTMiddlewareConfig{JWTService: svc}, func(c *gin.Context) {
		require.NotNil(t, GetJWTClaims(c))
		assert.Equal(t, sub.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, identity.RoleAgent, GetJWTRole(c))
		assert.Equal(t, sub.AgentID.String(), GetJWTAgentID(c))
		c.Status(http.StatusOK)
	})

	w := serve(router, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, err := svc.GenerateTokenPair(agentSubject())
	require.NoError(t, err)
	expired, err := newTestJWTService(-time.Minute).GenerateTokenPair(agentSubject())
	require.NoError(t, err)

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	tests := []struct {
		name  string
		cfg   JWTMiddlewareConfig
		token string
		code  string
	}{
		{"missing header", JWTMiddlewareConfig{JWTService: svc}, "", "UNAUTHORIZED"},
		{"garbage token", JWTMiddlewareConfig{JWTService: svc}, "not-a-jwt", "TOKEN_INVALID"},
		{"refresh token used as access", JWTMiddlewareConfig{JWTService: svc}, pair.RefreshToken, "TOKEN_INVALID"},
		{"expired", JWTMiddlewareConfig{JWTService: svc}, expired.AccessToken, "TOKEN_EXPIRED"},
		{
			"revoked",
			JWTMiddlewareConfig{JWTService: svc, Revocation: stubRevocation{err: shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")}},
			pair.AccessToken,
			"TOKEN_REVOKED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(jwtRouter(tt.cfg, ok), tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	t.Run("blacklist outage fails open", func(t *testing.T) {
		cfg := JWTMiddlewareConfig{JWTService: svc, Revocation: stubRevocation{err: errors.New("redis down")}}
		w := serve(jwtRouter(cfg, ok), pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, err := svc.GenerateTokenPair(agentSubject())
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalJWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, string(GetJWTRole(c)))
	})

	t.Run("anonymous", func(t *testing.T) {
		w := serve(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		w := serve(router, "not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("valid token sets the principal", func(t *testing.T) {
		w := serve(router, pair.AccessToken)
		assert.Equal(t, "agent", w.Body.String())
	})
}

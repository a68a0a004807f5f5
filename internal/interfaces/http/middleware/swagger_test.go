package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/taponce/backend/internal/interfaces/http/dto"
)

func swaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func fakeJWT(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer good" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "missing token"))
	}
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		authHeader string
		status     int
		code       string
	}{
		{
			name:   "disabled",
			cfg:    SwaggerConfig{Enabled: false},
			status: http.StatusNotFound,
			code:   dto.ErrCodeNotFound,
		},
		{
			name:   "enabled without restrictions",
			cfg:    SwaggerConfig{Enabled: true},
			status: http.StatusOK,
		},
		{
			name:       "allowed exact address",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}},
			remoteAddr: "127.0.0.1:40000",
			status:     http.StatusOK,
		},
		{
			name:       "address outside the allow list",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}},
			remoteAddr: "203.0.113.9:40000",
			status:     http.StatusForbidden,
			code:       dto.ErrCodeForbidden,
		},
		{
			name:       "address inside an allowed network",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}},
			remoteAddr: "10.20.30.40:40000",
			status:     http.StatusOK,
		},
		{
			name:   "token required and missing",
			cfg:    SwaggerConfig{Enabled: true, RequireAuth: true},
			status: http.StatusUnauthorized,
			code:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "token required and present",
			cfg:        SwaggerConfig{Enabled: true, RequireAuth: true},
			authHeader: "Bearer good",
			status:     http.StatusOK,
		},
		{
			name:       "blocked address is refused before the token check",
			cfg:        SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"192.168.1.0/24"}},
			remoteAddr: "203.0.113.9:40000",
			status:     http.StatusForbidden,
			code:       dto.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := swaggerRouter(tt.cfg, fakeJWT)
			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
			} else {
				assert.Equal(t, "docs", w.Body.String())
			}
		})
	}
}

func TestParseAllowList(t *testing.T) {
	ips, nets := parseAllowList([]string{"127.0.0.1", " 10.0.0.0/8 ", "not-an-ip", "300.1.1.1/40", "::1"})
	assert.Len(t, ips, 2)
	assert.Len(t, nets, 1)
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{"192.168.1.10", "10.0.0.0/16"})

	assert.True(t, isIPAllowed(net.ParseIP("192.168.1.10"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("10.0.255.1"), ips, nets))
	assert.False(t, isIPAllowed(net.ParseIP("10.1.0.1"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}

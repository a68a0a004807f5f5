package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/interfaces/http/handler"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, DefaultBasePath, r.basePath)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithBasePath("/v2"))
	assert.Equal(t, "/v2", r.basePath)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	NewRouter(engine).Register(group).Setup()

	w := do(engine, http.MethodGet, "/api/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/designs")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/designs", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("test", "/test")
		g.GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok)
		g.RegisterRoutes(engine.Group("/api"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/test/items"},
			{http.MethodPost, "/api/test/items"},
			{http.MethodPut, "/api/test/items/1"},
			{http.MethodPatch, "/api/test/items/1"},
			{http.MethodDelete, "/api/test/items/1"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, do(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("nil middleware and handlers are skipped", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(nil, func(c *gin.Context) {
			c.Header("X-Group", "applied")
			c.Next()
		})
		g.GET("/items", nil, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		g.RegisterRoutes(engine.Group("/api"))

		w := do(engine, http.MethodGet, "/api/test/items")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Group"))
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("admin", "/admin").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		g.Group("agents", "/agents").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusForbidden, do(engine, http.MethodGet, "/api/admin/agents").Code)
	})
}

func emptyHandlers() Handlers {
	return Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Agent:        handler.NewAgentHandler(nil, nil),
		AgentPortal:  handler.NewAgentPortalHandler(nil, nil, nil),
		Payout:       handler.NewPayoutHandler(nil),
		Order:        handler.NewOrderHandler(nil, nil),
		Board:        handler.NewBoardHandler(nil),
		Design:       handler.NewDesignHandler(nil, nil),
		Expense:      handler.NewExpenseHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Upload:       handler.NewUploadHandler(nil),
		Profile:      handler.NewProfileHandler(nil),
		Draft:        handler.NewDraftHandler(nil),
		System:       handler.NewSystemHandler("taponce", "test"),
	}
}

// principal stands in for JWTAuth by trusting the X-Role header
func principal(c *gin.Context) {
	role := c.GetHeader("X-Role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(middleware.JWTUserIDKey, "00000000-0000-0000-0000-000000000001")
	c.Set(middleware.JWTRoleKey, role)
	c.Next()
}

func mountAPI(t *testing.T) *gin.Engine {
	t.Helper()
	engine := gin.New()
	NewRouter(engine).
		RegisterAll(DomainGroups(emptyHandlers(), Guards{Authenticate: principal, Identify: func(c *gin.Context) { c.Next() }})).
		Setup()
	return engine
}

func TestDomainGroups_Routes(t *testing.T) {
	engine := mountAPI(t)

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/agents/apply",
		"GET /api/admin/agents",
		"POST /api/admin/agents",
		"PATCH /api/admin/agents/:id",
		"GET /api/admin/agents/:id/msp",
		"PUT /api/admin/agents/:id/msp",
		"GET /api/admin/agents/:id/balance-audit",
		"GET /api/admin/payouts",
		"POST /api/admin/payouts",
		"PATCH /api/admin/payouts/:id",
		"GET /api/admin/orders/:id",
		"PUT /api/admin/orders/:id/status",
		"PATCH /api/admin/orders/:id/payment",
		"GET /api/admin/orders/board",
		"PUT /api/admin/orders/board/moves",
		"GET /api/admin/orders/export",
		"GET /api/admin/designs",
		"POST /api/admin/designs",
		"PATCH /api/admin/designs/:id",
		"GET /api/admin/expenses",
		"POST /api/admin/expenses",
		"POST /api/orders/submit",
		"GET /api/orders/track",
		"GET /api/auth/claim-account",
		"POST /api/auth/claim-account",
		"POST /api/auth/login",
		"POST /api/auth/refresh",
		"POST /api/auth/logout",
		"GET /api/designs",
		"GET /api/agent/dashboard",
		"GET /api/agent/orders",
		"GET /api/agent/network",
		"GET /api/agent/referral/qr",
		"GET /api/agent/payouts",
		"POST /api/agent/payouts",
		"GET /api/notifications",
		"POST /api/notifications/:id/read",
		"POST /api/uploads/presign",
		"GET /api/profiles/:slug",
		"GET /api/profiles/:slug/vcard",
		"GET /api/profiles/:slug/qr",
		"GET /api/professions",
		"POST /api/drafts",
		"GET /api/drafts/:id",
		"PATCH /api/drafts/:id",
		"DELETE /api/drafts/:id",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestDomainGroups_Guards(t *testing.T) {
	engine := mountAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
	}{
		{"admin area needs a token", http.MethodGet, "/api/admin/agents", "", http.StatusUnauthorized},
		{"agents cannot reach admin", http.MethodGet, "/api/admin/agents", "agent", http.StatusForbidden},
		{"customers cannot reach admin", http.MethodPut, "/api/admin/orders/board/moves", "customer", http.StatusForbidden},
		{"portal needs a token", http.MethodGet, "/api/agent/dashboard", "", http.StatusUnauthorized},
		{"admins are not agents", http.MethodGet, "/api/agent/dashboard", "admin", http.StatusForbidden},
		{"own profile is customer only", http.MethodGet, "/api/profile/me", "agent", http.StatusForbidden},
		{"inbox needs a token", http.MethodGet, "/api/notifications", "", http.StatusUnauthorized},
		{"uploads need a token", http.MethodPost, "/api/uploads/presign", "", http.StatusUnauthorized},
		{"logout needs a token", http.MethodPost, "/api/auth/logout", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("X-Role", tt.role)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)
		})
	}
}

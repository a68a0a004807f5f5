package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	appagent "github.com/taponce/backend/internal/application/agent"
	appcatalog "github.com/taponce/backend/internal/application/catalog"
	appcustomer "github.com/taponce/backend/internal/application/customer"
	appdraft "github.com/taponce/backend/internal/application/draft"
	appfinance "github.com/taponce/backend/internal/application/finance"
	appidentity "github.com/taponce/backend/internal/application/identity"
	appnotification "github.com/taponce/backend/internal/application/notification"
	apporder "github.com/taponce/backend/internal/application/order"
	appupload "github.com/taponce/backend/internal/application/upload"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"github.com/taponce/backend/internal/infrastructure/cache"
	"github.com/taponce/backend/internal/infrastructure/config"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/internal/infrastructure/storage"
	"github.com/taponce/backend/internal/interfaces/http/handler"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
	"github.com/taponce/backend/internal/interfaces/http/router"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminPassword = "admin-password-1"

// apiHarness runs the whole HTTP surface against an in-memory SQLite database
type apiHarness struct {
	engine    *gin.Engine
	db        *gorm.DB
	jwt       *auth.JWTService
	profiles  *persistence.GormProfileRepository
	agents    *persistence.GormAgentRepository
	designs   *persistence.GormCardDesignRepository
	orders    *apporder.OrderService
	conflicts *conflictCounter
	design    *catalog.CardDesign
	admin     *identity.Profile
}

type conflictCounter struct {
	count int
}

func (c *conflictCounter) RecordIdempotentConflict() {
	c.count++
}

func init() {
	middleware.SetupValidator()
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	db := testutil.NewSQLiteDB(t)

	h := &apiHarness{
		db: db,
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "handler-test-secret-at-least-32-chars",
			RefreshSecret:          "handler-test-refresh-secret-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "taponce-test",
		}),
		profiles:  persistence.NewGormProfileRepository(db),
		agents:    persistence.NewGormAgentRepository(db),
		designs:   persistence.NewGormCardDesignRepository(db),
		conflicts: &conflictCounter{},
	}

	scope := persistence.NewGormTransactionScope(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	customers := persistence.NewGormCustomerRepository(db)
	msps := persistence.NewGormAgentMspRepository(db)
	payouts := persistence.NewGormPayoutRepository(db)
	drafts := cache.NewInMemoryDraftStore()

	agentService := appagent.NewAgentService(appagent.Repositories{
		Agents:   h.agents,
		Profiles: h.profiles,
		Payouts:  payouts,
		Designs:  h.designs,
		Msps:     msps,
		Orders:   orderRepo,
	}, scope, appagent.ServiceConfig{PublicURL: "https://taponce.test", ClaimTokenTTL: 72 * time.Hour}, log)

	h.orders = apporder.NewOrderService(apporder.Repositories{
		Orders:    orderRepo,
		Query:     orderRepo,
		Designs:   h.designs,
		Msps:      msps,
		Agents:    h.agents,
		Customers: customers,
	}, scope, apporder.ServiceConfig{
		Policy:         order.DefaultCommissionPolicy(),
		ClaimTokenTTL:  72 * time.Hour,
		IdempotencyTTL: time.Hour,
		PublicURL:      "https://taponce.test",
	}, log)
	h.orders.SetDraftStore(drafts)
	h.orders.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore())

	authService := appidentity.NewAuthService(h.profiles, customers, h.agents, scope, h.jwt, auth.NewInMemoryTokenBlacklist(), log)
	payoutService := appagent.NewPayoutService(payouts, h.agents, scope, log)
	auditService := appagent.NewBalanceAuditService(h.agents, persistence.NewGormBalanceLedger(db), nil, log)

	orderHandler := handler.NewOrderHandler(h.orders, agentService)
	orderHandler.SetConflictRecorder(h.conflicts)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Agent:        handler.NewAgentHandler(agentService, auditService),
		AgentPortal:  handler.NewAgentPortalHandler(agentService, h.orders, payoutService),
		Payout:       handler.NewPayoutHandler(payoutService),
		Order:        orderHandler,
		Board:        handler.NewBoardHandler(apporder.NewBoardService(orderRepo, h.orders, log)),
		Design:       handler.NewDesignHandler(appcatalog.NewDesignService(h.designs, msps, log), agentService),
		Expense:      handler.NewExpenseHandler(appfinance.NewExpenseService(persistence.NewGormExpenseRepository(db), log)),
		Notification: handler.NewNotificationHandler(appnotification.NewNotificationService(persistence.NewGormNotificationRepository(db), log)),
		Upload:       handler.NewUploadHandler(appupload.NewUploadService(storage.NewMemoryObjectStorage("https://files.taponce.test"), log)),
		Profile:      handler.NewProfileHandler(appcustomer.NewProfileService(customers, "https://taponce.test", "https://api.taponce.test", log)),
		Draft:        handler.NewDraftHandler(appdraft.NewDraftService(drafts, h.designs, time.Hour, log)),
		System:       handler.NewSystemHandler("taponce", "test"),
	}

	jwtConfig := middleware.JWTMiddlewareConfig{JWTService: h.jwt, Revocation: authService, Logger: log}
	h.engine = gin.New()
	h.engine.Use(middleware.RequestID())
	h.engine.GET("/health", handlers.System.AddCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}).Health)
	router.NewRouter(h.engine).
		RegisterAll(router.DomainGroups(handlers, router.Guards{
			Authenticate: middleware.JWTAuth(jwtConfig),
			Identify:     middleware.OptionalJWTAuth(jwtConfig),
		})).
		Setup()

	var err error
	h.design, err = catalog.NewCardDesign("Matte Black", "pvc", decimal.NewFromInt(600))
	require.NoError(t, err)
	require.NoError(t, h.designs.Save(ctx, h.design))

	h.admin, err = identity.NewProfileWithPassword("admin@taponce.test", "Ops Admin", "9000000000", identity.RoleAdmin, adminPassword)
	require.NoError(t, err)
	require.NoError(t, h.profiles.Save(ctx, h.admin))
	return h
}

// newAgent stores an active agent and returns it with an access token
func (h *apiHarness) newAgent(t *testing.T, code string) (*agent.Agent, string) {
	t.Helper()
	ctx := context.Background()

	p, err := identity.NewProfile(code+"@agents.taponce.test", "Agent "+code, "9800000000", identity.RoleAgent)
	require.NoError(t, err)
	require.NoError(t, h.profiles.Save(ctx, p))

	a, err := agent.NewAgent(p.ID, code, nil, "Pune")
	require.NoError(t, err)
	require.NoError(t, a.ChangeStatus(agent.AgentStatusActive))
	require.NoError(t, h.agents.Save(ctx, a))

	return a, h.token(t, p.ID, p.Email, identity.RoleAgent, &a.ID)
}

func (h *apiHarness) adminToken(t *testing.T) string {
	t.Helper()
	return h.token(t, h.admin.ID, h.admin.Email, identity.RoleAdmin, nil)
}

func (h *apiHarness) token(t *testing.T, profileID uuid.UUID, email string, role identity.Role, agentID *uuid.UUID) string {
	t.Helper()
	pair, err := h.jwt.GenerateTokenPair(auth.Subject{UserID: profileID, Email: email, Role: role, AgentID: agentID})
	require.NoError(t, err)
	return pair.AccessToken
}

// request describes one call against the API
type request struct {
	method  string
	path    string
	token   string
	body    any
	headers map[string]string
}

func (h *apiHarness) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes the standard response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func (h *apiHarness) submitBody(sale int64) map[string]any {
	return map[string]any{
		"card_design_id": h.design.ID,
		"sale_price":     decimal.NewFromInt(sale),
		"customer": map[string]any{
			"full_name":  "Ravi Kumar",
			"email":      "ravi@example.com",
			"phone":      "9123456780",
			"profession": "doctor",
		},
		"shipping_address": map[string]any{"line1": "4 FC Road", "city": "Pune"},
	}
}

package handler_test

import (
	"bytes"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appagent "github.com/taponce/backend/internal/application/agent"
	appcustomer "github.com/taponce/backend/internal/application/customer"
	appdraft "github.com/taponce/backend/internal/application/draft"
	appidentity "github.com/taponce/backend/internal/application/identity"
	apporder "github.com/taponce/backend/internal/application/order"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/interfaces/http/handler"
	"github.com/xuri/excelize/v2"
)

func TestAuth_LoginMeLogout(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email":    "admin@taponce.test",
		"password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email":    "admin@taponce.test",
		"password": adminPassword,
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokens := decodeData[appidentity.TokenResult](t, w)
	require.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, h.admin.ID, tokens.Profile.ID)

	w = h.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: tokens.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeData[appidentity.ProfileInfo](t, w)
	assert.Equal(t, "admin@taponce.test", me.Email)

	w = h.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		token:  tokens.AccessToken,
		body:   map[string]string{"refresh_token": tokens.RefreshToken},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, w))

	w = h.do(t, request{method: http.MethodPost, path: "/api/auth/refresh", body: map[string]string{"refresh_token": tokens.RefreshToken}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_LoginValidation(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": "not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestOrders_SubmitAsAgent(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newAgent(t, "TAPAAA111")

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeData[apporder.SubmitOrderResponse](t, w)

	assert.Equal(t, order.StatusPendingApproval, resp.Status)
	assert.False(t, resp.IsDirectSale)
	assert.True(t, resp.CommissionAmount.Equal(decimal.NewFromInt(200)))
	assert.Contains(t, resp.ClaimURL, "token=")
}

func TestOrders_SubmitDirectIgnoresAgentInBody(t *testing.T) {
	h := newAPIHarness(t)
	seller, _ := h.newAgent(t, "TAPBBB222")

	body := h.submitBody(800)
	body["agent_id"] = seller.ID
	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeData[apporder.SubmitOrderResponse](t, w)
	assert.True(t, resp.IsDirectSale)
	assert.True(t, resp.CommissionAmount.IsZero())
}

func TestOrders_SubmitIdempotency(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newAgent(t, "TAPCCC333")
	headers := map[string]string{handler.IdempotencyKeyHeader: "order-attempt-1"}

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(800), headers: headers})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(800), headers: headers})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))
	assert.Equal(t, 1, h.conflicts.count)

	headers[handler.IdempotencyKeyHeader] = strings.Repeat("k", 129)
	w = h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(800), headers: headers})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrders_BelowMSPNeedsConfirmation(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newAgent(t, "TAPDDD444")

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(500)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "BELOW_MSP_CONFIRMATION_REQUIRED", errorCode(t, w))

	body := h.submitBody(500)
	body["confirm_below_msp"] = true
	w = h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decodeData[apporder.SubmitOrderResponse](t, w).IsBelowMSP)
}

func TestOrders_TrackAndAdminLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	_, agentToken := h.newAgent(t, "TAPEEE555")
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: agentToken, body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	submitted := decodeData[apporder.SubmitOrderResponse](t, w)

	track := func(phone string) int {
		q := url.Values{"order_number": {submitted.OrderNumber}, "phone": {phone}}
		return h.do(t, request{method: http.MethodGet, path: "/api/orders/track?" + q.Encode()}).Code
	}
	assert.Equal(t, http.StatusOK, track("+91 91234 56780"))
	assert.Equal(t, http.StatusNotFound, track("9000000001"))
	assert.Equal(t, http.StatusBadRequest, h.do(t, request{method: http.MethodGet, path: "/api/orders/track"}).Code)

	detailPath := "/api/admin/orders/" + submitted.OrderID.String()
	w = h.do(t, request{method: http.MethodGet, path: detailPath, token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeData[apporder.OrderDetailResponse](t, w)
	assert.ElementsMatch(t, []order.OrderStatus{order.StatusApproved, order.StatusRejected, order.StatusCancelled}, detail.AllowedTransitions)

	w = h.do(t, request{method: http.MethodPut, path: detailPath + "/status", token: admin, body: map[string]string{"status": "approved"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, order.StatusApproved, decodeData[apporder.OrderDetailResponse](t, w).Status)

	w = h.do(t, request{method: http.MethodPut, path: detailPath + "/status", token: admin, body: map[string]string{"status": "delivered"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, request{method: http.MethodPatch, path: detailPath + "/payment", token: admin, body: map[string]string{"payment_status": "paid"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, order.PaymentPaid, decodeData[apporder.OrderDetailResponse](t, w).PaymentStatus)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/not-a-uuid", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/" + uuid.NewString(), token: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders_Board(t *testing.T) {
	h := newAPIHarness(t)
	_, agentToken := h.newAgent(t, "TAPFFF666")
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: agentToken, body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code)
	submitted := decodeData[apporder.SubmitOrderResponse](t, w)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/board", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	board := decodeData[apporder.BoardResponse](t, w)
	assert.Equal(t, 1, board.Total)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/board?statuses=approved,bogus", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, request{method: http.MethodPut, path: "/api/admin/orders/board/moves", token: admin, body: map[string]any{
		"moves": []map[string]any{
			{"order_id": submitted.OrderID, "status": "approved"},
			{"order_id": submitted.OrderID, "status": "delivered"},
		},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moves := decodeData[apporder.BoardMovesResponse](t, w)
	require.Len(t, moves.Results, 2)
	assert.True(t, moves.Results[0].Applied)
	assert.False(t, moves.Results[1].Applied)
}

func TestOrders_Export(t *testing.T) {
	h := newAPIHarness(t)
	_, agentToken := h.newAgent(t, "TAPGGG777")
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: agentToken, body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code)
	submitted := decodeData[apporder.SubmitOrderResponse](t, w)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/export", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = book.Close() }()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], submitted.OrderNumber)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/export?from=19-01-2026", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/orders/export?status=lost", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimAccount(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	claimURL, err := url.Parse(decodeData[apporder.SubmitOrderResponse](t, w).ClaimURL)
	require.NoError(t, err)
	token := claimURL.Query().Get("token")
	require.NotEmpty(t, token)

	w = h.do(t, request{method: http.MethodGet, path: "/api/auth/claim-account?token=" + url.QueryEscape(token)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ravi@example.com", decodeData[appidentity.ClaimInfo](t, w).Email)

	w = h.do(t, request{method: http.MethodGet, path: "/api/auth/claim-account"})
	assert.Equal(t, "INVALID_CLAIM_TOKEN", errorCode(t, w))

	w = h.do(t, request{method: http.MethodPost, path: "/api/auth/claim-account", body: map[string]string{"token": token, "password": "short"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, request{method: http.MethodPost, path: "/api/auth/claim-account", body: map[string]string{"token": token, "password": "customer-pass-1"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokens := decodeData[appidentity.TokenResult](t, w)

	w = h.do(t, request{method: http.MethodGet, path: "/api/profile/me", token: tokens.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mine := decodeData[appcustomer.OwnProfileResponse](t, w)
	assert.Equal(t, "ravi-kumar", mine.Slug)

	w = h.do(t, request{method: http.MethodPost, path: "/api/auth/claim-account", body: map[string]string{"token": token, "password": "customer-pass-1"}})
	assert.False(t, decode(t, w).Success)
}

func TestAgents_ApplyAndAdmin(t *testing.T) {
	h := newAPIHarness(t)
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/agents/apply", body: map[string]string{
		"full_name": "Neha Shah",
		"email":     "neha@example.com",
		"phone":     "9876501234",
		"city":      "Mumbai",
		"password":  "agent-pass-1",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	applied := decodeData[appagent.AgentResponse](t, w)

	w = h.do(t, request{method: http.MethodPost, path: "/api/agents/apply", body: map[string]string{
		"full_name": "Neha Again",
		"email":     "neha@example.com",
		"phone":     "9876501234",
		"password":  "agent-pass-1",
	}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/agents?status=pending", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	w = h.do(t, request{
		method: http.MethodPatch,
		path:   "/api/admin/agents/" + applied.ID.String(),
		token:  admin,
		body:   map[string]string{"status": "active"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/agents/" + applied.ID.String() + "/balance-audit", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodPut, path: "/api/admin/agents/" + applied.ID.String() + "/msp", token: admin, body: map[string]any{
		"items": []map[string]any{{"card_design_id": h.design.ID, "msp": "700"}},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/agents/" + applied.ID.String() + "/msp", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	msps := decodeData[[]appagent.MSPResponse](t, w)
	require.NotEmpty(t, msps)
}

func TestAgentPortal(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newAgent(t, "TAPHHH888")

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", token: token, body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/dashboard", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decodeData[appagent.DashboardResponse](t, w)
	assert.Equal(t, 1, dash.TotalOrders)
	assert.Equal(t, "TAPHHH888", dash.Agent.ReferralCode)

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/orders", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Meta.Total)

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/network", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/referral/qr?size=128", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/referral/qr?size=10", token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was approved, so there is nothing to pay out
	w = h.do(t, request{method: http.MethodPost, path: "/api/agent/payouts", token: token, body: map[string]any{"amount": "100", "payment_method": "upi"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/agent/payouts", token: token})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDesigns(t *testing.T) {
	h := newAPIHarness(t)
	admin := h.adminToken(t)
	_, agentToken := h.newAgent(t, "TAPIII999")

	w := h.do(t, request{method: http.MethodPost, path: "/api/admin/designs", token: admin, body: map[string]any{
		"name":     "Brushed Steel",
		"material": "metal",
		"base_msp": "1500",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/designs", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 20, env.Meta.PageSize)

	w = h.do(t, request{method: http.MethodPatch, path: "/api/admin/designs/" + h.design.ID.String(), token: admin, body: map[string]any{"status": "inactive"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/designs"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]map[string]any](t, w), 1)

	w = h.do(t, request{method: http.MethodGet, path: "/api/designs", token: agentToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]map[string]any](t, w), 1)
}

func TestExpenses(t *testing.T) {
	h := newAPIHarness(t)
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/admin/expenses", token: admin, body: map[string]any{
		"category":    "printing",
		"amount":      "2500",
		"description": "PVC card stock",
		"incurred_on": "2026-03-02T00:00:00Z",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/expenses?category=printing", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w).Meta.Total)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/expenses?category=yachts", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/admin/expenses/summary?from_date=2026-03-01&to_date=2026-03-31", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decodeData[struct {
		Total decimal.Decimal `json:"total"`
	}](t, w)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(2500)))
}

func TestProfiles(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/orders/submit", body: h.submitBody(800)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, request{method: http.MethodGet, path: "/api/profiles/ravi-kumar"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decodeData[appcustomer.PublicProfileResponse](t, w)
	assert.Equal(t, "Ravi Kumar", profile.FullName)

	w = h.do(t, request{method: http.MethodGet, path: "/api/profiles/ravi-kumar/vcard"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/vcard; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".vcf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "BEGIN:VCARD\r\n"))

	w = h.do(t, request{method: http.MethodGet, path: "/api/profiles/ravi-kumar/qr"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = h.do(t, request{method: http.MethodGet, path: "/api/profiles/nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, request{method: http.MethodGet, path: "/api/professions"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeData[[]map[string]any](t, w))
}

func TestDrafts(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodPost, path: "/api/drafts", body: map[string]string{"profession": "doctor"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData[appdraft.DraftResponse](t, w)
	path := "/api/drafts/" + created.ID.String()

	w = h.do(t, request{method: http.MethodPatch, path: path, body: map[string]any{
		"card_design_id": h.design.ID,
		"contact":        map[string]string{"full_name": "Asha Rao", "phone": "9876543210"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeData[appdraft.DraftResponse](t, w).ReadyForCheckout)

	w = h.do(t, request{method: http.MethodGet, path: path})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, request{method: http.MethodDelete, path: path})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = h.do(t, request{method: http.MethodGet, path: path})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = h.do(t, request{method: http.MethodDelete, path: path})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationsAndUploads(t *testing.T) {
	h := newAPIHarness(t)
	admin := h.adminToken(t)

	w := h.do(t, request{method: http.MethodGet, path: "/api/notifications", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inbox := decodeData[struct {
		Items  []map[string]any `json:"items"`
		Unread int64            `json:"unread"`
	}](t, w)
	assert.Empty(t, inbox.Items)
	assert.NotNil(t, inbox.Items)

	w = h.do(t, request{method: http.MethodPost, path: "/api/notifications/" + uuid.NewString() + "/read", token: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, request{method: http.MethodPost, path: "/api/uploads/presign", token: admin, body: map[string]string{
		"kind":         "photos",
		"content_type": "image/jpeg",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	presigned := decodeData[map[string]any](t, w)
	assert.Equal(t, "PUT", presigned["method"])

	w = h.do(t, request{method: http.MethodPost, path: "/api/uploads/presign", token: admin, body: map[string]string{
		"kind":         "photos",
		"content_type": "application/pdf",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_UPLOAD", errorCode(t, w))
}

func TestHealth(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

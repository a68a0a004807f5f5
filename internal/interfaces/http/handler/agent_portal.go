package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appagent "github.com/taponce/backend/internal/application/agent"
	apporder "github.com/taponce/backend/internal/application/order"
)

// AgentPortalHandler serves the logged-in agent's own views. Every action
// is scoped to the caller's agent account.
type AgentPortalHandler struct {
	BaseHandler
	agentService  *appagent.AgentService
	orderService  *apporder.OrderService
	payoutService *appagent.PayoutService
}

// NewAgentPortalHandler creates a new agent portal handler
func NewAgentPortalHandler(agentService *appagent.AgentService, orderService *apporder.OrderService, payoutService *appagent.PayoutService) *AgentPortalHandler {
	return &AgentPortalHandler{
		agentService:  agentService,
		orderService:  orderService,
		payoutService: payoutService,
	}
}

func (h *AgentPortalHandler) agentID(c *gin.Context) (uuid.UUID, bool) {
	agentID, err := resolveAgentID(c, h.agentService)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, false
	}
	return agentID, true
}

// Dashboard handles GET /agent/dashboard
// @Summary      Agent dashboard
// @Tags         agent
// @Produce      json
// @Success      200 {object} dto.Response{data=appagent.DashboardResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/dashboard [get]
func (h *AgentPortalHandler) Dashboard(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}

	resp, err := h.agentService.Dashboard(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Orders handles GET /agent/orders
// @Summary      Orders sold by the agent
// @Tags         agent
// @Produce      json
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Param        search query string false "Search"
// @Param        status query string false "Status"
// @Param        payment_status query string false "Payment status"
// @Success      200 {object} dto.Response{data=[]apporder.OrderListItem,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/orders [get]
func (h *AgentPortalHandler) Orders(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}
	var filter apporder.ListOrdersFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.orderService.ListForAgent(c.Request.Context(), agentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(&h.BaseHandler, c, page)
}

// Network handles GET /agent/network
// @Summary      Recruited agents and overrides
// @Tags         agent
// @Produce      json
// @Success      200 {object} dto.Response{data=appagent.NetworkResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/network [get]
func (h *AgentPortalHandler) Network(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}

	resp, err := h.agentService.Network(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReferralQR handles GET /agent/referral/qr and returns a PNG
// @Summary      Referral link QR code
// @Tags         agent
// @Produce      image/png
// @Param        size query int false "Image size in pixels"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/referral/qr [get]
func (h *AgentPortalHandler) ReferralQR(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}
	size, ok := h.QRSize(c)
	if !ok {
		return
	}

	png, err := h.agentService.ReferralQR(c.Request.Context(), agentID, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// Payouts handles GET /agent/payouts
// @Summary      Agent payout history
// @Tags         agent
// @Produce      json
// @Param        agent_id query string false "Agent ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, completed, failed)
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Success      200 {object} dto.Response{data=[]appagent.PayoutResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/payouts [get]
func (h *AgentPortalHandler) Payouts(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}
	var filter appagent.PayoutListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.payoutService.ListForAgent(c.Request.Context(), agentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(&h.BaseHandler, c, page)
}

// RequestPayout handles POST /agent/payouts. The payout stays pending until
// an admin completes it.
// @Summary      Request a payout
// @Tags         agent
// @Accept       json
// @Produce      json
// @Param        request body appagent.RequestPayoutRequest true "Payout request"
// @Success      201 {object} dto.Response{data=appagent.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /agent/payouts [post]
func (h *AgentPortalHandler) RequestPayout(c *gin.Context) {
	agentID, ok := h.agentID(c)
	if !ok {
		return
	}
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appagent.RequestPayoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.payoutService.Request(c.Request.Context(), agentID, profileID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

package handler

import (
	"github.com/gin-gonic/gin"
	appagent "github.com/taponce/backend/internal/application/agent"
)

// PayoutHandler handles the admin payout screens
type PayoutHandler struct {
	BaseHandler
	payoutService *appagent.PayoutService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutService *appagent.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// List handles GET /admin/payouts
// @Summary      List payouts
// @Tags         admin-payouts
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
// @Router       /admin/payouts [get]
func (h *PayoutHandler) List(c *gin.Context) {
	var filter appagent.PayoutListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.payoutService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(&h.BaseHandler, c, page)
}

// Record handles POST /admin/payouts. A completed payout debits the agent's
// available balance right away.
// @Summary      Record a payout
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Param        request body appagent.RecordPayoutRequest true "Payout"
// @Success      201 {object} dto.Response{data=appagent.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts [post]
func (h *PayoutHandler) Record(c *gin.Context) {
	adminID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appagent.RecordPayoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.payoutService.Record(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Process handles PATCH /admin/payouts/:id, completing or failing a
// pending payout.
// @Summary      Complete or fail a pending payout
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Param        request body appagent.ProcessPayoutRequest true "Outcome"
// @Success      200 {object} dto.Response{data=appagent.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/{id} [patch]
func (h *PayoutHandler) Process(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	adminID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appagent.ProcessPayoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.payoutService.Process(c.Request.Context(), id, adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/taponce/backend/internal/application/order"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client's submission key
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the header before it reaches the store
const maxIdempotencyKeyLength = 128

// xlsxContentType is the MIME type of the order export
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConflictRecorder counts rejected Idempotency-Key replays
type ConflictRecorder interface {
	RecordIdempotentConflict()
}

// OrderHandler handles order submission, tracking and the admin order pages
type OrderHandler struct {
	BaseHandler
	orderService *apporder.OrderService
	agents       AgentLookup
	conflicts    ConflictRecorder
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *apporder.OrderService, agents AgentLookup) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		agents:       agents,
	}
}

// SetConflictRecorder enables counting duplicate submissions
func (h *OrderHandler) SetConflictRecorder(r ConflictRecorder) {
	h.conflicts = r
}

// Submit handles POST /orders/submit. Agents sell on their own account,
// admins may name an agent_id, everyone else places a direct sale.
// @Summary      Submit an order
// @Description  Agents sell on their own account; anonymous and admin submissions are direct sales.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays with the same key are rejected"
// @Param        request body apporder.SubmitOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=apporder.SubmitOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/submit [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	var req apporder.SubmitOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
		return
	}

	var agentID *uuid.UUID
	switch middleware.GetJWTRole(c) {
	case identity.RoleAgent:
		id, err := resolveAgentID(c, h.agents)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		agentID = &id
	case identity.RoleAdmin:
		agentID = req.AgentID
	}
	req.AgentID = nil

	idem := apporder.IdempotencyKey{Key: key}
	if userID := middleware.GetJWTUserID(c); userID != "" {
		idem.Caller = "profile:" + userID
	} else {
		idem.Caller = "ip:" + c.ClientIP()
	}

	resp, err := h.orderService.Submit(c.Request.Context(), agentID, req, idem)
	if err != nil {
		if h.conflicts != nil && errors.Is(err, apporder.ErrDuplicateSubmission) {
			h.conflicts.RecordIdempotentConflict()
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// trackQuery is the query of GET /orders/track
type trackQuery struct {
	OrderNumber string `form:"order_number" binding:"required,max=32"`
	Phone       string `form:"phone" binding:"required,max=32"`
}

// Track handles GET /orders/track. A phone mismatch is reported as not found.
// @Summary      Track an order
// @Tags         orders
// @Produce      json
// @Param        order_number query string true "Order number"
// @Param        phone query string true "Phone"
// @Success      200 {object} dto.Response{data=apporder.TrackResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/track [get]
func (h *OrderHandler) Track(c *gin.Context) {
	var q trackQuery
	if !h.BindQuery(c, &q) {
		return
	}

	resp, err := h.orderService.Track(c.Request.Context(), q.OrderNumber, q.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /admin/orders/:id
// @Summary      Get an order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=apporder.OrderDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PUT /admin/orders/:id/status
// @Summary      Move an order to a new status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body apporder.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=apporder.OrderDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req apporder.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePayment handles PATCH /admin/orders/:id/payment
// @Summary      Set the payment status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body apporder.UpdatePaymentRequest true "Payment status"
// @Success      200 {object} dto.Response{data=apporder.OrderDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/payment [patch]
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req apporder.UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// exportQuery is the query of GET /admin/orders/export
type exportQuery struct {
	Status string `form:"status"`
	From   string `form:"from"`
	To     string `form:"to"`
}

// Export handles GET /admin/orders/export and returns an xlsx attachment.
// from and to are inclusive calendar dates (YYYY-MM-DD).
// @Summary      Export orders as a spreadsheet
// @Tags         admin-orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status query string false "Status"
// @Param        from query string false "From"
// @Param        to query string false "To"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	var q exportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := apporder.ExportFilter{Status: order.OrderStatus(q.Status)}
	if q.Status != "" && !filter.Status.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown status "+q.Status)
		return
	}
	var err error
	if filter.From, err = parseDate(q.From); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "from must be YYYY-MM-DD")
		return
	}
	if filter.To, err = parseDate(q.To); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "to must be YYYY-MM-DD")
		return
	}
	if filter.To != nil {
		end := filter.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	var buf bytes.Buffer
	if err := h.orderService.Export(c.Request.Context(), &buf, filter); err != nil {
		h.HandleError(c, err)
		return
	}

	name := "orders-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

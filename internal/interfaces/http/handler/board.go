package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/taponce/backend/internal/application/order"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/interfaces/http/dto"
)

// BoardHandler serves the admin Kanban board
type BoardHandler struct {
	BaseHandler
	boardService *apporder.BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *apporder.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// boardQuery is the query form of order.BoardFilter. statuses is a comma
// separated list.
type boardQuery struct {
	Statuses      string `form:"statuses"`
	AgentID       string `form:"agent_id" binding:"omitempty,uuid"`
	CardDesignID  string `form:"card_design_id" binding:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending partial paid refunded"`
	BelowMSPOnly  bool   `form:"below_msp_only"`
	DirectOnly    bool   `form:"direct_only"`
	Search        string `form:"search" binding:"max=100"`
}

func (q boardQuery) filter() (apporder.BoardFilter, error) {
	f := apporder.BoardFilter{
		PaymentStatus: order.PaymentStatus(q.PaymentStatus),
		BelowMSPOnly:  q.BelowMSPOnly,
		DirectOnly:    q.DirectOnly,
		Search:        q.Search,
	}
	for _, raw := range strings.Split(q.Statuses, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		status := order.OrderStatus(raw)
		if !status.IsValid() {
			return f, fmt.Errorf("unknown status %q", raw)
		}
		f.Statuses = append(f.Statuses, status)
	}
	if q.AgentID != "" {
		id := uuid.MustParse(q.AgentID)
		f.AgentID = &id
	}
	if q.CardDesignID != "" {
		id := uuid.MustParse(q.CardDesignID)
		f.CardDesignID = &id
	}
	return f, nil
}

// Load handles GET /admin/orders/board
// @Summary      Order board
// @Tags         admin-orders
// @Produce      json
// @Param        statuses query string false "Statuses"
// @Param        agent_id query string false "Agent ID" format(uuid)
// @Param        card_design_id query string false "Card design ID" format(uuid)
// @Param        payment_status query string false "Payment status" Enums(pending, partial, paid, refunded)
// @Param        below_msp_only query bool false "Below MSPonly"
// @Param        direct_only query bool false "Direct only"
// @Param        search query string false "Search"
// @Success      200 {object} dto.Response{data=apporder.BoardResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/board [get]
func (h *BoardHandler) Load(c *gin.Context) {
	var q boardQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.filter()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	resp, err := h.boardService.Load(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApplyMoves handles PUT /admin/orders/board/moves. Each move is applied
// optimistically; a rejected move is rolled back and reported in its
// result without failing the others.
// @Summary      Apply card moves
// @Description  Refused moves are reported per card and put back in their column.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        request body apporder.BoardMovesRequest true "Moves and board filter"
// @Success      200 {object} dto.Response{data=apporder.BoardMovesResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/board/moves [put]
func (h *BoardHandler) ApplyMoves(c *gin.Context) {
	var req apporder.BoardMovesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.boardService.ApplyMoves(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

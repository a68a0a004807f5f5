package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appfinance "github.com/taponce/backend/internal/application/finance"
)

// ExpenseHandler handles the admin expense ledger
type ExpenseHandler struct {
	BaseHandler
	expenseService *appfinance.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *appfinance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// List handles GET /admin/expenses
// @Summary      List expenses
// @Tags         admin-expenses
// @Produce      json
// @Param        search query string false "Search"
// @Param        category query string false "Category" Enums(materials, printing, shipping, marketing, salary, rent, software, other)
// @Param        from_date query string false "From date (YYYY-MM-DD)"
// @Param        to_date query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Success      200 {object} dto.Response{data=[]appfinance.ExpenseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter appfinance.ExpenseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	if expenses == nil {
		expenses = []appfinance.ExpenseResponse{}
	}
	h.SuccessWithMeta(c, expenses, total, page, pageSize)
}

// Record handles POST /admin/expenses
// @Summary      Record an expense
// @Tags         admin-expenses
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.Response{data=appfinance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/expenses [post]
func (h *ExpenseHandler) Record(c *gin.Context) {
	adminID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appfinance.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.expenseService.Record(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

type expenseSummaryQuery struct {
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Summary handles GET /admin/expenses/summary
// @Summary      Expense totals per category
// @Tags         admin-expenses
// @Produce      json
// @Param        from_date query string false "From date (YYYY-MM-DD)"
// @Param        to_date query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=appfinance.ExpenseSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	var query expenseSummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.expenseService.Summary(c.Request.Context(), query.FromDate, query.ToDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

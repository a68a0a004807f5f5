// Package finance records operating expenses for the admin finance view.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/finance"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ExpenseService provides application-level expense operations
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// ===================== Expense Operations =====================

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	IncurredOn  time.Time       `json:"incurred_on"`
	RecordedBy  uuid.UUID       `json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,oneof=materials printing shipping marketing salary rent software other"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required,max=500"`
	IncurredOn  time.Time       `json:"incurred_on"`
}

// ExpenseListFilter defines filtering options for expense list queries
type ExpenseListFilter struct {
	Search   string     `form:"search"`
	Category string     `form:"category" binding:"omitempty,oneof=materials printing shipping marketing salary rent software other"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ExpenseSummary totals expenses per category over a period
type ExpenseSummary struct {
	From       *time.Time                 `json:"from,omitempty"`
	To         *time.Time                 `json:"to,omitempty"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	Total      decimal.Decimal            `json:"total"`
}

// Record stores a new expense. recordedBy comes from the JWT, never the body.
func (s *ExpenseService) Record(ctx context.Context, recordedBy uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := finance.NewExpense(
		finance.ExpenseCategory(req.Category),
		req.Amount,
		req.Description,
		req.IncurredOn,
		recordedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("category", expense.Category.String()),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	return toExpenseResponse(expense), nil
}

// GetByID gets an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List lists expenses, newest first
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := finance.ExpenseFilter{
		Filter:   shared.DefaultFilter(),
		Category: finance.ExpenseCategory(filter.Category),
		From:     filter.FromDate,
		To:       filter.ToDate,
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "incurred_on"
	domainFilter.OrderDir = "desc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = *toExpenseResponse(&expenses[i])
	}
	return responses, total, nil
}

// Summary totals expenses by category. Every known category is present,
// with zero when nothing was spent.
func (s *ExpenseService) Summary(ctx context.Context, from, to *time.Time) (*ExpenseSummary, error) {
	sums, err := s.expenseRepo.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &ExpenseSummary{
		From:       from,
		To:         to,
		ByCategory: make(map[string]decimal.Decimal, len(finance.AllExpenseCategories())),
		Total:      decimal.Zero,
	}
	for _, category := range finance.AllExpenseCategories() {
		amount, ok := sums[category]
		if !ok {
			amount = decimal.Zero
		}
		summary.ByCategory[category.String()] = amount
		summary.Total = summary.Total.Add(amount)
	}
	return summary, nil
}

func toExpenseResponse(e *finance.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category.String(),
		Amount:      e.Amount,
		Description: e.Description,
		IncurredOn:  e.IncurredOn,
		RecordedBy:  e.RecordedBy,
		CreatedAt:   e.CreatedAt,
	}
}

package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	shared.Filter
	Category ExpenseCategory
	From     *time.Time
	To       *time.Time
}

// ExpenseRepository defines persistence for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
	SumByCategory(ctx context.Context, from, to *time.Time) (map[ExpenseCategory]decimal.Decimal, error)
	Save(ctx context.Context, expense *Expense) error
}

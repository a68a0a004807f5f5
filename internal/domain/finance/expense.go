package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// ExpenseCategory represents the category of an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryMaterials ExpenseCategory = "materials"
	ExpenseCategoryPrinting  ExpenseCategory = "printing"
	ExpenseCategoryShipping  ExpenseCategory = "shipping"
	ExpenseCategoryMarketing ExpenseCategory = "marketing"
	ExpenseCategorySalary    ExpenseCategory = "salary"
	ExpenseCategoryRent      ExpenseCategory = "rent"
	ExpenseCategorySoftware  ExpenseCategory = "software"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

// AllExpenseCategories returns the known categories
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryMaterials, ExpenseCategoryPrinting, ExpenseCategoryShipping,
		ExpenseCategoryMarketing, ExpenseCategorySalary, ExpenseCategoryRent,
		ExpenseCategorySoftware, ExpenseCategoryOther,
	}
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	for _, known := range AllExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// Expense is a business expense recorded by an admin
type Expense struct {
	shared.BaseAggregateRoot
	Category    ExpenseCategory
	Amount      decimal.Decimal
	Description string
	IncurredOn  time.Time
	RecordedBy  uuid.UUID
}

// NewExpense creates a new expense record
func NewExpense(category ExpenseCategory, amount decimal.Decimal, description string, incurredOn time.Time, recordedBy uuid.UUID) (*Expense, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown expense category %q", category))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECORDER", "Recorded by cannot be empty")
	}
	if incurredOn.IsZero() {
		incurredOn = time.Now()
	}
	if incurredOn.After(time.Now().Add(24 * time.Hour)) {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date cannot be in the future")
	}

	y, m, d := incurredOn.Date()
	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Amount:            amount.Round(2),
		Description:       description,
		IncurredOn:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		RecordedBy:        recordedBy,
	}, nil
}

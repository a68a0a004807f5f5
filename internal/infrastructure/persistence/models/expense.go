package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/finance"
)

// ExpenseModel is the persistence model for finance.Expense
type ExpenseModel struct {
	AggregateModel
	Category    finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal         `gorm:"type:numeric(12,2);not null"`
	Description string                  `gorm:"type:varchar(500);not null"`
	IncurredOn  time.Time               `gorm:"type:date;not null;index"`
	RecordedBy  uuid.UUID               `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Category:          m.Category,
		Amount:            m.Amount,
		Description:       m.Description,
		IncurredOn:        m.IncurredOn.UTC(),
		RecordedBy:        m.RecordedBy,
	}
}

// FromDomain populates the model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Category = e.Category
	m.Amount = e.Amount
	m.Description = e.Description
	m.IncurredOn = e.IncurredOn
	m.RecordedBy = e.RecordedBy
}

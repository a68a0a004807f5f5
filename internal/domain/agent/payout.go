package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// PaymentMethod is how a payout reaches the agent
type PaymentMethod string

const (
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// IsValid checks if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// PayoutStatus represents the state of a payout
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// IsValid checks if the status is known
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusCompleted, PayoutStatusFailed:
		return true
	}
	return false
}

// Payout is money paid from an agent's available balance
type Payout struct {
	shared.BaseAggregateRoot
	AgentID       uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Status        PayoutStatus
	Reference     string
	Notes         string
	FailureReason string
	RequestedBy   *uuid.UUID
	ProcessedBy   *uuid.UUID
	ProcessedAt   *time.Time
}

// NewPayout creates a pending payout. The balance check happens against the
// agent aggregate, see Agent.CheckPayout.
func NewPayout(agentID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference, notes string) (*Payout, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	return &Payout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		Amount:            amount.Round(2),
		PaymentMethod:     method,
		Status:            PayoutStatusPending,
		Reference:         strings.TrimSpace(reference),
		Notes:             strings.TrimSpace(notes),
	}, nil
}

// Complete marks a pending payout as paid out
func (p *Payout) Complete(processedBy uuid.UUID, reference string) error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete payout in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PayoutStatusCompleted
	if ref := strings.TrimSpace(reference); ref != "" {
		p.Reference = ref
	}
	p.ProcessedBy = &processedBy
	p.ProcessedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPayoutCompletedEvent(p))
	return nil
}

// Fail marks a pending payout as failed. The balance is untouched.
func (p *Payout) Fail(processedBy uuid.UUID, reason string) error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payout in %s status", p.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}
	now := time.Now()
	p.Status = PayoutStatusFailed
	p.FailureReason = strings.TrimSpace(reason)
	p.ProcessedBy = &processedBy
	p.ProcessedAt = &now
	p.UpdatedAt = now
	return nil
}

// IsPending returns true while the payout awaits processing
func (p *Payout) IsPending() bool {
	return p.Status == PayoutStatusPending
}

package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// AgentStatus represents the lifecycle of an agent account
type AgentStatus string

const (
	AgentStatusPending   AgentStatus = "pending"
	AgentStatusActive    AgentStatus = "active"
	AgentStatusSuspended AgentStatus = "suspended"
)

// IsValid checks if the status is known
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentStatusPending, AgentStatusActive, AgentStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of AgentStatus
func (s AgentStatus) String() string {
	return string(s)
}

// Agent is a reseller who submits orders and earns commission.
// The running totals are mutated only through the Credit/Reverse/Debit methods.
type Agent struct {
	shared.BaseAggregateRoot
	ProfileID         uuid.UUID
	ReferralCode      string
	ParentAgentID     *uuid.UUID
	Status            AgentStatus
	City              string
	UPIID             string
	BankAccountName   string
	BankAccountNumber string
	BankIFSC          string
	TotalSales        decimal.Decimal
	TotalEarnings     decimal.Decimal
	AvailableBalance  decimal.Decimal
	ApprovedAt        *time.Time
}

// NewAgent creates a pending agent. parentID is the recruiting agent, if any.
func NewAgent(profileID uuid.UUID, referralCode string, parentID *uuid.UUID, city string) (*Agent, error) {
	if profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile ID cannot be empty")
	}
	code := NormalizeReferralCode(referralCode)
	if err := ValidateReferralCode(code); err != nil {
		return nil, err
	}

	a := &Agent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProfileID:         profileID,
		ReferralCode:      code,
		ParentAgentID:     parentID,
		Status:            AgentStatusPending,
		City:              strings.TrimSpace(city),
		TotalSales:        decimal.Zero,
		TotalEarnings:     decimal.Zero,
		AvailableBalance:  decimal.Zero,
	}

	a.AddDomainEvent(NewAgentAppliedEvent(a))
	return a, nil
}

// ChangeStatus moves the agent between pending, active and suspended
func (a *Agent) ChangeStatus(status AgentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown agent status %q", status))
	}
	if status == a.Status {
		return nil
	}
	if status == AgentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Agent cannot return to pending")
	}

	old := a.Status
	a.Status = status
	now := time.Now()
	if status == AgentStatusActive && a.ApprovedAt == nil {
		a.ApprovedAt = &now
	}
	a.UpdatedAt = now
	a.AddDomainEvent(NewAgentStatusChangedEvent(a, old))
	return nil
}

// SetParent assigns the recruiting agent
func (a *Agent) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == a.ID {
		return shared.NewDomainError("INVALID_PARENT", "Agent cannot refer itself")
	}
	a.ParentAgentID = parentID
	a.UpdatedAt = time.Now()
	return nil
}

// PayoutDetails holds where payouts go
type PayoutDetails struct {
	UPIID             string
	BankAccountName   string
	BankAccountNumber string
	BankIFSC          string
}

// SetPayoutDetails replaces the payout destination
func (a *Agent) SetPayoutDetails(d PayoutDetails) {
	a.UPIID = strings.TrimSpace(d.UPIID)
	a.BankAccountName = strings.TrimSpace(d.BankAccountName)
	a.BankAccountNumber = strings.TrimSpace(d.BankAccountNumber)
	a.BankIFSC = strings.ToUpper(strings.TrimSpace(d.BankIFSC))
	a.UpdatedAt = time.Now()
}

// SetCity updates the agent's city
func (a *Agent) SetCity(city string) {
	a.City = strings.TrimSpace(city)
	a.UpdatedAt = time.Now()
}

// CreditSale records an approved sale and its commission
func (a *Agent) CreditSale(salePrice, commission decimal.Decimal) error {
	if salePrice.IsNegative() || commission.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credited amounts cannot be negative")
	}
	a.TotalSales = a.TotalSales.Add(salePrice)
	a.TotalEarnings = a.TotalEarnings.Add(commission)
	a.AvailableBalance = a.AvailableBalance.Add(commission)
	a.UpdatedAt = time.Now()
	return nil
}

// ReverseSale takes back a previously credited sale. The balance may go
// negative when the commission was already paid out.
func (a *Agent) ReverseSale(salePrice, commission decimal.Decimal) error {
	if salePrice.IsNegative() || commission.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversed amounts cannot be negative")
	}
	a.TotalSales = a.TotalSales.Sub(salePrice)
	a.TotalEarnings = a.TotalEarnings.Sub(commission)
	a.AvailableBalance = a.AvailableBalance.Sub(commission)
	a.UpdatedAt = time.Now()
	return nil
}

// CreditOverride adds a sub-agent override to this agent's earnings
func (a *Agent) CreditOverride(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Override cannot be negative")
	}
	a.TotalEarnings = a.TotalEarnings.Add(amount)
	a.AvailableBalance = a.AvailableBalance.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// ReverseOverride takes back a credited override
func (a *Agent) ReverseOverride(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Override cannot be negative")
	}
	a.TotalEarnings = a.TotalEarnings.Sub(amount)
	a.AvailableBalance = a.AvailableBalance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// CheckPayout validates a payout amount against the available balance
func (a *Agent) CheckPayout(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}
	if amount.GreaterThan(a.AvailableBalance) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Payout of %s exceeds available balance %s", amount.StringFixed(2), a.AvailableBalance.StringFixed(2)))
	}
	return nil
}

// DebitPayout removes a completed payout from the available balance
func (a *Agent) DebitPayout(amount decimal.Decimal) error {
	if err := a.CheckPayout(amount); err != nil {
		return err
	}
	a.AvailableBalance = a.AvailableBalance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the agent may submit orders
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

// HasParent returns true if the agent was recruited by another agent
func (a *Agent) HasParent() bool {
	return a.ParentAgentID != nil
}

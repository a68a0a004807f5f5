package agent

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeAgent  = "Agent"
	AggregateTypePayout = "Payout"
)

// Event type constants
const (
	EventTypeAgentApplied       = "AgentApplied"
	EventTypeAgentStatusChanged = "AgentStatusChanged"
	EventTypePayoutCompleted    = "PayoutCompleted"
)

// AgentAppliedEvent is raised when a new agent signs up
type AgentAppliedEvent struct {
	shared.BaseDomainEvent
	AgentID       uuid.UUID  `json:"agent_id"`
	ProfileID     uuid.UUID  `json:"profile_id"`
	ReferralCode  string     `json:"referral_code"`
	ParentAgentID *uuid.UUID `json:"parent_agent_id,omitempty"`
}

// NewAgentAppliedEvent creates a new AgentAppliedEvent
func NewAgentAppliedEvent(a *Agent) *AgentAppliedEvent {
	return &AgentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentApplied, AggregateTypeAgent, a.ID),
		AgentID:         a.ID,
		ProfileID:       a.ProfileID,
		ReferralCode:    a.ReferralCode,
		ParentAgentID:   a.ParentAgentID,
	}
}

// AgentStatusChangedEvent is raised when an admin approves or suspends an agent
type AgentStatusChangedEvent struct {
	shared.BaseDomainEvent
	AgentID   uuid.UUID   `json:"agent_id"`
	ProfileID uuid.UUID   `json:"profile_id"`
	OldStatus AgentStatus `json:"old_status"`
	NewStatus AgentStatus `json:"new_status"`
}

// NewAgentStatusChangedEvent creates a new AgentStatusChangedEvent
func NewAgentStatusChangedEvent(a *Agent, old AgentStatus) *AgentStatusChangedEvent {
	return &AgentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentStatusChanged, AggregateTypeAgent, a.ID),
		AgentID:         a.ID,
		ProfileID:       a.ProfileID,
		OldStatus:       old,
		NewStatus:       a.Status,
	}
}

// PayoutCompletedEvent is raised when money leaves an agent's balance
type PayoutCompletedEvent struct {
	shared.BaseDomainEvent
	PayoutID      uuid.UUID       `json:"payout_id"`
	AgentID       uuid.UUID       `json:"agent_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewPayoutCompletedEvent creates a new PayoutCompletedEvent
func NewPayoutCompletedEvent(p *Payout) *PayoutCompletedEvent {
	return &PayoutCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutCompleted, AggregateTypePayout, p.ID),
		PayoutID:        p.ID,
		AgentID:         p.AgentID,
		Amount:          p.Amount,
		PaymentMethod:   p.PaymentMethod,
	}
}

package agent

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// AgentRepository defines the interface for agent persistence
type AgentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*Agent, error)
	FindByReferralCode(ctx context.Context, code string) (*Agent, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Agent, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindSubAgents(ctx context.Context, parentID uuid.UUID) ([]Agent, error)
	// Save inserts or updates. A duplicate referral code yields shared.ErrAlreadyExists.
	Save(ctx context.Context, a *Agent) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, a *Agent) error
}

// PayoutFilter narrows payout listings
type PayoutFilter struct {
	shared.Filter
	AgentID *uuid.UUID
	Status  PayoutStatus
}

// PayoutRepository defines the interface for payout persistence
type PayoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	FindAll(ctx context.Context, filter PayoutFilter) ([]Payout, error)
	Count(ctx context.Context, filter PayoutFilter) (int64, error)
	Save(ctx context.Context, p *Payout) error
}

// BalanceLedger derives balance components from history for audits
type BalanceLedger interface {
	CreditedCommission(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error)
	CreditedOverride(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error)
	CompletedPayouts(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error)
}

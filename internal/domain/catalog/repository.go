package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// CardDesignRepository defines the interface for design persistence
type CardDesignRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CardDesign, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CardDesign, error)
	FindActive(ctx context.Context) ([]CardDesign, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, d *CardDesign) error
}

// AgentMspRepository stores per-agent MSP overrides, unique per (agent, design)
type AgentMspRepository interface {
	Find(ctx context.Context, agentID, designID uuid.UUID) (*AgentMsp, error)
	FindByAgent(ctx context.Context, agentID uuid.UUID) ([]AgentMsp, error)
	// Upsert inserts or replaces the override for the pair
	Upsert(ctx context.Context, m *AgentMsp) error
	Delete(ctx context.Context, agentID, designID uuid.UUID) error
}

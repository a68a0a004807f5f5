package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindBySlug(ctx context.Context, slug string) (*Customer, error)
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, c *Customer) error
}

package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByClaimToken(ctx context.Context, token string) (*Profile, error)
	FindByRole(ctx context.Context, role Role) ([]Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, p *Profile) error
}

package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// NotificationRepository defines persistence for notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, error)
	CountByProfile(ctx context.Context, profileID uuid.UUID, unreadOnly bool) (int64, error)
	Save(ctx context.Context, n *Notification) error
	SaveBatch(ctx context.Context, ns []*Notification) error
}

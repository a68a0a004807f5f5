// Package notification serves the in-app notification inbox and creates
// notifications from domain events.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/notification"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID                     `json:"id"`
	Type      notification.NotificationType `json:"type"`
	Title     string                        `json:"title"`
	Message   string                        `json:"message"`
	Link      string                        `json:"link,omitempty"`
	Read      bool                          `json:"read"`
	ReadAt    *time.Time                    `json:"read_at,omitempty"`
	CreatedAt time.Time                     `json:"created_at"`
}

// ListFilter represents the inbox query
type ListFilter struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Inbox is one page of notifications plus the unread badge count
type Inbox struct {
	Items  []NotificationResponse `json:"items"`
	Total  int64                  `json:"total"`
	Unread int64                  `json:"unread"`
}

// NotificationService handles the notification inbox
type NotificationService struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, profileID uuid.UUID, filter ListFilter) (*Inbox, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	items, err := s.repo.FindByProfile(ctx, profileID, filter.UnreadOnly, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByProfile(ctx, profileID, filter.UnreadOnly)
	if err != nil {
		return nil, err
	}
	unread := total
	if !filter.UnreadOnly {
		if unread, err = s.repo.CountByProfile(ctx, profileID, true); err != nil {
			return nil, err
		}
	}

	inbox := &Inbox{
		Items:  make([]NotificationResponse, len(items)),
		Total:  total,
		Unread: unread,
	}
	for i := range items {
		inbox.Items[i] = toResponse(&items[i])
	}
	return inbox, nil
}

// MarkRead marks one of the caller's notifications as read. Another
// profile's notification is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, profileID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ProfileID != profileID {
		return nil, shared.ErrNotFound
	}
	if n.IsRead() {
		resp := toResponse(n)
		return &resp, nil
	}

	n.MarkRead()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := toResponse(n)
	return &resp, nil
}

// Notify stores a notification for each profile
func (s *NotificationService) Notify(ctx context.Context, profileIDs []uuid.UUID, typ notification.NotificationType, title, message, link string) error {
	batch := make([]*notification.Notification, 0, len(profileIDs))
	for _, profileID := range profileIDs {
		n, err := notification.NewNotification(profileID, typ, title, message, link)
		if err != nil {
			return err
		}
		batch = append(batch, n)
	}
	if err := s.repo.SaveBatch(ctx, batch); err != nil {
		return err
	}
	s.logger.Debug("Notifications created", zap.String("type", string(typ)), zap.Int("count", len(batch)))
	return nil
}

func toResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// NotificationType groups notifications for the UI
type NotificationType string

const (
	TypeOrderSubmitted     NotificationType = "order_submitted"
	TypeOrderStatusChanged NotificationType = "order_status_changed"
	TypeAgentApplied       NotificationType = "agent_applied"
	TypePayoutCompleted    NotificationType = "payout_completed"
	TypeSystem             NotificationType = "system"
)

// Notification is an in-app message for one profile
type Notification struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Type      NotificationType
	Title     string
	Message   string
	Link      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// NewNotification creates an unread notification
func NewNotification(profileID uuid.UUID, typ NotificationType, title, message, link string) (*Notification, error) {
	if profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if typ == "" {
		typ = TypeSystem
	}
	return &Notification{
		ID:        uuid.New(),
		ProfileID: profileID,
		Type:      typ,
		Title:     title,
		Message:   strings.TrimSpace(message),
		Link:      link,
		CreatedAt: time.Now(),
	}, nil
}

// MarkRead stamps the read time once
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
}

// IsRead returns true once the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

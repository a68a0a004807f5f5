package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notification.Notification.
// Notifications are append-only so there is no version column.
type NotificationModel struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey"`
	ProfileID uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type      notification.NotificationType `gorm:"type:varchar(40);not null"`
	Title     string                        `gorm:"type:varchar(200);not null"`
	Message   string                        `gorm:"type:text;not null;default:''"`
	Link      string                        `gorm:"type:varchar(500);not null;default:''"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		ID:        m.ID,
		ProfileID: m.ProfileID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.ID = n.ID
	m.ProfileID = n.ProfileID
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.Link = n.Link
	m.ReadAt = n.ReadAt
	m.CreatedAt = n.CreatedAt
}

// AllModels lists every model for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&ProfileModel{},
		&AgentModel{},
		&CustomerModel{},
		&CardDesignModel{},
		&AgentMspModel{},
		&OrderModel{},
		&PayoutModel{},
		&ExpenseModel{},
		&NotificationModel{},
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// BaseModel maps the domain BaseEntity
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates the model from a domain aggregate root
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// ToDomainAggregateRoot builds the domain aggregate root
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package models

import (
	"time"

	"github.com/taponce/backend/internal/domain/identity"
)

// ProfileModel is the persistence model for identity.Profile
type ProfileModel struct {
	AggregateModel
	Email               string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName            string        `gorm:"type:varchar(200);not null"`
	Phone               string        `gorm:"type:varchar(32);not null;default:''"`
	Role                identity.Role `gorm:"type:varchar(20);not null;index"`
	PasswordHash        string        `gorm:"type:varchar(255);not null;default:''"`
	ClaimToken          *string       `gorm:"type:varchar(64);uniqueIndex"`
	ClaimTokenExpiresAt *time.Time
	ClaimedAt           *time.Time
	LastLoginAt         *time.Time
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Email:               m.Email,
		FullName:            m.FullName,
		Phone:               m.Phone,
		Role:                m.Role,
		PasswordHash:        m.PasswordHash,
		ClaimToken:          derefString(m.ClaimToken),
		ClaimTokenExpiresAt: m.ClaimTokenExpiresAt,
		ClaimedAt:           m.ClaimedAt,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Email = p.Email
	m.FullName = p.FullName
	m.Phone = p.Phone
	m.Role = p.Role
	m.PasswordHash = p.PasswordHash
	m.ClaimToken = nullableString(p.ClaimToken)
	m.ClaimTokenExpiresAt = p.ClaimTokenExpiresAt
	m.ClaimedAt = p.ClaimedAt
	m.LastLoginAt = p.LastLoginAt
}

// ProfileModelFromDomain creates a new ProfileModel from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}

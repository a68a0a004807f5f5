package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// CustomerStatus represents whether the public profile is live
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusPending   CustomerStatus = "pending"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

// IsValid checks if the status is known
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusPending, CustomerStatusSuspended:
		return true
	}
	return false
}

// SocialLinks are the optional social profile URLs shown on the card page
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// Customer owns an NFC card and the public profile it points to
type Customer struct {
	shared.BaseAggregateRoot
	ProfileID   uuid.UUID
	Slug        string
	FullName    string
	Profession  string
	Designation string
	Company     string
	Phone       string
	Email       string
	WhatsApp    string
	Website     string
	Address     string
	Bio         string
	PhotoURL    string
	LogoURL     string
	Social      SocialLinks
	Theme       string
	Status      CustomerStatus
}

// NewCustomer creates a pending customer with a public slug
func NewCustomer(profileID uuid.UUID, slug, fullName, phone, email, profession string) (*Customer, error) {
	if profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile ID cannot be empty")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}

	profession = NormalizeProfession(profession)
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProfileID:         profileID,
		Slug:              slug,
		FullName:          fullName,
		Phone:             strings.TrimSpace(phone),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Profession:        profession,
		Theme:             ThemeFor(profession).Key,
		Status:            CustomerStatusPending,
	}, nil
}

// ProfileDetails is the editable part of the public profile
type ProfileDetails struct {
	FullName    string
	Profession  string
	Designation string
	Company     string
	Phone       string
	Email       string
	WhatsApp    string
	Website     string
	Address     string
	Bio         string
	PhotoURL    string
	LogoURL     string
	Social      SocialLinks
	Theme       string
}

// UpdateProfile replaces the editable fields
func (c *Customer) UpdateProfile(d ProfileDetails) error {
	name := strings.TrimSpace(d.FullName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(d.Bio) > 1000 {
		return shared.NewDomainError("INVALID_BIO", "Bio cannot exceed 1000 characters")
	}

	c.FullName = name
	c.Profession = NormalizeProfession(d.Profession)
	c.Designation = strings.TrimSpace(d.Designation)
	c.Company = strings.TrimSpace(d.Company)
	c.Phone = strings.TrimSpace(d.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(d.Email))
	c.WhatsApp = strings.TrimSpace(d.WhatsApp)
	c.Website = strings.TrimSpace(d.Website)
	c.Address = strings.TrimSpace(d.Address)
	c.Bio = strings.TrimSpace(d.Bio)
	c.PhotoURL = strings.TrimSpace(d.PhotoURL)
	c.LogoURL = strings.TrimSpace(d.LogoURL)
	c.Social = d.Social
	c.Theme = ThemeFor(c.Profession).Key
	if d.Theme != "" {
		if _, ok := themes[d.Theme]; !ok {
			return shared.NewDomainError("INVALID_THEME", fmt.Sprintf("Unknown theme %q", d.Theme))
		}
		c.Theme = d.Theme
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetStatus changes the profile visibility
func (c *Customer) SetStatus(status CustomerStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown customer status %q", status))
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

// Activate makes the profile public, used when the account is claimed
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
}

// IsPublic returns false for suspended profiles
func (c *Customer) IsPublic() bool {
	return c.Status != CustomerStatusSuspended
}

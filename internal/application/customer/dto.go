package customer

import (
	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/customer"
)

// PublicProfileResponse is what GET /profiles/:slug renders
type PublicProfileResponse struct {
	Slug        string                   `json:"slug"`
	FullName    string                   `json:"full_name"`
	Profession  string                   `json:"profession"`
	Designation string                   `json:"designation,omitempty"`
	Company     string                   `json:"company,omitempty"`
	Phone       string                   `json:"phone,omitempty"`
	Email       string                   `json:"email,omitempty"`
	Website     string                   `json:"website,omitempty"`
	Address     string                   `json:"address,omitempty"`
	Bio         string                   `json:"bio,omitempty"`
	PhotoURL    string                   `json:"photo_url,omitempty"`
	LogoURL     string                   `json:"logo_url,omitempty"`
	Social      customer.SocialLinks     `json:"social"`
	Theme       customer.Theme           `json:"theme"`
	Actions     []customer.ContactAction `json:"actions"`
	ProfileURL  string                   `json:"profile_url"`
	VCardURL    string                   `json:"vcard_url"`
	QRURL       string                   `json:"qr_url"`
}

// UpdateProfileRequest is the body of PUT /me/profile
type UpdateProfileRequest struct {
	FullName    string               `json:"full_name" binding:"required,min=1,max=200"`
	Profession  string               `json:"profession" binding:"max=50"`
	Designation string               `json:"designation" binding:"max=100"`
	Company     string               `json:"company" binding:"max=200"`
	Phone       string               `json:"phone" binding:"max=32"`
	Email       string               `json:"email" binding:"omitempty,email,max=254"`
	WhatsApp    string               `json:"whatsapp" binding:"max=32"`
	Website     string               `json:"website" binding:"max=500"`
	Address     string               `json:"address" binding:"max=500"`
	Bio         string               `json:"bio" binding:"max=1000"`
	PhotoURL    string               `json:"photo_url" binding:"max=500"`
	LogoURL     string               `json:"logo_url" binding:"max=500"`
	Social      customer.SocialLinks `json:"social"`
	Theme       string               `json:"theme" binding:"max=30"`
}

// OwnProfileResponse is the editable view of the caller's own profile
type OwnProfileResponse struct {
	ID     uuid.UUID               `json:"id"`
	Status customer.CustomerStatus `json:"status"`
	PublicProfileResponse
}

// VCardFile is a rendered vCard ready to download
type VCardFile struct {
	FileName string
	Content  string
}

package models

import (
	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for customer.Customer
type CustomerModel struct {
	AggregateModel
	ProfileID   uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	Slug        string                  `gorm:"type:varchar(80);not null;uniqueIndex"`
	FullName    string                  `gorm:"type:varchar(200);not null"`
	Profession  string                  `gorm:"type:varchar(60);not null;default:''"`
	Designation string                  `gorm:"type:varchar(120);not null;default:''"`
	Company     string                  `gorm:"type:varchar(200);not null;default:''"`
	Phone       string                  `gorm:"type:varchar(32);not null;default:'';index"`
	Email       string                  `gorm:"type:varchar(255);not null;default:''"`
	WhatsApp    string                  `gorm:"column:whatsapp;type:varchar(32);not null;default:''"`
	Website     string                  `gorm:"type:varchar(255);not null;default:''"`
	Address     string                  `gorm:"type:text;not null;default:''"`
	Bio         string                  `gorm:"type:text;not null;default:''"`
	PhotoURL    string                  `gorm:"column:photo_url;type:varchar(500);not null;default:''"`
	LogoURL     string                  `gorm:"column:logo_url;type:varchar(500);not null;default:''"`
	Social      customer.SocialLinks    `gorm:"type:jsonb;serializer:json;not null"`
	Theme       string                  `gorm:"type:varchar(40);not null;default:'classic'"`
	Status      customer.CustomerStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProfileID:         m.ProfileID,
		Slug:              m.Slug,
		FullName:          m.FullName,
		Profession:        m.Profession,
		Designation:       m.Designation,
		Company:           m.Company,
		Phone:             m.Phone,
		Email:             m.Email,
		WhatsApp:          m.WhatsApp,
		Website:           m.Website,
		Address:           m.Address,
		Bio:               m.Bio,
		PhotoURL:          m.PhotoURL,
		LogoURL:           m.LogoURL,
		Social:            m.Social,
		Theme:             m.Theme,
		Status:            m.Status,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ProfileID = c.ProfileID
	m.Slug = c.Slug
	m.FullName = c.FullName
	m.Profession = c.Profession
	m.Designation = c.Designation
	m.Company = c.Company
	m.Phone = c.Phone
	m.Email = c.Email
	m.WhatsApp = c.WhatsApp
	m.Website = c.Website
	m.Address = c.Address
	m.Bio = c.Bio
	m.PhotoURL = c.PhotoURL
	m.LogoURL = c.LogoURL
	m.Social = c.Social
	m.Theme = c.Theme
	m.Status = c.Status
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/catalog"
)

// CardDesignModel is the persistence model for catalog.CardDesign
type CardDesignModel struct {
	AggregateModel
	Name        string               `gorm:"type:varchar(120);not null"`
	Description string               `gorm:"type:text;not null;default:''"`
	Material    string               `gorm:"type:varchar(60);not null;default:''"`
	ImageURL    string               `gorm:"column:image_url;type:varchar(500);not null;default:''"`
	BaseMSP     decimal.Decimal      `gorm:"column:base_msp;type:numeric(12,2);not null"`
	Status      catalog.DesignStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	TotalSales  int64                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CardDesignModel) TableName() string {
	return "card_designs"
}

// ToDomain converts the model to a domain CardDesign
func (m *CardDesignModel) ToDomain() *catalog.CardDesign {
	return &catalog.CardDesign{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Material:          m.Material,
		ImageURL:          m.ImageURL,
		BaseMSP:           m.BaseMSP,
		Status:            m.Status,
		TotalSales:        m.TotalSales,
	}
}

// FromDomain populates the model from a domain CardDesign
func (m *CardDesignModel) FromDomain(d *catalog.CardDesign) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Name = d.Name
	m.Description = d.Description
	m.Material = d.Material
	m.ImageURL = d.ImageURL
	m.BaseMSP = d.BaseMSP
	m.Status = d.Status
	m.TotalSales = d.TotalSales
}

// AgentMspModel is the persistence model for catalog.AgentMsp
type AgentMspModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AgentID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_agent_msps_agent_design"`
	CardDesignID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_agent_msps_agent_design"`
	MSP          decimal.Decimal `gorm:"column:msp;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AgentMspModel) TableName() string {
	return "agent_msps"
}

// ToDomain converts the model to a domain AgentMsp
func (m *AgentMspModel) ToDomain() *catalog.AgentMsp {
	return &catalog.AgentMsp{
		ID:           m.ID,
		AgentID:      m.AgentID,
		CardDesignID: m.CardDesignID,
		MSP:          m.MSP,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain AgentMsp
func (m *AgentMspModel) FromDomain(a *catalog.AgentMsp) {
	m.ID = a.ID
	m.AgentID = a.AgentID
	m.CardDesignID = a.CardDesignID
	m.MSP = a.MSP
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

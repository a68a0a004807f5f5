package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// DesignStatus represents catalog visibility of a design
type DesignStatus string

const (
	DesignStatusActive   DesignStatus = "active"
	DesignStatusInactive DesignStatus = "inactive"
)

// IsValid checks if the status is known
func (s DesignStatus) IsValid() bool {
	return s == DesignStatusActive || s == DesignStatusInactive
}

// CardDesign is a catalog entry agents sell from
type CardDesign struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Material    string
	ImageURL    string
	BaseMSP     decimal.Decimal
	Status      DesignStatus
	TotalSales  int64
}

// NewCardDesign creates an active design
func NewCardDesign(name, material string, baseMSP decimal.Decimal) (*CardDesign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Design name cannot be empty")
	}
	if len(name) > 120 {
		return nil, shared.NewDomainError("INVALID_NAME", "Design name cannot exceed 120 characters")
	}
	if err := validateMSP(baseMSP); err != nil {
		return nil, err
	}

	return &CardDesign{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Material:          strings.TrimSpace(material),
		BaseMSP:           baseMSP,
		Status:            DesignStatusActive,
	}, nil
}

// Update changes the descriptive fields
func (d *CardDesign) Update(name, description, material, imageURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Design name cannot be empty")
	}
	d.Name = name
	d.Description = strings.TrimSpace(description)
	d.Material = strings.TrimSpace(material)
	d.ImageURL = strings.TrimSpace(imageURL)
	d.UpdatedAt = time.Now()
	return nil
}

// SetBaseMSP changes the default minimum selling price
func (d *CardDesign) SetBaseMSP(msp decimal.Decimal) error {
	if err := validateMSP(msp); err != nil {
		return err
	}
	d.BaseMSP = msp
	d.UpdatedAt = time.Now()
	return nil
}

// SetStatus activates or deactivates the design
func (d *CardDesign) SetStatus(status DesignStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown design status %q", status))
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}

// RecordSale bumps the aggregate sales counter
func (d *CardDesign) RecordSale() {
	d.TotalSales++
	d.UpdatedAt = time.Now()
}

// ReverseSale undoes RecordSale, never below zero
func (d *CardDesign) ReverseSale() {
	if d.TotalSales > 0 {
		d.TotalSales--
	}
	d.UpdatedAt = time.Now()
}

// IsActive returns true if the design can be ordered
func (d *CardDesign) IsActive() bool {
	return d.Status == DesignStatusActive
}

// AgentMsp overrides a design's minimum selling price for one agent
type AgentMsp struct {
	ID           uuid.UUID
	AgentID      uuid.UUID
	CardDesignID uuid.UUID
	MSP          decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAgentMsp creates a per-agent override
func NewAgentMsp(agentID, designID uuid.UUID, msp decimal.Decimal) (*AgentMsp, error) {
	if agentID == uuid.Nil || designID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Agent and design are required")
	}
	if err := validateMSP(msp); err != nil {
		return nil, err
	}
	now := time.Now()
	return &AgentMsp{
		ID:           uuid.New(),
		AgentID:      agentID,
		CardDesignID: designID,
		MSP:          msp,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ResolveMSP picks the agent's override when present, else the design's base MSP.
func ResolveMSP(design *CardDesign, override *AgentMsp) decimal.Decimal {
	if override != nil && override.CardDesignID == design.ID {
		return override.MSP
	}
	return design.BaseMSP
}

func validateMSP(msp decimal.Decimal) error {
	if msp.IsNegative() {
		return shared.NewDomainError("INVALID_MSP", "Minimum selling price cannot be negative")
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/agent"
)

// AgentModel is the persistence model for agent.Agent
type AgentModel struct {
	AggregateModel
	ProfileID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	ReferralCode      string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	ParentAgentID     *uuid.UUID        `gorm:"type:uuid;index"`
	Status            agent.AgentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	City              string            `gorm:"type:varchar(100);not null;default:''"`
	UPIID             string            `gorm:"column:upi_id;type:varchar(100);not null;default:''"`
	BankAccountName   string            `gorm:"type:varchar(200);not null;default:''"`
	BankAccountNumber string            `gorm:"type:varchar(50);not null;default:''"`
	BankIFSC          string            `gorm:"column:bank_ifsc;type:varchar(20);not null;default:''"`
	TotalSales        decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	TotalEarnings     decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	AvailableBalance  decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ApprovedAt        *time.Time
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// ToDomain converts the model to a domain Agent
func (m *AgentModel) ToDomain() *agent.Agent {
	return &agent.Agent{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProfileID:         m.ProfileID,
		ReferralCode:      m.ReferralCode,
		ParentAgentID:     m.ParentAgentID,
		Status:            m.Status,
		City:              m.City,
		UPIID:             m.UPIID,
		BankAccountName:   m.BankAccountName,
		BankAccountNumber: m.BankAccountNumber,
		BankIFSC:          m.BankIFSC,
		TotalSales:        m.TotalSales,
		TotalEarnings:     m.TotalEarnings,
		AvailableBalance:  m.AvailableBalance,
		ApprovedAt:        m.ApprovedAt,
	}
}

// FromDomain populates the model from a domain Agent
func (m *AgentModel) FromDomain(a *agent.Agent) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.ProfileID = a.ProfileID
	m.ReferralCode = a.ReferralCode
	m.ParentAgentID = a.ParentAgentID
	m.Status = a.Status
	m.City = a.City
	m.UPIID = a.UPIID
	m.BankAccountName = a.BankAccountName
	m.BankAccountNumber = a.BankAccountNumber
	m.BankIFSC = a.BankIFSC
	m.TotalSales = a.TotalSales
	m.TotalEarnings = a.TotalEarnings
	m.AvailableBalance = a.AvailableBalance
	m.ApprovedAt = a.ApprovedAt
}

// AgentModelFromDomain creates a new AgentModel from a domain Agent
func AgentModelFromDomain(a *agent.Agent) *AgentModel {
	m := &AgentModel{}
	m.FromDomain(a)
	return m
}

// PayoutModel is the persistence model for agent.Payout
type PayoutModel struct {
	AggregateModel
	AgentID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	PaymentMethod agent.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        agent.PayoutStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	Reference     string              `gorm:"type:varchar(120);not null;default:''"`
	Notes         string              `gorm:"type:text;not null;default:''"`
	FailureReason string              `gorm:"type:text;not null;default:''"`
	RequestedBy   *uuid.UUID          `gorm:"type:uuid"`
	ProcessedBy   *uuid.UUID          `gorm:"type:uuid"`
	ProcessedAt   *time.Time
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the model to a domain Payout
func (m *PayoutModel) ToDomain() *agent.Payout {
	return &agent.Payout{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		Amount:            m.Amount,
		PaymentMethod:     m.PaymentMethod,
		Status:            m.Status,
		Reference:         m.Reference,
		Notes:             m.Notes,
		FailureReason:     m.FailureReason,
		RequestedBy:       m.RequestedBy,
		ProcessedBy:       m.ProcessedBy,
		ProcessedAt:       m.ProcessedAt,
	}
}

// FromDomain populates the model from a domain Payout
func (m *PayoutModel) FromDomain(p *agent.Payout) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.AgentID = p.AgentID
	m.Amount = p.Amount
	m.PaymentMethod = p.PaymentMethod
	m.Status = p.Status
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.FailureReason = p.FailureReason
	m.RequestedBy = p.RequestedBy
	m.ProcessedBy = p.ProcessedBy
	m.ProcessedAt = p.ProcessedAt
}

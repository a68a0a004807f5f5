package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/order"
)

// OrderModel is the persistence model for order.Order
type OrderModel struct {
	AggregateModel
	OrderNumber        string                `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	AgentID            *uuid.UUID            `gorm:"type:uuid;index"`
	CardDesignID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	MSPAtOrder         decimal.Decimal       `gorm:"column:msp_at_order;type:numeric(12,2);not null"`
	SalePrice          decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	CommissionAmount   decimal.Decimal       `gorm:"type:numeric(12,2);not null;default:0"`
	OverrideCommission decimal.Decimal       `gorm:"type:numeric(12,2);not null;default:0"`
	Status             order.OrderStatus     `gorm:"type:varchar(30);not null;default:'pending_approval';index"`
	PaymentStatus      order.PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	IsDirectSale       bool                  `gorm:"not null;default:false"`
	IsBelowMSP         bool                  `gorm:"column:is_below_msp;not null;default:false"`
	CommissionCredited bool                  `gorm:"not null;default:false"`
	OverrideAgentID    *uuid.UUID            `gorm:"type:uuid;index"`
	ShippingAddress    order.ShippingAddress `gorm:"type:jsonb;serializer:json;not null"`
	Personalization    map[string]string     `gorm:"type:jsonb;serializer:json;not null"`
	TrackingNumber     string                `gorm:"type:varchar(100);not null;default:''"`
	RejectionReason    string                `gorm:"type:text;not null;default:''"`
	CancellationReason string                `gorm:"type:text;not null;default:''"`
	Notes              string                `gorm:"type:text;not null;default:''"`
	PrintProofKey      string                `gorm:"type:varchar(500);not null;default:''"`
	ApprovedAt         *time.Time
	PrintingAt         *time.Time
	PrintedAt          *time.Time
	ReadyToShipAt      *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	PaidAt             *time.Time
	RejectedAt         *time.Time
	CancelledAt        *time.Time
	ReturnedAt         *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	personalization := m.Personalization
	if personalization == nil {
		personalization = map[string]string{}
	}
	return &order.Order{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		OrderNumber:        m.OrderNumber,
		CustomerID:         m.CustomerID,
		AgentID:            m.AgentID,
		CardDesignID:       m.CardDesignID,
		MSPAtOrder:         m.MSPAtOrder,
		SalePrice:          m.SalePrice,
		CommissionAmount:   m.CommissionAmount,
		OverrideCommission: m.OverrideCommission,
		Status:             m.Status,
		PaymentStatus:      m.PaymentStatus,
		IsDirectSale:       m.IsDirectSale,
		IsBelowMSP:         m.IsBelowMSP,
		CommissionCredited: m.CommissionCredited,
		OverrideAgentID:    m.OverrideAgentID,
		ShippingAddress:    m.ShippingAddress,
		Personalization:    personalization,
		TrackingNumber:     m.TrackingNumber,
		RejectionReason:    m.RejectionReason,
		CancellationReason: m.CancellationReason,
		Notes:              m.Notes,
		PrintProofKey:      m.PrintProofKey,
		ApprovedAt:         m.ApprovedAt,
		PrintingAt:         m.PrintingAt,
		PrintedAt:          m.PrintedAt,
		ReadyToShipAt:      m.ReadyToShipAt,
		ShippedAt:          m.ShippedAt,
		DeliveredAt:        m.DeliveredAt,
		PaidAt:             m.PaidAt,
		RejectedAt:         m.RejectedAt,
		CancelledAt:        m.CancelledAt,
		ReturnedAt:         m.ReturnedAt,
	}
}

// FromDomain populates the model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.AgentID = o.AgentID
	m.CardDesignID = o.CardDesignID
	m.MSPAtOrder = o.MSPAtOrder
	m.SalePrice = o.SalePrice
	m.CommissionAmount = o.CommissionAmount
	m.OverrideCommission = o.OverrideCommission
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.IsDirectSale = o.IsDirectSale
	m.IsBelowMSP = o.IsBelowMSP
	m.CommissionCredited = o.CommissionCredited
	m.OverrideAgentID = o.OverrideAgentID
	m.ShippingAddress = o.ShippingAddress
	m.Personalization = o.Personalization
	if m.Personalization == nil {
		m.Personalization = map[string]string{}
	}
	m.TrackingNumber = o.TrackingNumber
	m.RejectionReason = o.RejectionReason
	m.CancellationReason = o.CancellationReason
	m.Notes = o.Notes
	m.PrintProofKey = o.PrintProofKey
	m.ApprovedAt = o.ApprovedAt
	m.PrintingAt = o.PrintingAt
	m.PrintedAt = o.PrintedAt
	m.ReadyToShipAt = o.ReadyToShipAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.PaidAt = o.PaidAt
	m.RejectedAt = o.RejectedAt
	m.CancelledAt = o.CancelledAt
	m.ReturnedAt = o.ReturnedAt
}

// OrderModelFromDomain creates a new OrderModel from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

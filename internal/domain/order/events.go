package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type name used on events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderSubmitted     = "OrderSubmitted"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderSubmittedEvent is raised when a new order enters the pipeline
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	AgentID      *uuid.UUID      `json:"agent_id,omitempty"`
	CardDesignID uuid.UUID       `json:"card_design_id"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	IsBelowMSP   bool            `json:"is_below_msp"`
	IsDirectSale bool            `json:"is_direct_sale"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(o *Order) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		AgentID:         o.AgentID,
		CardDesignID:    o.CardDesignID,
		SalePrice:       o.SalePrice,
		IsBelowMSP:      o.IsBelowMSP,
		IsDirectSale:    o.IsDirectSale,
	}
}

// OrderStatusChangedEvent is raised on every pipeline move
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	AgentID        *uuid.UUID  `json:"agent_id,omitempty"`
	CardDesignID   uuid.UUID   `json:"card_design_id"`
	FromStatus     OrderStatus `json:"from_status"`
	ToStatus       OrderStatus `json:"to_status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Reason         string      `json:"reason,omitempty"`

	// CommissionDelta is the seller commission credited (positive) or
	// reversed (negative) by this move.
	CommissionDelta decimal.Decimal `json:"commission_delta"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	reason := o.RejectionReason
	if o.Status == StatusCancelled {
		reason = o.CancellationReason
	}
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		AgentID:         o.AgentID,
		CardDesignID:    o.CardDesignID,
		FromStatus:      from,
		ToStatus:        o.Status,
		TrackingNumber:  o.TrackingNumber,
		Reason:          reason,
	}
}

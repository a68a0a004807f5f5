package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, o *Order) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, o *Order) error
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// OrderSummary is the denormalised read model used by the board, exports
// and agent listings. It joins the customer, agent and design names.
type OrderSummary struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	Status             OrderStatus     `json:"status"`
	PaymentStatus      PaymentStatus   `json:"payment_status"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	AgentID            *uuid.UUID      `json:"agent_id,omitempty"`
	AgentName          string          `json:"agent_name,omitempty"`
	CardDesignID       uuid.UUID       `json:"card_design_id"`
	CardDesignName     string          `json:"card_design_name"`
	MSPAtOrder         decimal.Decimal `json:"msp_at_order"`
	SalePrice          decimal.Decimal `json:"sale_price"`
	CommissionAmount   decimal.Decimal `json:"commission_amount"`
	OverrideCommission decimal.Decimal `json:"override_commission"`
	IsDirectSale       bool            `json:"is_direct_sale"`
	IsBelowMSP         bool            `json:"is_below_msp"`
	TrackingNumber     string          `json:"tracking_number,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SummaryFilter narrows summary queries. Zero values mean "any".
type SummaryFilter struct {
	AgentID *uuid.UUID
	Status  OrderStatus
	From    *time.Time
	To      *time.Time
	Limit   int
}

// OrderQuery reads order summaries
type OrderQuery interface {
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]OrderSummary, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*OrderSummary, error)
}

package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/order"
)

// CustomerInput is the buyer captured at checkout
type CustomerInput struct {
	FullName    string `json:"full_name" binding:"omitempty,max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	Profession  string `json:"profession" binding:"omitempty,max=60"`
	Designation string `json:"designation" binding:"omitempty,max=120"`
	Company     string `json:"company" binding:"omitempty,max=200"`
	WhatsApp    string `json:"whatsapp" binding:"omitempty,max=32"`
	Website     string `json:"website" binding:"omitempty,max=255"`
}

// SubmitOrderRequest is the body of POST /orders/submit. Fields left empty
// are taken from the draft when draft_id is given.
type SubmitOrderRequest struct {
	DraftID         *uuid.UUID             `json:"draft_id"`
	CardDesignID    *uuid.UUID             `json:"card_design_id"`
	SalePrice       decimal.Decimal        `json:"sale_price"`
	ConfirmBelowMSP bool                   `json:"confirm_below_msp"`
	MarkPaid        bool                   `json:"mark_paid"`
	Customer        CustomerInput          `json:"customer"`
	ShippingAddress *order.ShippingAddress `json:"shipping_address"`
	Personalization map[string]string      `json:"personalization"`
	Notes           string                 `json:"notes" binding:"max=1000"`
	// AgentID lets an admin submit on behalf of an agent
	AgentID *uuid.UUID `json:"agent_id"`
}

// SubmitOrderResponse is returned after a successful submission
type SubmitOrderResponse struct {
	OrderID            uuid.UUID         `json:"order_id"`
	OrderNumber        string            `json:"order_number"`
	Status             order.OrderStatus `json:"status"`
	CommissionAmount   decimal.Decimal   `json:"commission_amount"`
	OverrideCommission decimal.Decimal   `json:"override_commission"`
	IsBelowMSP         bool              `json:"is_below_msp"`
	IsDirectSale       bool              `json:"is_direct_sale"`
	CustomerSlug       string            `json:"customer_slug"`
	ProfileURL         string            `json:"profile_url"`
	ClaimURL           string            `json:"claim_url,omitempty"`
}

// UpdateStatusRequest is the body of PUT /admin/orders/:id/status
type UpdateStatusRequest struct {
	Status             order.OrderStatus `json:"status" binding:"required"`
	TrackingNumber     string            `json:"tracking_number" binding:"max=100"`
	Reason             string            `json:"reason" binding:"max=1000"`
	ApprovedCommission *decimal.Decimal  `json:"approved_commission"`
}

// UpdatePaymentRequest is the body of PATCH /admin/orders/:id/payment
type UpdatePaymentRequest struct {
	PaymentStatus order.PaymentStatus `json:"payment_status" binding:"required"`
}

// OrderDetailResponse is the admin view of one order
type OrderDetailResponse struct {
	ID                 uuid.UUID             `json:"id"`
	OrderNumber        string                `json:"order_number"`
	Status             order.OrderStatus     `json:"status"`
	PaymentStatus      order.PaymentStatus   `json:"payment_status"`
	AllowedTransitions []order.OrderStatus   `json:"allowed_transitions"`
	CustomerID         uuid.UUID             `json:"customer_id"`
	CustomerName       string                `json:"customer_name"`
	CustomerPhone      string                `json:"customer_phone"`
	AgentID            *uuid.UUID            `json:"agent_id,omitempty"`
	AgentName          string                `json:"agent_name,omitempty"`
	CardDesignID       uuid.UUID             `json:"card_design_id"`
	CardDesignName     string                `json:"card_design_name"`
	MSPAtOrder         decimal.Decimal       `json:"msp_at_order"`
	SalePrice          decimal.Decimal       `json:"sale_price"`
	CommissionAmount   decimal.Decimal       `json:"commission_amount"`
	OverrideCommission decimal.Decimal       `json:"override_commission"`
	IsDirectSale       bool                  `json:"is_direct_sale"`
	IsBelowMSP         bool                  `json:"is_below_msp"`
	CommissionCredited bool                  `json:"commission_credited"`
	ShippingAddress    order.ShippingAddress `json:"shipping_address"`
	Personalization    map[string]string     `json:"personalization"`
	TrackingNumber     string                `json:"tracking_number,omitempty"`
	RejectionReason    string                `json:"rejection_reason,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	Notes              string                `json:"notes,omitempty"`
	PrintProofURL      string                `json:"print_proof_url,omitempty"`
	Timeline           []order.Milestone     `json:"timeline"`
	Version            int                   `json:"version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// TrackResponse is the public tracking view
type TrackResponse struct {
	OrderNumber    string              `json:"order_number"`
	Status         order.OrderStatus   `json:"status"`
	PaymentStatus  order.PaymentStatus `json:"payment_status"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Timeline       []order.Milestone   `json:"timeline"`
	PlacedAt       time.Time           `json:"placed_at"`
}

// OrderListItem is one row of the agent's order list
type OrderListItem struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	Status           order.OrderStatus   `json:"status"`
	PaymentStatus    order.PaymentStatus `json:"payment_status"`
	SalePrice        decimal.Decimal     `json:"sale_price"`
	CommissionAmount decimal.Decimal     `json:"commission_amount"`
	IsBelowMSP       bool                `json:"is_below_msp"`
	TrackingNumber   string              `json:"tracking_number,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ListOrdersFilter narrows order listings
type ListOrdersFilter struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
}

// ExportFilter narrows the spreadsheet export
type ExportFilter struct {
	Status order.OrderStatus
	From   *time.Time
	To     *time.Time
}

// ToOrderListItem converts a domain order to a list row
func ToOrderListItem(o *order.Order) OrderListItem {
	return OrderListItem{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		SalePrice:        o.SalePrice,
		CommissionAmount: o.CommissionAmount,
		IsBelowMSP:       o.IsBelowMSP,
		TrackingNumber:   o.TrackingNumber,
		CreatedAt:        o.CreatedAt,
	}
}

func toDetail(o *order.Order, s *order.OrderSummary, proofURL string) OrderDetailResponse {
	d := OrderDetailResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		PaymentStatus:      o.PaymentStatus,
		AllowedTransitions: o.AllowedTransitions(),
		CustomerID:         o.CustomerID,
		AgentID:            o.AgentID,
		CardDesignID:       o.CardDesignID,
		MSPAtOrder:         o.MSPAtOrder,
		SalePrice:          o.SalePrice,
		CommissionAmount:   o.CommissionAmount,
		OverrideCommission: o.OverrideCommission,
		IsDirectSale:       o.IsDirectSale,
		IsBelowMSP:         o.IsBelowMSP,
		CommissionCredited: o.CommissionCredited,
		ShippingAddress:    o.ShippingAddress,
		Personalization:    o.Personalization,
		TrackingNumber:     o.TrackingNumber,
		RejectionReason:    o.RejectionReason,
		CancellationReason: o.CancellationReason,
		Notes:              o.Notes,
		PrintProofURL:      proofURL,
		Timeline:           o.Timeline(),
		Version:            o.GetVersion(),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if d.AllowedTransitions == nil {
		d.AllowedTransitions = []order.OrderStatus{}
	}
	if s != nil {
		d.CustomerName = s.CustomerName
		d.CustomerPhone = s.CustomerPhone
		d.AgentName = s.AgentName
		d.CardDesignName = s.CardDesignName
	}
	return d
}

package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/shared"
)

// ShippingAddress is where the finished card is delivered.
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsEmpty returns true when no address line was given
func (a ShippingAddress) IsEmpty() bool {
	return strings.TrimSpace(a.Line1) == "" && strings.TrimSpace(a.City) == ""
}

// String formats the address on one line, skipping blank parts
func (a ShippingAddress) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// BalanceEffect tells the caller how a transition moves the agent balance.
type BalanceEffect int

const (
	BalanceUnchanged BalanceEffect = iota
	// BalanceCredit means the order's commission must be added to the agent.
	BalanceCredit
	// BalanceReverse means a previously credited commission must be taken back.
	BalanceReverse
)

// Order is the aggregate root for a card order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber        string
	CustomerID         uuid.UUID
	AgentID            *uuid.UUID
	CardDesignID       uuid.UUID
	MSPAtOrder         decimal.Decimal
	SalePrice          decimal.Decimal
	CommissionAmount   decimal.Decimal
	OverrideCommission decimal.Decimal
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	IsDirectSale       bool
	IsBelowMSP         bool
	CommissionCredited bool
	// OverrideAgentID is the recruiter whose balance holds the override.
	// Nil when no override is credited.
	OverrideAgentID    *uuid.UUID
	ShippingAddress    ShippingAddress
	Personalization    map[string]string
	TrackingNumber     string
	RejectionReason    string
	CancellationReason string
	Notes              string
	PrintProofKey      string
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

// NewOrderParams carries everything needed to open an order
type NewOrderParams struct {
	OrderNumber     string
	CustomerID      uuid.UUID
	AgentID         *uuid.UUID
	CardDesignID    uuid.UUID
	MSP             decimal.Decimal
	SalePrice       decimal.Decimal
	Policy          CommissionPolicy
	HasParentAgent  bool
	ConfirmBelowMSP bool
	PaymentStatus   PaymentStatus
	ShippingAddress ShippingAddress
	Personalization map[string]string
	Notes           string
}

// ErrBelowMSPNotConfirmed is returned when a below-MSP sale is submitted
// without the explicit confirmation flag.
var ErrBelowMSPNotConfirmed = shared.NewDomainError("BELOW_MSP_CONFIRMATION_REQUIRED",
	"Sale price is below the minimum selling price and must be confirmed")

// ErrOrderNumberTaken is returned when a concurrent submission stored the
// same order number first.
var ErrOrderNumberTaken = shared.NewDomainError("ORDER_NUMBER_TAKEN", "Order number already exists")

// NewOrder creates an order in pending_approval with its commission computed.
func NewOrder(p NewOrderParams) (*Order, error) {
	if strings.TrimSpace(p.OrderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if p.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if p.CardDesignID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DESIGN", "Card design ID cannot be empty")
	}
	if !p.SalePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price must be positive")
	}
	if p.MSP.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MSP", "Minimum selling price cannot be negative")
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentPending
	}
	if !p.PaymentStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", p.PaymentStatus))
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       p.OrderNumber,
		CustomerID:        p.CustomerID,
		AgentID:           p.AgentID,
		CardDesignID:      p.CardDesignID,
		MSPAtOrder:        p.MSP,
		SalePrice:         p.SalePrice,
		Status:            StatusPendingApproval,
		PaymentStatus:     p.PaymentStatus,
		IsDirectSale:      p.AgentID == nil,
		ShippingAddress:   p.ShippingAddress,
		Personalization:   p.Personalization,
		Notes:             p.Notes,
	}
	if o.Personalization == nil {
		o.Personalization = map[string]string{}
	}

	if o.IsDirectSale {
		o.CommissionAmount = decimal.Zero
		o.OverrideCommission = decimal.Zero
		o.IsBelowMSP = p.SalePrice.LessThan(p.MSP)
	} else {
		c := p.Policy.Calculate(p.MSP, p.SalePrice)
		if c.IsBelowMSP && !p.ConfirmBelowMSP {
			return nil, ErrBelowMSPNotConfirmed
		}
		o.CommissionAmount = c.Total
		o.IsBelowMSP = c.IsBelowMSP
		o.OverrideCommission = decimal.Zero
		if p.HasParentAgent {
			o.OverrideCommission = p.Policy.Override(p.SalePrice)
		}
	}

	o.AddDomainEvent(NewOrderSubmittedEvent(o))
	return o, nil
}

// TransitionInput carries the optional data attached to a status move.
type TransitionInput struct {
	TrackingNumber string
	Reason         string
	// ApprovedCommission is the amount credited when a below-MSP order is approved.
	ApprovedCommission *decimal.Decimal
}

// TransitionTo moves the order along the status table, stamps the milestone
// timestamp and reports how the agent balance must change.
func (o *Order) TransitionTo(target OrderStatus, in TransitionInput) (BalanceEffect, error) {
	if !target.IsValid() {
		return BalanceUnchanged, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return BalanceUnchanged, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	if target == StatusRejected && strings.TrimSpace(in.Reason) == "" {
		return BalanceUnchanged, shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	if in.ApprovedCommission != nil && in.ApprovedCommission.IsNegative() {
		return BalanceUnchanged, shared.NewDomainError("INVALID_COMMISSION", "Approved commission cannot be negative")
	}

	from := o.Status
	now := time.Now()

	switch target {
	case StatusApproved:
		if o.IsBelowMSP && !o.IsDirectSale && in.ApprovedCommission != nil {
			o.CommissionAmount = *in.ApprovedCommission
		}
		o.ApprovedAt = &now
	case StatusPrinting:
		o.PrintingAt = &now
	case StatusPrinted:
		o.PrintedAt = &now
	case StatusReadyToShip:
		o.ReadyToShipAt = &now
	case StatusShipped:
		if tn := strings.TrimSpace(in.TrackingNumber); tn != "" {
			o.TrackingNumber = tn
		}
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusPaid:
		o.PaymentStatus = PaymentPaid
		o.PaidAt = &now
	case StatusRejected:
		o.RejectionReason = strings.TrimSpace(in.Reason)
		o.RejectedAt = &now
	case StatusCancelled:
		o.CancellationReason = strings.TrimSpace(in.Reason)
		o.CancelledAt = &now
	case StatusReturned:
		if o.PaymentStatus == PaymentPaid || o.PaymentStatus == PaymentPartial {
			o.PaymentStatus = PaymentRefunded
		}
		o.ReturnedAt = &now
	}

	o.Status = target
	o.UpdatedAt = now

	effect := BalanceUnchanged
	switch {
	case target == StatusApproved && o.AgentID != nil && !o.CommissionCredited:
		o.CommissionCredited = true
		effect = BalanceCredit
	case (target == StatusRejected || target == StatusCancelled || target == StatusReturned) && o.CommissionCredited:
		o.CommissionCredited = false
		effect = BalanceReverse
	}

	event := NewOrderStatusChangedEvent(o, from)
	switch effect {
	case BalanceCredit:
		event.CommissionDelta = o.CommissionAmount
	case BalanceReverse:
		event.CommissionDelta = o.CommissionAmount.Neg()
	}
	o.AddDomainEvent(event)
	return effect, nil
}

// UpdatePaymentStatus sets the payment status directly (admin bookkeeping).
func (o *Order) UpdatePaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", status))
	}
	if o.Status == StatusPaid && status != PaymentPaid && status != PaymentRefunded {
		return shared.NewDomainError("INVALID_STATE", "Paid orders can only be marked paid or refunded")
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	return nil
}

// CreditOverrideTo records the recruiter credited with the override
func (o *Order) CreditOverrideTo(agentID uuid.UUID) {
	o.OverrideAgentID = &agentID
}

// ClearOverrideCredit marks the override as taken back
func (o *Order) ClearOverrideCredit() {
	o.OverrideAgentID = nil
}

// IsOverrideCredited reports whether an override sits on a recruiter's balance
func (o *Order) IsOverrideCredited() bool {
	return o.OverrideAgentID != nil
}

// AttachPrintProof records the object storage key of the rendered proof
func (o *Order) AttachPrintProof(key string) {
	o.PrintProofKey = key
	o.UpdatedAt = time.Now()
}

// Milestone is one stamped step of the order timeline
type Milestone struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
}

// Timeline returns the stamped milestones in pipeline order, starting with submission.
func (o *Order) Timeline() []Milestone {
	out := []Milestone{{Status: StatusPendingApproval, At: o.CreatedAt}}
	stamps := []struct {
		status OrderStatus
		at     *time.Time
	}{
		{StatusApproved, o.ApprovedAt},
		{StatusPrinting, o.PrintingAt},
		{StatusPrinted, o.PrintedAt},
		{StatusReadyToShip, o.ReadyToShipAt},
		{StatusShipped, o.ShippedAt},
		{StatusDelivered, o.DeliveredAt},
		{StatusPaid, o.PaidAt},
		{StatusRejected, o.RejectedAt},
		{StatusCancelled, o.CancelledAt},
		{StatusReturned, o.ReturnedAt},
	}
	for _, s := range stamps {
		if s.at != nil {
			out = append(out, Milestone{Status: s.status, At: *s.at})
		}
	}
	return out
}

// AllowedTransitions is a shortcut for the current status' table entry
func (o *Order) AllowedTransitions() []OrderStatus {
	return o.Status.AllowedTransitions()
}

// IsTerminal returns true if the order can no longer move
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsAgentSale returns true if the order was submitted by an agent
func (o *Order) IsAgentSale() bool {
	return o.AgentID != nil
}

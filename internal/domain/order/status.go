package order

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OrderStatus represents where an order sits in the fulfilment pipeline
type OrderStatus string

const (
	StatusPendingApproval OrderStatus = "pending_approval"
	StatusApproved        OrderStatus = "approved"
	StatusPrinting        OrderStatus = "printing"
	StatusPrinted         OrderStatus = "printed"
	StatusReadyToShip     OrderStatus = "ready_to_ship"
	StatusShipped         OrderStatus = "shipped"
	StatusDelivered       OrderStatus = "delivered"
	StatusPaid            OrderStatus = "paid"
	StatusRejected        OrderStatus = "rejected"
	StatusCancelled       OrderStatus = "cancelled"
	StatusReturned        OrderStatus = "returned"
)

// transitions is the static table of allowed moves keyed by current status.
// Statuses missing from the table are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPendingApproval: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:        {StatusPrinting, StatusRejected, StatusCancelled},
	StatusPrinting:        {StatusPrinted, StatusCancelled},
	StatusPrinted:         {StatusReadyToShip},
	StatusReadyToShip:     {StatusShipped},
	StatusShipped:         {StatusDelivered, StatusReturned},
	StatusDelivered:       {StatusPaid, StatusReturned},
}

// AllStatuses returns every status in pipeline order. The board renders one
// column per entry.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPendingApproval,
		StatusApproved,
		StatusPrinting,
		StatusPrinted,
		StatusReadyToShip,
		StatusShipped,
		StatusDelivered,
		StatusPaid,
		StatusRejected,
		StatusCancelled,
		StatusReturned,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusPrinting, StatusPrinted,
		StatusReadyToShip, StatusShipped, StatusDelivered, StatusPaid,
		StatusRejected, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// DisplayName renders "ready_to_ship" as "Ready To Ship"
func (s OrderStatus) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// AllowedTransitions returns the statuses reachable from s. The returned
// slice is a copy.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	next := transitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// PaymentStatus tracks collection of the sale price
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

package order

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/domain/shared/optimistic"
)

// BoardFilter narrows the visible cards. Zero values match everything.
type BoardFilter struct {
	Statuses      []order.OrderStatus `json:"statuses,omitempty"`
	AgentID       *uuid.UUID          `json:"agent_id,omitempty"`
	CardDesignID  *uuid.UUID          `json:"card_design_id,omitempty"`
	PaymentStatus order.PaymentStatus `json:"payment_status,omitempty"`
	BelowMSPOnly  bool                `json:"below_msp_only,omitempty"`
	DirectOnly    bool                `json:"direct_only,omitempty"`
	Search        string              `json:"search,omitempty"`
}

// IsEmpty reports whether the filter matches every order
func (f BoardFilter) IsEmpty() bool {
	return len(f.Statuses) == 0 && f.AgentID == nil && f.CardDesignID == nil &&
		f.PaymentStatus == "" && !f.BelowMSPOnly && !f.DirectOnly && strings.TrimSpace(f.Search) == ""
}

func (f BoardFilter) matches(o order.OrderSummary) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.AgentID != nil && (o.AgentID == nil || *o.AgentID != *f.AgentID) {
		return false
	}
	if f.CardDesignID != nil && o.CardDesignID != *f.CardDesignID {
		return false
	}
	if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.BelowMSPOnly && !o.IsBelowMSP {
		return false
	}
	if f.DirectOnly && !o.IsDirectSale {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(o.OrderNumber), q) &&
			!strings.Contains(strings.ToLower(o.CustomerName), q) &&
			!strings.Contains(strings.ToLower(o.TrackingNumber), q) &&
			!phoneMatches(o.CustomerPhone, q) {
			return false
		}
	}
	return true
}

func phoneMatches(phone, q string) bool {
	if strings.Contains(phone, q) {
		return true
	}
	return customer.SamePhone(phone, q)
}

// BoardColumn is one status lane
type BoardColumn struct {
	Status order.OrderStatus    `json:"status"`
	Count  int                  `json:"count"`
	Orders []order.OrderSummary `json:"orders"`
}

// StatusChanger performs the server-side status write for a move
type StatusChanger func(ctx context.Context, orderID uuid.UUID, target order.OrderStatus) error

// Board is an in-memory projection of the full order set split into one
// column per status. Filtering never changes the underlying set.
type Board struct {
	all    []order.OrderSummary
	filter BoardFilter
}

// NewBoard builds a board over rows. The slice is copied.
func NewBoard(rows []order.OrderSummary) *Board {
	all := make([]order.OrderSummary, len(rows))
	copy(all, rows)
	return &Board{all: all}
}

// Filter replaces the active filter
func (b *Board) Filter(f BoardFilter) {
	b.filter = f
}

// ClearFilters shows every order again
func (b *Board) ClearFilters() {
	b.filter = BoardFilter{}
}

// ActiveFilter returns the current filter
func (b *Board) ActiveFilter() BoardFilter {
	return b.filter
}

// All returns a copy of the full, unfiltered set
func (b *Board) All() []order.OrderSummary {
	out := make([]order.OrderSummary, len(b.all))
	copy(out, b.all)
	return out
}

// Visible returns the orders matching the active filter
func (b *Board) Visible() []order.OrderSummary {
	out := make([]order.OrderSummary, 0, len(b.all))
	for _, o := range b.all {
		if b.filter.matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Columns groups the visible orders by status. Every status has a column,
// in pipeline order, even when empty.
func (b *Board) Columns() []BoardColumn {
	statuses := order.AllStatuses()
	index := make(map[order.OrderStatus]int, len(statuses))
	columns := make([]BoardColumn, len(statuses))
	for i, s := range statuses {
		index[s] = i
		columns[i] = BoardColumn{Status: s, Orders: []order.OrderSummary{}}
	}
	for _, o := range b.Visible() {
		i, ok := index[o.Status]
		if !ok {
			continue
		}
		columns[i].Orders = append(columns[i].Orders, o)
	}
	for i := range columns {
		columns[i].Count = len(columns[i].Orders)
	}
	return columns
}

// Move applies target locally, calls changer and puts the card back when
// the change is refused. Failed moves are not retried.
func (b *Board) Move(ctx context.Context, orderID uuid.UUID, target order.OrderStatus, changer StatusChanger) optimistic.Result[order.OrderStatus] {
	for i := range b.all {
		if b.all[i].ID != orderID {
			continue
		}
		return optimistic.Apply(ctx, &b.all[i].Status, target, func(ctx context.Context) error {
			return changer(ctx, orderID, target)
		})
	}
	return optimistic.Result[order.OrderStatus]{Err: shared.ErrNotFound}
}

// Replace swaps in a fresh copy of a row already on the board. Rows not on
// the board are ignored.
func (b *Board) Replace(row order.OrderSummary) bool {
	for i := range b.all {
		if b.all[i].ID == row.ID {
			b.all[i] = row
			return true
		}
	}
	return false
}

func errorCode(err error) string {
	if de, ok := shared.AsDomainError(err); ok {
		return de.Code
	}
	return "INTERNAL_ERROR"
}

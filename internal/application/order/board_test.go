package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func boardRows() []order.OrderSummary {
	agentID := uuid.New()
	return []order.OrderSummary{
		{ID: uuid.New(), OrderNumber: "TO-2026-00001", Status: order.StatusPendingApproval, PaymentStatus: order.PaymentPending, CustomerName: "Ravi Kumar", CustomerPhone: "+919123456780", AgentID: &agentID},
		{ID: uuid.New(), OrderNumber: "TO-2026-00002", Status: order.StatusApproved, PaymentStatus: order.PaymentPaid, CustomerName: "Neha Rao", CustomerPhone: "+919000000001", IsDirectSale: true},
		{ID: uuid.New(), OrderNumber: "TO-2026-00003", Status: order.StatusShipped, PaymentStatus: order.PaymentPending, CustomerName: "Arjun Mehta", CustomerPhone: "+919800000000", TrackingNumber: "DTDC42", IsBelowMSP: true, AgentID: &agentID},
	}
}

func columnFor(t *testing.T, cols []BoardColumn, s order.OrderStatus) BoardColumn {
	t.Helper()
	for _, c := range cols {
		if c.Status == s {
			return c
		}
	}
	t.Fatalf("no column for %s", s)
	return BoardColumn{}
}

func TestBoard_Columns(t *testing.T) {
	b := NewBoard(boardRows())
	cols := b.Columns()

	require.Len(t, cols, len(order.AllStatuses()))
	assert.Equal(t, order.StatusPendingApproval, cols[0].Status)
	assert.Equal(t, 1, columnFor(t, cols, order.StatusApproved).Count)
	assert.Equal(t, 0, columnFor(t, cols, order.StatusPrinting).Count)
	assert.NotNil(t, columnFor(t, cols, order.StatusPrinting).Orders)
}

func TestBoard_Filter(t *testing.T) {
	rows := boardRows()

	tests := []struct {
		name   string
		filter BoardFilter
		want   []string
	}{
		{"status", BoardFilter{Statuses: []order.OrderStatus{order.StatusApproved, order.StatusShipped}}, []string{"TO-2026-00002", "TO-2026-00003"}},
		{"agent", BoardFilter{AgentID: rows[0].AgentID}, []string{"TO-2026-00001", "TO-2026-00003"}},
		{"payment", BoardFilter{PaymentStatus: order.PaymentPaid}, []string{"TO-2026-00002"}},
		{"below msp", BoardFilter{BelowMSPOnly: true}, []string{"TO-2026-00003"}},
		{"direct", BoardFilter{DirectOnly: true}, []string{"TO-2026-00002"}},
		{"search by name", BoardFilter{Search: "neha"}, []string{"TO-2026-00002"}},
		{"search by tracking", BoardFilter{Search: "dtdc"}, []string{"TO-2026-00003"}},
		{"search by local phone", BoardFilter{Search: "91234 56780"}, []string{"TO-2026-00001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(rows)
			b.Filter(tt.filter)

			var got []string
			for _, o := range b.Visible() {
				got = append(got, o.OrderNumber)
			}
			assert.Equal(t, tt.want, got)
			assert.Len(t, b.All(), 3)
		})
	}

	t.Run("clearing restores the full set", func(t *testing.T) {
		b := NewBoard(rows)
		b.Filter(BoardFilter{DirectOnly: true})
		b.ClearFilters()
		b.ClearFilters()

		assert.True(t, b.ActiveFilter().IsEmpty())
		assert.Len(t, b.Visible(), 3)
	})
}

func TestBoard_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("successful move stays in the new column", func(t *testing.T) {
		rows := boardRows()
		b := NewBoard(rows)
		var called int

		result := b.Move(ctx, rows[0].ID, order.StatusApproved, func(ctx context.Context, id uuid.UUID, target order.OrderStatus) error {
			called++
			return nil
		})

		assert.True(t, result.Applied)
		assert.Equal(t, order.StatusPendingApproval, result.Previous)
		assert.Equal(t, 1, called)
		assert.Equal(t, 2, columnFor(t, b.Columns(), order.StatusApproved).Count)
	})

	t.Run("refused move returns to its column", func(t *testing.T) {
		rows := boardRows()
		b := NewBoard(rows)
		refused := shared.NewDomainError("INVALID_STATE", "no")
		calls := 0

		result := b.Move(ctx, rows[2].ID, order.StatusPrinting, func(ctx context.Context, id uuid.UUID, target order.OrderStatus) error {
			calls++
			return refused
		})

		assert.False(t, result.Applied)
		assert.ErrorIs(t, result.Err, refused)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, columnFor(t, b.Columns(), order.StatusShipped).Count)
		assert.Equal(t, 0, columnFor(t, b.Columns(), order.StatusPrinting).Count)
		assert.Equal(t, "INVALID_STATE", errorCode(result.Err))
	})

	t.Run("unknown card", func(t *testing.T) {
		b := NewBoard(boardRows())
		result := b.Move(ctx, uuid.New(), order.StatusApproved, func(context.Context, uuid.UUID, order.OrderStatus) error {
			return errors.New("must not be called")
		})
		assert.ErrorIs(t, result.Err, shared.ErrNotFound)
	})

	t.Run("input rows are not modified", func(t *testing.T) {
		rows := boardRows()
		b := NewBoard(rows)
		b.Move(ctx, rows[0].ID, order.StatusApproved, func(context.Context, uuid.UUID, order.OrderStatus) error { return nil })
		assert.Equal(t, order.StatusPendingApproval, rows[0].Status)
	})
}

func TestBoardService_ApplyMoves(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	seller := h.newAgent(t, "TAPAAA111", nil, agent.AgentStatusActive)
	board := NewBoardService(h.orders, h.service, zap.NewNop())

	first, err := h.service.Submit(ctx, &seller.ID, h.submitRequest(800), IdempotencyKey{})
	require.NoError(t, err)
	second, err := h.service.Submit(ctx, nil, h.submitRequest(900), IdempotencyKey{})
	require.NoError(t, err)

	resp, err := board.ApplyMoves(ctx, BoardMovesRequest{
		Moves: []BoardMove{
			{OrderID: first.OrderID, Status: order.StatusApproved},
			{OrderID: second.OrderID, Status: order.StatusShipped},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.True(t, resp.Results[0].Applied)
	assert.False(t, resp.Results[1].Applied)
	assert.Equal(t, "INVALID_STATE", resp.Results[1].Code)
	assert.Equal(t, order.StatusPendingApproval, resp.Results[1].Previous)

	assert.Equal(t, 2, resp.Board.Total)
	assert.False(t, resp.Board.Filtered)
	assert.Equal(t, 1, columnFor(t, resp.Board.Columns, order.StatusApproved).Count)
	assert.Equal(t, 1, columnFor(t, resp.Board.Columns, order.StatusPendingApproval).Count)

	assert.True(t, h.reloadAgent(t, seller.ID).AvailableBalance.IsPositive())

	loaded, err := board.Load(ctx, BoardFilter{DirectOnly: true})
	require.NoError(t, err)
	assert.True(t, loaded.Filtered)
	assert.Equal(t, 1, loaded.Visible)
	assert.Equal(t, 2, loaded.Total)
}

func findRow(t *testing.T, cols []BoardColumn, id uuid.UUID) order.OrderSummary {
	t.Helper()
	for _, c := range cols {
		for _, o := range c.Orders {
			if o.ID == id {
				return o
			}
		}
	}
	t.Fatalf("order %s not on the board", id)
	return order.OrderSummary{}
}

func TestBoardService_ApplyMovesRefreshesRows(t *testing.T) {
	ctx := context.Background()

	t.Run("approved commission reaches the seller and the card", func(t *testing.T) {
		h := newHarness(t, false)
		seller := h.newAgent(t, "TAPAAA111", nil, agent.AgentStatusActive)
		board := NewBoardService(h.orders, h.service, zap.NewNop())

		req := h.submitRequest(500)
		req.ConfirmBelowMSP = true
		sale, err := h.service.Submit(ctx, &seller.ID, req, IdempotencyKey{})
		require.NoError(t, err)

		approved := decimal.NewFromInt(50)
		resp, err := board.ApplyMoves(ctx, BoardMovesRequest{
			Moves: []BoardMove{{OrderID: sale.OrderID, Status: order.StatusApproved, ApprovedCommission: &approved}},
		})
		require.NoError(t, err)
		require.True(t, resp.Results[0].Applied)

		row := findRow(t, resp.Board.Columns, sale.OrderID)
		assert.True(t, row.CommissionAmount.Equal(approved))
		assert.True(t, h.reloadAgent(t, seller.ID).AvailableBalance.Equal(approved))
	})

	t.Run("moving to paid shows the new payment status", func(t *testing.T) {
		h := newHarness(t, false)
		board := NewBoardService(h.orders, h.service, zap.NewNop())
		sale, err := h.service.Submit(ctx, nil, h.submitRequest(800), IdempotencyKey{})
		require.NoError(t, err)

		for _, s := range []order.OrderStatus{
			order.StatusApproved, order.StatusPrinting, order.StatusPrinted,
			order.StatusReadyToShip, order.StatusShipped, order.StatusDelivered,
		} {
			_, err = h.service.UpdateStatus(ctx, sale.OrderID, UpdateStatusRequest{Status: s})
			require.NoError(t, err)
		}

		resp, err := board.ApplyMoves(ctx, BoardMovesRequest{
			Moves: []BoardMove{{OrderID: sale.OrderID, Status: order.StatusPaid}},
		})
		require.NoError(t, err)
		require.True(t, resp.Results[0].Applied)

		row := findRow(t, resp.Board.Columns, sale.OrderID)
		assert.Equal(t, order.StatusPaid, row.Status)
		assert.Equal(t, order.PaymentPaid, row.PaymentStatus)
	})
}

func TestBoard_Replace(t *testing.T) {
	rows := boardRows()
	b := NewBoard(rows)

	fresh := rows[1]
	fresh.PaymentStatus = order.PaymentRefunded
	assert.True(t, b.Replace(fresh))
	assert.Equal(t, order.PaymentRefunded, b.All()[1].PaymentStatus)

	assert.False(t, b.Replace(order.OrderSummary{ID: uuid.New()}))
	assert.Len(t, b.All(), len(rows))
}

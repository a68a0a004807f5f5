package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.Len(t, AllStatuses(), 11)
	assert.False(t, OrderStatus("INVALID").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		{StatusPendingApproval, StatusApproved, true},
		{StatusPendingApproval, StatusRejected, true},
		{StatusPendingApproval, StatusCancelled, true},
		{StatusPendingApproval, StatusPrinting, false},
		{StatusPendingApproval, StatusShipped, false},
		{StatusPendingApproval, StatusPaid, false},
		{StatusApproved, StatusPrinting, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusPendingApproval, false},
		{StatusPrinting, StatusPrinted, true},
		{StatusPrinting, StatusShipped, false},
		{StatusPrinted, StatusReadyToShip, true},
		{StatusReadyToShip, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPaid, true},
		{StatusDelivered, StatusReturned, true},
		{StatusPaid, StatusReturned, false},
		{StatusRejected, StatusApproved, false},
		{StatusCancelled, StatusPendingApproval, false},
		{StatusReturned, StatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_AllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]OrderStatus{StatusApproved, StatusRejected, StatusCancelled},
		StatusPendingApproval.AllowedTransitions())
	assert.Empty(t, StatusPaid.AllowedTransitions())

	t.Run("returned slice is a copy", func(t *testing.T) {
		next := StatusPendingApproval.AllowedTransitions()
		next[0] = StatusPaid
		assert.False(t, StatusPendingApproval.CanTransitionTo(StatusPaid))
	})
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusPaid, StatusRejected, StatusCancelled, StatusReturned} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []OrderStatus{StatusPendingApproval, StatusApproved, StatusShipped, StatusDelivered} {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentPending.IsValid())
	assert.True(t, PaymentPartial.IsValid())
	assert.True(t, PaymentPaid.IsValid())
	assert.True(t, PaymentRefunded.IsValid())
	assert.False(t, PaymentStatus("unpaid").IsValid())
}

func TestOrderStatus_DisplayName(t *testing.T) {
	assert.Equal(t, "Ready To Ship", StatusReadyToShip.DisplayName())
	assert.Equal(t, "Pending Approval", StatusPendingApproval.DisplayName())
	assert.Equal(t, "Paid", StatusPaid.DisplayName())
}

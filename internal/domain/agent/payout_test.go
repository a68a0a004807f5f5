package agent

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayout(t *testing.T) {
	p, err := NewPayout(uuid.New(), decimal.RequireFromString("150.555"), PaymentMethodUPI, " UTR1 ", "")
	require.NoError(t, err)
	assert.Equal(t, PayoutStatusPending, p.Status)
	assert.Equal(t, "UTR1", p.Reference)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("150.56")))

	_, err = NewPayout(uuid.New(), decimal.Zero, PaymentMethodCash, "", "")
	assert.Error(t, err)
	_, err = NewPayout(uuid.New(), decimal.NewFromInt(10), PaymentMethod("cheque"), "", "")
	assert.Error(t, err)
}

func TestPayout_Lifecycle(t *testing.T) {
	admin := uuid.New()

	t.Run("complete", func(t *testing.T) {
		p, err := NewPayout(uuid.New(), decimal.NewFromInt(100), PaymentMethodBankTransfer, "", "")
		require.NoError(t, err)
		require.NoError(t, p.Complete(admin, "NEFT-42"))
		assert.Equal(t, PayoutStatusCompleted, p.Status)
		assert.Equal(t, "NEFT-42", p.Reference)
		assert.NotNil(t, p.ProcessedAt)
		assert.Len(t, p.GetDomainEvents(), 1)

		assert.Error(t, p.Complete(admin, ""))
		assert.Error(t, p.Fail(admin, "late"))
	})

	t.Run("fail needs reason", func(t *testing.T) {
		p, err := NewPayout(uuid.New(), decimal.NewFromInt(100), PaymentMethodCash, "", "")
		require.NoError(t, err)
		assert.Error(t, p.Fail(admin, ""))
		require.NoError(t, p.Fail(admin, "wrong UPI id"))
		assert.Equal(t, PayoutStatusFailed, p.Status)
	})
}

package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/order"
)

func strPtr(s string) *string { return &s }

func TestDraftOrder_Lifecycle(t *testing.T) {
	d := New(" doctor ")
	assert.Equal(t, StateCreated, d.State)
	assert.Equal(t, "doctor", d.Profession)
	assert.False(t, d.ReadyForCheckout())

	designID := uuid.New()
	err := d.Apply(Patch{
		CardDesignID:    &designID,
		Material:        strPtr("metal"),
		Personalization: map[string]string{"tagline": "Healing hands", "color": "gold"},
		Contact:         &Contact{FullName: "Dr Asha Rao", Phone: "9876543210"},
		ShippingAddress: &order.ShippingAddress{Line1: "1 Main St", City: "Pune"},
		ReferralCode:    strPtr(" tapabc123 "),
	})
	require.NoError(t, err)
	assert.Equal(t, StateUpdated, d.State)
	assert.Equal(t, "TAPABC123", d.ReferralCode)
	assert.True(t, d.ReadyForCheckout())

	require.NoError(t, d.Apply(Patch{Personalization: map[string]string{"color": ""}}))
	assert.Equal(t, map[string]string{"tagline": "Healing hands"}, d.Personalization)
	assert.Equal(t, "metal", d.Material)

	d.Clear()
	assert.Equal(t, StateCleared, d.State)
	assert.False(t, d.ReadyForCheckout())
	assert.ErrorIs(t, d.Apply(Patch{Material: strPtr("pvc")}), ErrDraftCleared)
}

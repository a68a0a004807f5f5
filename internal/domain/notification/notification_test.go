package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(uuid.New(), "", " New order ", "TO-2026-00001 needs approval", "/admin/orders/1")
	require.NoError(t, err)
	assert.Equal(t, TypeSystem, n.Type)
	assert.Equal(t, "New order", n.Title)
	assert.False(t, n.IsRead())

	_, err = NewNotification(uuid.Nil, TypeSystem, "t", "", "")
	assert.Error(t, err)
	_, err = NewNotification(uuid.New(), TypeSystem, "", "", "")
	assert.Error(t, err)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewNotification(uuid.New(), TypePayoutCompleted, "Payout sent", "", "")
	require.NoError(t, err)

	n.MarkRead()
	require.NotNil(t, n.ReadAt)
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
}

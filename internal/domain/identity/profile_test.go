package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	t.Run("normalises email", func(t *testing.T) {
		p, err := NewProfile("  Jane@X.com ", "Jane Doe", "+911234567890", RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "jane@x.com", p.Email)
		assert.Equal(t, RoleCustomer, p.Role)
		assert.False(t, p.HasPassword())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewProfile("not-an-email", "Jane", "", RoleAgent)
		assert.Error(t, err)
		_, err = NewProfile("jane@x.com", " ", "", RoleAgent)
		assert.Error(t, err)
		_, err = NewProfile("jane@x.com", "Jane", "", Role("root"))
		assert.Error(t, err)
	})
}

func TestProfile_Password(t *testing.T) {
	p, err := NewProfileWithPassword("admin@taponce.in", "Admin", "", RoleAdmin, "s3cret-pass")
	require.NoError(t, err)

	assert.True(t, p.VerifyPassword("s3cret-pass"))
	assert.False(t, p.VerifyPassword("wrong"))
	assert.Error(t, p.SetPassword("short"))
}

func TestProfile_Claim(t *testing.T) {
	newCustomer := func(t *testing.T) (*Profile, string) {
		p, err := NewProfile("jane@x.com", "Jane Doe", "", RoleCustomer)
		require.NoError(t, err)
		token, err := p.IssueClaimToken(time.Hour)
		require.NoError(t, err)
		require.Len(t, token, 48)
		return p, token
	}

	t.Run("valid token claims the account", func(t *testing.T) {
		p, token := newCustomer(t)
		require.NoError(t, p.ValidateClaimToken(token, time.Now()))
		require.NoError(t, p.Claim(token, "new-password"))

		assert.NotNil(t, p.ClaimedAt)
		assert.Empty(t, p.ClaimToken)
		assert.True(t, p.VerifyPassword("new-password"))
		assert.ErrorIs(t, p.ValidateClaimToken(token, time.Now()), ErrAlreadyClaimed)
	})

	t.Run("wrong token", func(t *testing.T) {
		p, _ := newCustomer(t)
		assert.ErrorIs(t, p.ValidateClaimToken("nope", time.Now()), ErrClaimTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		p, token := newCustomer(t)
		assert.ErrorIs(t, p.ValidateClaimToken(token, time.Now().Add(2*time.Hour)), ErrClaimTokenExpired)
	})
}

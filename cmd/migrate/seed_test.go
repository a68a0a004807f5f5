package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	opts := seedOptions{AdminEmail: "ops@taponce.test", AdminPassword: "seed-password-1", Agents: 3, Seed: 7}

	require.NoError(t, seed(db, opts, zap.NewNop()))

	profiles := persistence.NewGormProfileRepository(db)
	admin, err := profiles.FindByEmail(ctx, "ops@taponce.test")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, admin.Role)
	assert.True(t, admin.VerifyPassword("seed-password-1"))

	designs, err := persistence.NewGormCardDesignRepository(db).Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(len(starterCatalog)), designs)

	agents := persistence.NewGormAgentRepository(db)
	all, err := agents.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, all, 3)

	roots := 0
	for _, a := range all {
		if a.ParentAgentID == nil {
			roots++
		}
	}
	assert.Equal(t, 1, roots)

	t.Run("rerun keeps admin and catalog", func(t *testing.T) {
		require.NoError(t, seed(db, opts, zap.NewNop()))
		designs, err := persistence.NewGormCardDesignRepository(db).Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(len(starterCatalog)), designs)
	})

	t.Run("password required", func(t *testing.T) {
		assert.Error(t, seed(db, seedOptions{AdminEmail: "x@taponce.test"}, zap.NewNop()))
	})
}

func TestEmailPart(t *testing.T) {
	assert.Equal(t, "okeefe", emailPart("O'Keefe"))
	assert.Equal(t, "anne", emailPart("Anne "))
}

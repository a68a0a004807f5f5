package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
)

func newTestDesignService(t *testing.T) (*DesignService, *persistence.GormAgentMspRepository) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	msps := persistence.NewGormAgentMspRepository(db)
	return NewDesignService(persistence.NewGormCardDesignRepository(db), msps, zap.NewNop()), msps
}

func TestDesignService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDesignService(t)

	resp, err := svc.Create(ctx, CreateDesignRequest{
		Name:        "  Brushed Steel ",
		Description: "Laser engraved",
		Material:    "metal",
		ImageURL:    "https://cdn.example.com/steel.png",
		BaseMSP:     decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, "Brushed Steel", resp.Name)
	assert.Equal(t, "Laser engraved", resp.Description)
	assert.Equal(t, catalog.DesignStatusActive, resp.Status)
	assert.True(t, resp.BaseMSP.Equal(decimal.NewFromInt(1500)))

	t.Run("negative msp", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateDesignRequest{Name: "Bad", Material: "pvc", BaseMSP: decimal.NewFromInt(-1)})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_MSP", de.Code)
	})
}

func TestDesignService_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDesignService(t)

	black, err := svc.Create(ctx, CreateDesignRequest{Name: "Matte Black", Material: "pvc", BaseMSP: decimal.NewFromInt(600)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateDesignRequest{Name: "Walnut", Material: "wood", BaseMSP: decimal.NewFromInt(900)})
	require.NoError(t, err)

	inactive := catalog.DesignStatusInactive
	newMSP := decimal.NewFromInt(650)
	updated, err := svc.Update(ctx, black.ID, UpdateDesignRequest{BaseMSP: &newMSP, Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Matte Black", updated.Name)
	assert.Equal(t, "pvc", updated.Material)
	assert.True(t, updated.BaseMSP.Equal(newMSP))
	assert.Equal(t, catalog.DesignStatusInactive, updated.Status)

	all, total, err := svc.List(ctx, DesignListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	active, total, err := svc.List(ctx, DesignListFilter{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Walnut", active[0].Name)

	found, _, err := svc.List(ctx, DesignListFilter{Search: "WOOD"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.Update(ctx, uuid.New(), UpdateDesignRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDesignService_ListPublic(t *testing.T) {
	ctx := context.Background()
	svc, msps := newTestDesignService(t)

	black, err := svc.Create(ctx, CreateDesignRequest{Name: "Matte Black", Material: "pvc", BaseMSP: decimal.NewFromInt(600)})
	require.NoError(t, err)
	walnut, err := svc.Create(ctx, CreateDesignRequest{Name: "Walnut", Material: "wood", BaseMSP: decimal.NewFromInt(900)})
	require.NoError(t, err)
	inactive := catalog.DesignStatusInactive
	_, err = svc.Create(ctx, CreateDesignRequest{Name: "Retired", Material: "pvc", BaseMSP: decimal.NewFromInt(100)})
	require.NoError(t, err)
	retired, _, err := svc.List(ctx, DesignListFilter{Search: "retired"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, retired[0].ID, UpdateDesignRequest{Status: &inactive})
	require.NoError(t, err)

	agentID := uuid.New()
	override, err := catalog.NewAgentMsp(agentID, walnut.ID, decimal.NewFromInt(800))
	require.NoError(t, err)
	require.NoError(t, msps.Upsert(ctx, override))

	t.Run("anonymous sees base msp", func(t *testing.T) {
		designs, err := svc.ListPublic(ctx, nil)
		require.NoError(t, err)
		require.Len(t, designs, 2)
		assert.Equal(t, black.ID, designs[0].ID)
		assert.True(t, designs[1].MSP.Equal(decimal.NewFromInt(900)))
		assert.False(t, designs[1].IsOverride)
	})

	t.Run("agent sees its override", func(t *testing.T) {
		designs, err := svc.ListPublic(ctx, &agentID)
		require.NoError(t, err)
		require.Len(t, designs, 2)
		assert.True(t, designs[0].MSP.Equal(decimal.NewFromInt(600)))
		assert.True(t, designs[1].MSP.Equal(decimal.NewFromInt(800)))
		assert.True(t, designs[1].IsOverride)
	})
}

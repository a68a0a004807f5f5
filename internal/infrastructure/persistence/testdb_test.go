package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/tests/testutil"
	"gorm.io/gorm"
)

// newMockGormDB opens GORM over sqlmock with the postgres dialect
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

// setupSQLiteDB opens an in-memory SQLite database with every table migrated
func setupSQLiteDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

type fixture struct {
	db       *gorm.DB
	profile  *identity.Profile
	agent    *agent.Agent
	customer *customer.Customer
	design   *catalog.CardDesign
}

// seedFixture stores an agent, a customer and a design ready for orders
func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	ctx := context.Background()
	f := &fixture{db: db}

	var err error
	f.profile, err = identity.NewProfile("agent-"+uuid.NewString()[:8]+"@example.com", "Asha Agent", "9876543210", identity.RoleAgent)
	require.NoError(t, err)
	require.NoError(t, NewGormProfileRepository(db).Save(ctx, f.profile))

	f.agent, err = agent.NewAgent(f.profile.ID, "ASHA"+uuid.NewString()[:4], nil, "Pune")
	require.NoError(t, err)
	require.NoError(t, NewGormAgentRepository(db).Save(ctx, f.agent))

	custProfile, err := identity.NewProfile("cust-"+uuid.NewString()[:8]+"@example.com", "Ravi Kumar", "9123456780", identity.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, NewGormProfileRepository(db).Save(ctx, custProfile))

	f.customer, err = customer.NewCustomer(custProfile.ID, "ravi-"+uuid.NewString()[:8], "Ravi Kumar", "9123456780", custProfile.Email, "doctor")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, f.customer))

	f.design, err = catalog.NewCardDesign("Matte Black", "pvc", decimal.NewFromInt(600))
	require.NoError(t, err)
	require.NoError(t, NewGormCardDesignRepository(db).Save(ctx, f.design))

	return f
}

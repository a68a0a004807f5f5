package persistence

import (
	"context"

	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, rolling back on error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Agents() agent.AgentRepository {
	return NewGormAgentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payouts() agent.PayoutRepository {
	return NewGormPayoutRepository(r.tx)
}

func (r *gormTransactionalRepositories) Designs() catalog.CardDesignRepository {
	return NewGormCardDesignRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() customer.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) Profiles() identity.ProfileRepository {
	return NewGormProfileRepository(r.tx)
}

var (
	_ transaction.Scope        = (*GormTransactionScope)(nil)
	_ transaction.Repositories = (*gormTransactionalRepositories)(nil)
)

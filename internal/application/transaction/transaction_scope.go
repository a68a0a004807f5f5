// Package transaction defines the unit-of-work boundary used by services
// that must change more than one aggregate atomically, such as moving an
// order and crediting the agent balance.
package transaction

import (
	"context"

	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
)

// Scope runs a function inside a database transaction.
// If the function returns an error, the transaction is rolled back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to repositories bound to the same transaction
type Repositories interface {
	Orders() order.OrderRepository
	Agents() agent.AgentRepository
	Payouts() agent.PayoutRepository
	Designs() catalog.CardDesignRepository
	Customers() customer.CustomerRepository
	Profiles() identity.ProfileRepository
}

// NoOpScope runs the function against plain repositories without a
// transaction. Used by unit tests.
type NoOpScope struct {
	OrderRepo    order.OrderRepository
	AgentRepo    agent.AgentRepository
	PayoutRepo   agent.PayoutRepository
	DesignRepo   catalog.CardDesignRepository
	CustomerRepo customer.CustomerRepository
	ProfileRepo  identity.ProfileRepository
}

// Execute runs fn directly
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpScope) Orders() order.OrderRepository          { return s.OrderRepo }
func (s *NoOpScope) Agents() agent.AgentRepository          { return s.AgentRepo }
func (s *NoOpScope) Payouts() agent.PayoutRepository        { return s.PayoutRepo }
func (s *NoOpScope) Designs() catalog.CardDesignRepository  { return s.DesignRepo }
func (s *NoOpScope) Customers() customer.CustomerRepository { return s.CustomerRepo }
func (s *NoOpScope) Profiles() identity.ProfileRepository   { return s.ProfileRepo }

var _ Scope = (*NoOpScope)(nil)
var _ Repositories = (*NoOpScope)(nil)

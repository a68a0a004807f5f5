package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/finance"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/notification"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
)

func newOrder(t *testing.T, f *fixture, number string, agentID *uuid.UUID, sale int64) *order.Order {
	o, err := order.NewOrder(order.NewOrderParams{
		OrderNumber:     number,
		CustomerID:      f.customer.ID,
		AgentID:         agentID,
		CardDesignID:    f.design.ID,
		MSP:             f.design.BaseMSP,
		SalePrice:       decimal.NewFromInt(sale),
		Policy:          order.DefaultCommissionPolicy(),
		ShippingAddress: order.ShippingAddress{Line1: "4 FC Road", City: "Pune"},
	})
	require.NoError(t, err)
	return o
}

func TestProfileRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	repo := NewGormProfileRepository(db)

	p, err := identity.NewProfile("Meera@Example.com", "Meera Shah", "", identity.RoleCustomer)
	require.NoError(t, err)
	token, err := p.IssueClaimToken(72 * time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	t.Run("finds by email ignoring case", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "MEERA@example.com")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("finds by claim token", func(t *testing.T) {
		got, err := repo.FindByClaimToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		_, err = repo.FindByClaimToken(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup, err := identity.NewProfile("meera@example.com", "Other", "", identity.RoleAgent)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("profiles without tokens do not collide", func(t *testing.T) {
		a, _ := identity.NewProfile("a@example.com", "A", "", identity.RoleAdmin)
		b, _ := identity.NewProfile("b@example.com", "B", "", identity.RoleAdmin)
		require.NoError(t, repo.Save(ctx, a))
		require.NoError(t, repo.Save(ctx, b))

		admins, err := repo.FindByRole(ctx, identity.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, admins, 2)
	})
}

func TestAgentRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormAgentRepository(db)

	t.Run("finds by referral code in any case", func(t *testing.T) {
		got, err := repo.FindByReferralCode(ctx, " "+f.agent.ReferralCode+" ")
		require.NoError(t, err)
		assert.Equal(t, f.agent.ID, got.ID)

		exists, err := repo.ExistsByReferralCode(ctx, f.agent.ReferralCode)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate referral code is a conflict", func(t *testing.T) {
		p, _ := identity.NewProfile("dup@example.com", "Dup", "", identity.RoleAgent)
		require.NoError(t, NewGormProfileRepository(db).Save(ctx, p))
		dup, err := agent.NewAgent(p.ID, f.agent.ReferralCode, nil, "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), ErrReferralCodeTaken)
	})

	t.Run("save with lock bumps the version", func(t *testing.T) {
		a, err := repo.FindByID(ctx, f.agent.ID)
		require.NoError(t, err)
		start := a.Version
		require.NoError(t, a.CreditSale(decimal.NewFromInt(800), decimal.NewFromInt(200)))
		require.NoError(t, repo.SaveWithLock(ctx, a))
		assert.Equal(t, start+1, a.Version)

		got, err := repo.FindByID(ctx, f.agent.ID)
		require.NoError(t, err)
		assert.Equal(t, start+1, got.Version)
		assert.True(t, got.AvailableBalance.Equal(decimal.NewFromInt(200)))
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		first, err := repo.FindByID(ctx, f.agent.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, f.agent.ID)
		require.NoError(t, err)

		first.SetCity("Mumbai")
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second.SetCity("Nashik")
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("unknown agent", func(t *testing.T) {
		ghost, err := agent.NewAgent(uuid.New(), "GHOST1", nil, "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.SaveWithLock(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("lists sub-agents", func(t *testing.T) {
		p, _ := identity.NewProfile("sub@example.com", "Sub", "", identity.RoleAgent)
		require.NoError(t, NewGormProfileRepository(db).Save(ctx, p))
		sub, err := agent.NewAgent(p.ID, "SUBAGENT1", &f.agent.ID, "Pune")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, sub))

		subs, err := repo.FindSubAgents(ctx, f.agent.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, sub.ID, subs[0].ID)
	})
}

func TestCustomerRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormCustomerRepository(db)

	got, err := repo.FindBySlug(ctx, f.customer.Slug)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, got.ID)

	got.Social = customer.SocialLinks{Instagram: "https://instagram.com/ravi"}
	require.NoError(t, repo.Save(ctx, got))
	again, err := repo.FindByProfileID(ctx, f.customer.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/ravi", again.Social.Instagram)

	exists, err := repo.ExistsBySlug(ctx, f.customer.Slug)
	require.NoError(t, err)
	assert.True(t, exists)

	p, _ := identity.NewProfile("other@example.com", "Other", "", identity.RoleCustomer)
	require.NoError(t, NewGormProfileRepository(db).Save(ctx, p))
	dup, err := customer.NewCustomer(p.ID, f.customer.Slug, "Other", "", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), ErrSlugTaken)
}

func TestOrderRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormOrderRepository(db)
	year := time.Now().Year()

	t.Run("order numbers start at one and increase", func(t *testing.T) {
		n, err := repo.GenerateOrderNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("TO-%d-00001", year), n)

		require.NoError(t, repo.Save(ctx, newOrder(t, f, n, &f.agent.ID, 800)))

		n, err = repo.GenerateOrderNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("TO-%d-00002", year), n)
	})

	t.Run("duplicate number is reported", func(t *testing.T) {
		o := newOrder(t, f, fmt.Sprintf("TO-%d-00001", year), nil, 900)
		assert.ErrorIs(t, repo.Save(ctx, o), order.ErrOrderNumberTaken)
	})

	t.Run("round trips JSON columns", func(t *testing.T) {
		got, err := repo.FindByOrderNumber(ctx, fmt.Sprintf("to-%d-00001", year))
		require.NoError(t, err)
		assert.Equal(t, "Pune", got.ShippingAddress.City)
		assert.True(t, got.CommissionAmount.Equal(decimal.NewFromInt(200)))
		assert.NotNil(t, got.Personalization)
	})

	t.Run("save with lock detects races", func(t *testing.T) {
		first, err := repo.FindByOrderNumber(ctx, fmt.Sprintf("TO-%d-00001", year))
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)

		_, err = first.TransitionTo(order.StatusApproved, order.TransitionInput{})
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, first))

		_, err = second.TransitionTo(order.StatusRejected, order.TransitionInput{Reason: "dup"})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.SaveWithLock(ctx, second), shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusApproved, stored.Status)
		assert.True(t, stored.CommissionCredited)
		assert.NotNil(t, stored.ApprovedAt)
	})

	t.Run("agent listing and count", func(t *testing.T) {
		filter := shared.DefaultFilter()
		orders, err := repo.FindByAgent(ctx, f.agent.ID, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 1)

		filter.Filters["status"] = string(order.StatusApproved)
		count, err := repo.CountByAgent(ctx, f.agent.ID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("summaries join names", func(t *testing.T) {
		direct := newOrder(t, f, fmt.Sprintf("TO-%d-00002", year), nil, 950)
		require.NoError(t, repo.Save(ctx, direct))

		rows, err := repo.ListSummaries(ctx, order.SummaryFilter{})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		byNumber := map[string]order.OrderSummary{}
		for _, r := range rows {
			byNumber[r.OrderNumber] = r
		}
		agentRow := byNumber[fmt.Sprintf("TO-%d-00001", year)]
		assert.Equal(t, "Asha Agent", agentRow.AgentName)
		assert.Equal(t, "Ravi Kumar", agentRow.CustomerName)
		assert.Equal(t, "Matte Black", agentRow.CardDesignName)

		directRow := byNumber[fmt.Sprintf("TO-%d-00002", year)]
		assert.Empty(t, directRow.AgentName)
		assert.True(t, directRow.IsDirectSale)

		onlyAgent, err := repo.ListSummaries(ctx, order.SummaryFilter{AgentID: &f.agent.ID})
		require.NoError(t, err)
		assert.Len(t, onlyAgent, 1)

		one, err := repo.GetSummary(ctx, direct.ID)
		require.NoError(t, err)
		assert.Equal(t, direct.OrderNumber, one.OrderNumber)

		_, err = repo.GetSummary(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderRepository_GenerateOrderNumberPastFiveDigits(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormOrderRepository(db)
	year := time.Now().Year()

	require.NoError(t, repo.Save(ctx, newOrder(t, f, fmt.Sprintf("TO-%d-99998", year), nil, 800)))
	require.NoError(t, repo.Save(ctx, newOrder(t, f, fmt.Sprintf("TO-%d-99999", year), nil, 800)))

	n, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TO-%d-100000", year), n)
	require.NoError(t, repo.Save(ctx, newOrder(t, f, n, nil, 800)))

	n, err = repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TO-%d-100001", year), n)
}

func TestBalanceLedger_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	orders := NewGormOrderRepository(db)
	ledger := NewGormBalanceLedger(db)

	p, _ := identity.NewProfile("child@example.com", "Child", "", identity.RoleAgent)
	require.NoError(t, NewGormProfileRepository(db).Save(ctx, p))
	child, err := agent.NewAgent(p.ID, "CHILD01", &f.agent.ID, "")
	require.NoError(t, err)
	require.NoError(t, NewGormAgentRepository(db).Save(ctx, child))

	credited := newOrder(t, f, "TO-2026-00011", &f.agent.ID, 800)
	_, err = credited.TransitionTo(order.StatusApproved, order.TransitionInput{})
	require.NoError(t, err)
	require.NoError(t, orders.Save(ctx, credited))

	pending := newOrder(t, f, "TO-2026-00012", &f.agent.ID, 1000)
	require.NoError(t, orders.Save(ctx, pending))

	childOrder := newOrder(t, f, "TO-2026-00013", &child.ID, 1000)
	childOrder.OverrideCommission = decimal.NewFromInt(20)
	childOrder.CreditOverrideTo(f.agent.ID)
	require.NoError(t, orders.Save(ctx, childOrder))

	// moving the child away keeps the override with the agent that was credited
	require.NoError(t, child.SetParent(nil))
	require.NoError(t, NewGormAgentRepository(db).Save(ctx, child))

	payout, err := agent.NewPayout(f.agent.ID, decimal.NewFromInt(50), agent.PaymentMethodUPI, "", "")
	require.NoError(t, err)
	require.NoError(t, payout.Complete(uuid.New(), "UTR123"))
	require.NoError(t, NewGormPayoutRepository(db).Save(ctx, payout))

	commission, err := ledger.CreditedCommission(ctx, f.agent.ID)
	require.NoError(t, err)
	assert.True(t, commission.Equal(decimal.NewFromInt(200)), commission.String())

	override, err := ledger.CreditedOverride(ctx, f.agent.ID)
	require.NoError(t, err)
	assert.True(t, override.Equal(decimal.NewFromInt(20)), override.String())

	paid, err := ledger.CompletedPayouts(ctx, f.agent.ID)
	require.NoError(t, err)
	assert.True(t, paid.Equal(decimal.NewFromInt(50)), paid.String())

	none, err := ledger.CreditedCommission(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestAgentMspRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormAgentMspRepository(db)

	m, err := catalog.NewAgentMsp(f.agent.ID, f.design.ID, decimal.NewFromInt(550))
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, m))

	again, err := catalog.NewAgentMsp(f.agent.ID, f.design.ID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, again))

	all, err := repo.FindByAgent(ctx, f.agent.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].MSP.Equal(decimal.NewFromInt(500)))

	require.NoError(t, repo.Delete(ctx, f.agent.ID, f.design.ID))
	_, err = repo.Find(ctx, f.agent.ID, f.design.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, f.agent.ID, f.design.ID), shared.ErrNotFound)
}

func TestNotificationRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormNotificationRepository(db)

	first, err := notification.NewNotification(f.profile.ID, notification.TypeOrderSubmitted, "New order", "", "")
	require.NoError(t, err)
	second, err := notification.NewNotification(f.profile.ID, notification.TypeSystem, "Welcome", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, []*notification.Notification{first, second}))

	first.MarkRead()
	require.NoError(t, repo.Save(ctx, first))

	unread, err := repo.FindByProfile(ctx, f.profile.ID, true, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	total, err := repo.CountByProfile(ctx, f.profile.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestExpenseRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewGormExpenseRepository(db)

	day := time.Now().UTC().AddDate(0, 0, -1)
	for _, e := range []struct {
		cat    finance.ExpenseCategory
		amount int64
	}{
		{finance.ExpenseCategoryPrinting, 1200},
		{finance.ExpenseCategoryPrinting, 300},
		{finance.ExpenseCategoryShipping, 150},
	} {
		exp, err := finance.NewExpense(e.cat, decimal.NewFromInt(e.amount), "batch", day, f.profile.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, exp))
	}

	totals, err := repo.SumByCategory(ctx, nil, nil)
	require.NoError(t, err)
	assert.True(t, totals[finance.ExpenseCategoryPrinting].Equal(decimal.NewFromInt(1500)))
	assert.True(t, totals[finance.ExpenseCategoryShipping].Equal(decimal.NewFromInt(150)))

	count, err := repo.Count(ctx, finance.ExpenseFilter{Category: finance.ExpenseCategoryPrinting})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormTransactionScope_SQLite(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	scope := NewGormTransactionScope(db)
	boom := errors.New("boom")

	err := scope.Execute(ctx, func(repos transaction.Repositories) error {
		a, err := repos.Agents().FindByID(ctx, f.agent.ID)
		if err != nil {
			return err
		}
		if err := a.CreditSale(decimal.NewFromInt(800), decimal.NewFromInt(200)); err != nil {
			return err
		}
		if err := repos.Agents().SaveWithLock(ctx, a); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := NewGormAgentRepository(db).FindByID(ctx, f.agent.ID)
	require.NoError(t, err)
	assert.True(t, stored.AvailableBalance.IsZero())

	err = scope.Execute(ctx, func(repos transaction.Repositories) error {
		a, err := repos.Agents().FindByID(ctx, f.agent.ID)
		if err != nil {
			return err
		}
		if err := a.CreditSale(decimal.NewFromInt(800), decimal.NewFromInt(200)); err != nil {
			return err
		}
		return repos.Agents().SaveWithLock(ctx, a)
	})
	require.NoError(t, err)

	stored, err = NewGormAgentRepository(db).FindByID(ctx, f.agent.ID)
	require.NoError(t, err)
	assert.True(t, stored.AvailableBalance.Equal(decimal.NewFromInt(200)))
}

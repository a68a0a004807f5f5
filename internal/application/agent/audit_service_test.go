package agent

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	ordersvc "github.com/taponce/backend/internal/application/order"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/internal/infrastructure/scheduler"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
)

type mockDriftRecorder struct {
	mock.Mock
}

func (m *mockDriftRecorder) RecordBalanceDrift(referralCode string, drift float64) {
	m.Called(referralCode, drift)
}

func (m *mockDriftRecorder) RecordAuditRun(result string) {
	m.Called(result)
}

var _ scheduler.Job = (*BalanceAuditService)(nil)

func TestBalanceAuditService_Audit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := fundedAgent(t, h, "TAPAUD001")

	_, err := h.payouts.Record(ctx, testutil.TestAdminID(), RecordPayoutRequest{
		AgentID: a.ID, Amount: decimal.NewFromInt(50), PaymentMethod: agent.PaymentMethodUPI,
	})
	require.NoError(t, err)

	audit, err := h.audit.Audit(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent(), audit.Drift.String())
	assert.True(t, audit.CreditedCommission.Equal(decimal.NewFromInt(200)))
	assert.True(t, audit.CompletedPayouts.Equal(decimal.NewFromInt(50)))
	assert.True(t, audit.DerivedBalance.Equal(decimal.NewFromInt(150)))

	t.Run("cancelled order reverses cleanly", func(t *testing.T) {
		orderID := h.sell(t, a.ID, 900, true)
		_, err := h.orders.UpdateStatus(ctx, orderID, ordersvc.UpdateStatusRequest{
			Status: order.StatusCancelled,
			Reason: "customer changed mind",
		})
		require.NoError(t, err)

		audit, err := h.audit.Audit(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, audit.Consistent(), audit.Drift.String())
	})
}

func TestBalanceAuditService_AuditAll(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	clean := fundedAgent(t, h, "TAPAUD010")
	drifted := fundedAgent(t, h, "TAPAUD011")

	// a write that bypassed the ledger
	stored := h.reload(t, drifted.ID)
	stored.AvailableBalance = stored.AvailableBalance.Add(decimal.NewFromInt(25))
	require.NoError(t, h.agents.SaveWithLock(ctx, stored))

	recorder := new(mockDriftRecorder)
	recorder.On("RecordBalanceDrift", clean.ReferralCode, float64(0)).Once()
	recorder.On("RecordBalanceDrift", drifted.ReferralCode, float64(25)).Once()
	recorder.On("RecordAuditRun", "ok").Once()

	svc := NewBalanceAuditService(h.agents, persistence.NewGormBalanceLedger(h.db), recorder, zap.NewNop())
	report, err := svc.AuditAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Audited)
	require.Len(t, report.Inconsistent, 1)
	assert.Equal(t, drifted.ID, report.Inconsistent[0].AgentID)
	assert.True(t, report.Inconsistent[0].Drift.Equal(decimal.NewFromInt(25)))
	recorder.AssertExpectations(t)

	// the audit never writes
	assert.True(t, h.reload(t, drifted.ID).AvailableBalance.Equal(decimal.NewFromInt(225)))
}

func TestBalanceAuditService_Job(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, AuditJobName, h.audit.Name())
	assert.NoError(t, h.audit.Run(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recorder := new(mockDriftRecorder)
	recorder.On("RecordAuditRun", "error").Once()
	svc := NewBalanceAuditService(h.agents, persistence.NewGormBalanceLedger(h.db), recorder, zap.NewNop())
	assert.ErrorIs(t, svc.Run(ctx), context.Canceled)
	recorder.AssertExpectations(t)
}

package agent

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ordersvc "github.com/taponce/backend/internal/application/order"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db        *gorm.DB
	service   *AgentService
	payouts   *PayoutService
	audit     *BalanceAuditService
	orders    *ordersvc.OrderService
	publisher *testutil.RecordingPublisher
	agents    *persistence.GormAgentRepository
	design    *catalog.CardDesign
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)

	agents := persistence.NewGormAgentRepository(db)
	designs := persistence.NewGormCardDesignRepository(db)
	msps := persistence.NewGormAgentMspRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	payoutRepo := persistence.NewGormPayoutRepository(db)

	h := &harness{
		db:        db,
		publisher: testutil.NewRecordingPublisher(),
		agents:    agents,
	}

	h.service = NewAgentService(Repositories{
		Agents:   agents,
		Profiles: persistence.NewGormProfileRepository(db),
		Payouts:  payoutRepo,
		Designs:  designs,
		Msps:     msps,
		Orders:   orderRepo,
	}, scope, ServiceConfig{PublicURL: "https://taponce.in/"}, zap.NewNop())
	h.service.SetEventPublisher(h.publisher)

	h.payouts = NewPayoutService(payoutRepo, agents, scope, zap.NewNop())
	h.payouts.SetEventPublisher(h.publisher)

	h.audit = NewBalanceAuditService(agents, persistence.NewGormBalanceLedger(db), nil, zap.NewNop())

	h.orders = ordersvc.NewOrderService(ordersvc.Repositories{
		Orders:    orderRepo,
		Query:     orderRepo,
		Designs:   designs,
		Msps:      msps,
		Agents:    agents,
		Customers: persistence.NewGormCustomerRepository(db),
	}, scope, ordersvc.ServiceConfig{Policy: order.DefaultCommissionPolicy()}, zap.NewNop())

	var err error
	h.design, err = catalog.NewCardDesign("Matte Black", "pvc", decimal.NewFromInt(600))
	require.NoError(t, err)
	require.NoError(t, designs.Save(context.Background(), h.design))
	return h
}

func (h *harness) createAgent(t *testing.T, email, code string, parentID *uuid.UUID) *CreateAgentResponse {
	t.Helper()
	resp, err := h.service.Create(context.Background(), CreateAgentRequest{
		FullName:     "Agent " + code,
		Email:        email,
		Phone:        "9800000000",
		City:         "Pune",
		Password:     "s3cret-pass",
		ReferralCode: code,
		ParentID:     parentID,
	})
	require.NoError(t, err)
	return resp
}

// sell submits an agent order and optionally approves it
func (h *harness) sell(t *testing.T, agentID uuid.UUID, price int64, approve bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	designID := h.design.ID
	resp, err := h.orders.Submit(ctx, &agentID, ordersvc.SubmitOrderRequest{
		CardDesignID: &designID,
		SalePrice:    decimal.NewFromInt(price),
		Customer: ordersvc.CustomerInput{
			FullName: "Ravi Kumar",
			Email:    "ravi@example.com",
			Phone:    "9123456780",
		},
	}, ordersvc.IdempotencyKey{})
	require.NoError(t, err)
	if approve {
		_, err = h.orders.UpdateStatus(ctx, resp.OrderID, ordersvc.UpdateStatusRequest{Status: order.StatusApproved})
		require.NoError(t, err)
	}
	return resp.OrderID
}

func (h *harness) reload(t *testing.T, id uuid.UUID) *agent.Agent {
	t.Helper()
	a, err := h.agents.FindByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestAgentService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("referral code links the parent", func(t *testing.T) {
		h := newHarness(t)
		parent := h.createAgent(t, "parent@example.com", "TAPPARENT1", nil)
		h.publisher.Reset()

		resp, err := h.service.Apply(ctx, ApplyRequest{
			FullName:     "Sana Shaikh",
			Email:        "Sana@Example.com",
			Phone:        "9811111111",
			City:         "Nashik",
			Password:     "long-enough",
			ReferralCode: " tapparent1 ",
		})
		require.NoError(t, err)

		assert.Equal(t, agent.AgentStatusPending, resp.Status)
		require.NotNil(t, resp.ParentAgentID)
		assert.Equal(t, parent.ID, *resp.ParentAgentID)
		assert.Equal(t, "sana@example.com", resp.Email)
		assert.Regexp(t, `^TAP[A-Z2-9]{6}$`, resp.ReferralCode)
		assert.Equal(t, "https://taponce.in/join?ref="+resp.ReferralCode, resp.ReferralLink)
		assert.Equal(t, []string{agent.EventTypeAgentApplied}, h.publisher.Types())
	})

	t.Run("unknown referral code is refused", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.service.Apply(ctx, ApplyRequest{
			FullName: "Sana Shaikh", Email: "sana@example.com", Phone: "9811111111",
			Password: "long-enough", ReferralCode: "NOPE1234",
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_REFERRAL_CODE", de.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := newHarness(t)
		h.createAgent(t, "sana@example.com", "", nil)

		_, err := h.service.Apply(ctx, ApplyRequest{
			FullName: "Sana Shaikh", Email: "SANA@example.com", Phone: "9811111111", Password: "long-enough",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestAgentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("active with explicit code", func(t *testing.T) {
		h := newHarness(t)
		resp := h.createAgent(t, "a@example.com", "tapzz999", nil)

		assert.Equal(t, agent.AgentStatusActive, resp.Status)
		assert.Equal(t, "TAPZZ999", resp.ReferralCode)
		assert.NotNil(t, resp.ApprovedAt)
		assert.Empty(t, resp.ClaimURL)
		assert.Equal(t, []string{agent.EventTypeAgentApplied, agent.EventTypeAgentStatusChanged}, h.publisher.Types())
	})

	t.Run("without password returns a claim link", func(t *testing.T) {
		h := newHarness(t)
		resp, err := h.service.Create(ctx, CreateAgentRequest{
			FullName: "Field Agent", Email: "field@example.com", Phone: "9800000000",
		})
		require.NoError(t, err)
		assert.Contains(t, resp.ClaimURL, "https://taponce.in/claim?token=")
	})

	t.Run("duplicate referral code", func(t *testing.T) {
		h := newHarness(t)
		h.createAgent(t, "a@example.com", "TAPDUP001", nil)

		_, err := h.service.Create(ctx, CreateAgentRequest{
			FullName: "Other", Email: "b@example.com", Phone: "9800000000", ReferralCode: "tapdup001",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("parent by referral code", func(t *testing.T) {
		h := newHarness(t)
		parent := h.createAgent(t, "p@example.com", "TAPPARENT2", nil)

		resp, err := h.service.Create(ctx, CreateAgentRequest{
			FullName: "Child", Email: "c@example.com", Phone: "9800000000", ParentCode: "tapparent2",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.ParentAgentID)
		assert.Equal(t, parent.ID, *resp.ParentAgentID)
	})
}

func TestAgentService_Update(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	parent := h.createAgent(t, "p@example.com", "TAPPARENT3", nil)
	child := h.createAgent(t, "c@example.com", "TAPCHILD03", nil)

	suspended := agent.AgentStatusSuspended
	city := "Mumbai"
	resp, err := h.service.Update(ctx, child.ID, UpdateAgentRequest{
		Status:        &suspended,
		ParentAgentID: &parent.ID,
		City:          &city,
		PayoutDetails: &PayoutDetailsInput{UPIID: "child@upi"},
	})
	require.NoError(t, err)
	assert.Equal(t, agent.AgentStatusSuspended, resp.Status)
	assert.Equal(t, "Mumbai", resp.City)
	assert.Equal(t, "child@upi", resp.UPIID)
	require.NotNil(t, resp.ParentAgentID)
	assert.Equal(t, parent.ID, *resp.ParentAgentID)

	t.Run("sub-agent cannot become the parent", func(t *testing.T) {
		_, err := h.service.Update(ctx, parent.ID, UpdateAgentRequest{ParentAgentID: &child.ID})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PARENT", de.Code)
	})

	t.Run("cannot return to pending", func(t *testing.T) {
		pending := agent.AgentStatusPending
		_, err := h.service.Update(ctx, child.ID, UpdateAgentRequest{Status: &pending})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("clear parent", func(t *testing.T) {
		resp, err := h.service.Update(ctx, child.ID, UpdateAgentRequest{ClearParent: true})
		require.NoError(t, err)
		assert.Nil(t, resp.ParentAgentID)
	})
}

func TestAgentService_List(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.createAgent(t, "a@example.com", "TAPLIST01", nil)
	h.createAgent(t, "b@example.com", "TAPLIST02", nil)
	_, err := h.service.Apply(ctx, ApplyRequest{
		FullName: "Pending", Email: "c@example.com", Phone: "9800000000", Password: "long-enough",
	})
	require.NoError(t, err)

	page, err := h.service.List(ctx, AgentListFilter{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)

	page, err = h.service.List(ctx, AgentListFilter{Search: "TAPLIST02"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b@example.com", page.Items[0].Email)
}

func TestAgentService_MSP(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.createAgent(t, "a@example.com", "TAPMSP001", nil)

	msp := decimal.NewFromInt(500)
	rows, err := h.service.SetMSP(ctx, a.ID, SetMSPRequest{Items: []MSPItem{{CardDesignID: h.design.ID, MSP: &msp}}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].EffectiveMSP.Equal(msp))
	require.NotNil(t, rows[0].OverrideMSP)
	assert.True(t, rows[0].BaseMSP.Equal(decimal.NewFromInt(600)))

	rows, err = h.service.SetMSP(ctx, a.ID, SetMSPRequest{Items: []MSPItem{{CardDesignID: h.design.ID}}})
	require.NoError(t, err)
	assert.Nil(t, rows[0].OverrideMSP)
	assert.True(t, rows[0].EffectiveMSP.Equal(decimal.NewFromInt(600)))

	t.Run("unknown design", func(t *testing.T) {
		_, err := h.service.SetMSP(ctx, a.ID, SetMSPRequest{Items: []MSPItem{{CardDesignID: uuid.New(), MSP: &msp}}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAgentService_DashboardAndNetwork(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	parent := h.createAgent(t, "p@example.com", "TAPNET001", nil)
	child := h.createAgent(t, "c@example.com", "TAPNET002", &parent.ID)

	h.sell(t, child.ID, 800, true)
	h.sell(t, child.ID, 1000, false)

	dash, err := h.service.Dashboard(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalOrders)
	assert.Equal(t, 1, dash.OrdersByStatus[order.StatusApproved])
	assert.Equal(t, 1, dash.OrdersByStatus[order.StatusPendingApproval])
	// 100 + 0.5 x (1000 - 600)
	assert.True(t, dash.PendingCommission.Equal(decimal.NewFromInt(300)), dash.PendingCommission.String())
	assert.True(t, dash.Agent.AvailableBalance.Equal(decimal.NewFromInt(200)))
	assert.Len(t, dash.RecentOrders, 2)

	network, err := h.service.Network(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, network.Members, 1)
	member := network.Members[0]
	assert.Equal(t, "TAPNET002", member.ReferralCode)
	assert.Equal(t, "Agent TAPNET002", member.FullName)
	assert.Equal(t, 2, member.OrderCount)
	assert.True(t, member.OverrideEarned.Equal(decimal.NewFromInt(16)), member.OverrideEarned.String())
	assert.True(t, member.OverridePending.Equal(decimal.NewFromInt(20)), member.OverridePending.String())
	assert.False(t, network.OverrideCredited)

	parentDash, err := h.service.Dashboard(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, parentDash.SubAgentCount)
	assert.True(t, parentDash.Agent.AvailableBalance.IsZero())
}

func TestAgentService_ReferralQR(t *testing.T) {
	h := newHarness(t)
	a := h.createAgent(t, "a@example.com", "TAPQR0001", nil)

	png, err := h.service.ReferralQR(context.Background(), a.ID, 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = h.service.ReferralQR(context.Background(), uuid.New(), 256)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAgentService_GetByProfile(t *testing.T) {
	h := newHarness(t)
	a := h.createAgent(t, "a@example.com", "TAPPROF01", nil)

	found, err := h.service.GetByProfile(context.Background(), a.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	p, err := persistence.NewGormProfileRepository(h.db).FindByID(context.Background(), a.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAgent, p.Role)
	assert.True(t, p.VerifyPassword("s3cret-pass"))
}

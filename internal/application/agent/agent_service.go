// Package agent holds the agent network use cases: applications, admin
// management, per-agent MSP overrides, the agent portal views, payouts and
// the balance audit.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/qrcode"
	"go.uber.org/zap"
)

// referralAttempts bounds the retries on a generated code collision
const referralAttempts = 5

// recentOrderCount is how many orders the dashboard shows
const recentOrderCount = 5

// ServiceConfig carries the link and token settings
type ServiceConfig struct {
	PublicURL      string
	ClaimTokenTTL  time.Duration
	CreditOverride bool
}

// Repositories groups the read-side dependencies of the service
type Repositories struct {
	Agents   agent.AgentRepository
	Profiles identity.ProfileRepository
	Payouts  agent.PayoutRepository
	Designs  catalog.CardDesignRepository
	Msps     catalog.AgentMspRepository
	Orders   order.OrderQuery
}

// AgentService handles agent business operations
type AgentService struct {
	repos          Repositories
	scope          transaction.Scope
	config         ServiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAgentService creates a new AgentService
func NewAgentService(repos Repositories, scope transaction.Scope, config ServiceConfig, logger *zap.Logger) *AgentService {
	if config.ClaimTokenTTL <= 0 {
		config.ClaimTokenTTL = 72 * time.Hour
	}
	config.PublicURL = strings.TrimRight(config.PublicURL, "/")
	return &AgentService{
		repos:  repos,
		scope:  scope,
		config: config,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AgentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Apply registers a pending agent. A referral code that resolves to an agent
// makes that agent the parent; an unknown code is refused.
func (s *AgentService) Apply(ctx context.Context, req ApplyRequest) (*AgentResponse, error) {
	var parentID *uuid.UUID
	if code := agent.NormalizeReferralCode(req.ReferralCode); code != "" {
		parent, err := s.repos.Agents.FindByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code does not match any agent")
			}
			return nil, err
		}
		parentID = &parent.ID
	}

	profile, err := identity.NewProfileWithPassword(req.Email, req.FullName, req.Phone, identity.RoleAgent, req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.register(ctx, profile, "", parentID, req.City, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Agent applied",
		zap.String("agent_id", created.ID.String()),
		zap.String("referral_code", created.ReferralCode),
		zap.Bool("referred", parentID != nil),
	)
	resp := s.toResponse(created, profile)
	return &resp, nil
}

// Create registers an active agent on behalf of an admin
func (s *AgentService) Create(ctx context.Context, req CreateAgentRequest) (*CreateAgentResponse, error) {
	parentID, err := s.resolveParent(ctx, req.ParentID, req.ParentCode)
	if err != nil {
		return nil, err
	}

	var profile *identity.Profile
	if req.Password != "" {
		profile, err = identity.NewProfileWithPassword(req.Email, req.FullName, req.Phone, identity.RoleAgent, req.Password)
	} else {
		profile, err = identity.NewProfile(req.Email, req.FullName, req.Phone, identity.RoleAgent)
	}
	if err != nil {
		return nil, err
	}

	var claimToken string
	if !profile.HasPassword() {
		if claimToken, err = profile.IssueClaimToken(s.config.ClaimTokenTTL); err != nil {
			return nil, err
		}
	}

	code := agent.NormalizeReferralCode(req.ReferralCode)
	if code != "" {
		exists, err := s.repos.Agents.ExistsByReferralCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Agent with this referral code already exists")
		}
	}

	created, err := s.register(ctx, profile, code, parentID, req.City, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Agent created by admin", zap.String("agent_id", created.ID.String()))
	resp := &CreateAgentResponse{AgentResponse: s.toResponse(created, profile)}
	if claimToken != "" {
		resp.ClaimURL = s.config.PublicURL + "/claim?token=" + claimToken
	}
	return resp, nil
}

// register stores profile and agent in one transaction. An empty code is
// generated, retrying on collision.
func (s *AgentService) register(ctx context.Context, profile *identity.Profile, code string, parentID *uuid.UUID, city string, activate bool) (*agent.Agent, error) {
	// Check if email already exists
	exists, err := s.repos.Profiles.ExistsByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	if code == "" {
		if code, err = s.generateReferralCode(ctx); err != nil {
			return nil, err
		}
	}

	a, err := agent.NewAgent(profile.ID, code, parentID, city)
	if err != nil {
		return nil, err
	}
	if activate {
		if err := a.ChangeStatus(agent.AgentStatusActive); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Profiles().Save(ctx, profile); err != nil {
			return err
		}
		return repos.Agents().Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, a)
	return a, nil
}

func (s *AgentService) generateReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralAttempts; i++ {
		code, err := agent.GenerateReferralCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		exists, err := s.repos.Agents.ExistsByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.logger.Debug("Referral code collision, retrying", zap.String("code", code))
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "Could not allocate a unique referral code")
}

func (s *AgentService) resolveParent(ctx context.Context, id *uuid.UUID, code string) (*uuid.UUID, error) {
	if id != nil {
		parent, err := s.repos.Agents.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return &parent.ID, nil
	}
	if code = agent.NormalizeReferralCode(code); code != "" {
		parent, err := s.repos.Agents.FindByReferralCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return &parent.ID, nil
	}
	return nil, nil
}

// GetByID returns one agent
func (s *AgentService) GetByID(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	a, err := s.repos.Agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.withProfile(ctx, a)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetByProfile resolves the agent behind an authenticated profile
func (s *AgentService) GetByProfile(ctx context.Context, profileID uuid.UUID) (*agent.Agent, error) {
	return s.repos.Agents.FindByProfileID(ctx, profileID)
}

// List returns a page of agents
func (s *AgentService) List(ctx context.Context, filter AgentListFilter) (shared.Paginated[AgentResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}

	agents, err := s.repos.Agents.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[AgentResponse]{}, err
	}
	total, err := s.repos.Agents.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[AgentResponse]{}, err
	}

	items := make([]AgentResponse, 0, len(agents))
	for i := range agents {
		resp, err := s.withProfile(ctx, &agents[i])
		if err != nil {
			return shared.Paginated[AgentResponse]{}, err
		}
		items = append(items, resp)
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes status, parent, city or payout details
func (s *AgentService) Update(ctx context.Context, id uuid.UUID, req UpdateAgentRequest) (*AgentResponse, error) {
	a, err := s.repos.Agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := a.ChangeStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearParent:
		if err := a.SetParent(nil); err != nil {
			return nil, err
		}
	case req.ParentAgentID != nil:
		parent, err := s.repos.Agents.FindByID(ctx, *req.ParentAgentID)
		if err != nil {
			return nil, err
		}
		// one level only: the new parent must not sit under this agent
		if parent.ParentAgentID != nil && *parent.ParentAgentID == a.ID {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent agent is a sub-agent of this agent")
		}
		if err := a.SetParent(&parent.ID); err != nil {
			return nil, err
		}
	}

	if req.City != nil {
		a.SetCity(*req.City)
	}
	if d := req.PayoutDetails; d != nil {
		a.SetPayoutDetails(agent.PayoutDetails{
			UPIID:             d.UPIID,
			BankAccountName:   d.BankAccountName,
			BankAccountNumber: d.BankAccountNumber,
			BankIFSC:          d.BankIFSC,
		})
	}

	if err := s.repos.Agents.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)

	resp, err := s.withProfile(ctx, a)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetMSP upserts or removes per-design MSP overrides for an agent
func (s *AgentService) SetMSP(ctx context.Context, agentID uuid.UUID, req SetMSPRequest) ([]MSPResponse, error) {
	if _, err := s.repos.Agents.FindByID(ctx, agentID); err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := s.repos.Designs.FindByID(ctx, item.CardDesignID); err != nil {
			return nil, err
		}
		if item.MSP == nil {
			if err := s.repos.Msps.Delete(ctx, agentID, item.CardDesignID); err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			continue
		}
		m, err := catalog.NewAgentMsp(agentID, item.CardDesignID, *item.MSP)
		if err != nil {
			return nil, err
		}
		if err := s.repos.Msps.Upsert(ctx, m); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Agent MSP overrides updated", zap.String("agent_id", agentID.String()), zap.Int("items", len(req.Items)))
	return s.GetMSP(ctx, agentID)
}

// GetMSP returns the effective MSP of every active design for an agent
func (s *AgentService) GetMSP(ctx context.Context, agentID uuid.UUID) ([]MSPResponse, error) {
	designs, err := s.repos.Designs.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repos.Msps.FindByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	byDesign := make(map[uuid.UUID]*catalog.AgentMsp, len(overrides))
	for i := range overrides {
		byDesign[overrides[i].CardDesignID] = &overrides[i]
	}

	out := make([]MSPResponse, 0, len(designs))
	for i := range designs {
		d := &designs[i]
		row := MSPResponse{
			CardDesignID:   d.ID,
			CardDesignName: d.Name,
			BaseMSP:        d.BaseMSP,
		}
		override := byDesign[d.ID]
		if override != nil {
			msp := override.MSP
			row.OverrideMSP = &msp
		}
		row.EffectiveMSP = catalog.ResolveMSP(d, override)
		out = append(out, row)
	}
	return out, nil
}

// Dashboard returns the portal summary for an agent
func (s *AgentService) Dashboard(ctx context.Context, agentID uuid.UUID) (*DashboardResponse, error) {
	a, err := s.repos.Agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	profileResp, err := s.withProfile(ctx, a)
	if err != nil {
		return nil, err
	}

	rows, err := s.repos.Orders.ListSummaries(ctx, order.SummaryFilter{AgentID: &agentID})
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Agent:             profileResp,
		OrdersByStatus:    make(map[order.OrderStatus]int),
		TotalOrders:       len(rows),
		PendingCommission: decimal.Zero,
		PendingPayouts:    decimal.Zero,
		RecentOrders:      []order.OrderSummary{},
	}
	for _, r := range rows {
		resp.OrdersByStatus[r.Status]++
		if r.Status == order.StatusPendingApproval {
			resp.PendingCommission = resp.PendingCommission.Add(r.CommissionAmount)
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > recentOrderCount {
		rows = rows[:recentOrderCount]
	}
	resp.RecentOrders = append(resp.RecentOrders, rows...)

	pending, err := s.repos.Payouts.FindAll(ctx, agent.PayoutFilter{AgentID: &agentID, Status: agent.PayoutStatusPending})
	if err != nil {
		return nil, err
	}
	for _, p := range pending {
		resp.PendingPayouts = resp.PendingPayouts.Add(p.Amount)
	}

	subs, err := s.repos.Agents.FindSubAgents(ctx, agentID)
	if err != nil {
		return nil, err
	}
	resp.SubAgentCount = len(subs)
	return resp, nil
}

// Network lists direct sub-agents with their sales and the override they
// generate. Overrides on approved-and-later orders count as earned, those
// awaiting approval as pending.
func (s *AgentService) Network(ctx context.Context, agentID uuid.UUID) (*NetworkResponse, error) {
	subs, err := s.repos.Agents.FindSubAgents(ctx, agentID)
	if err != nil {
		return nil, err
	}

	resp := &NetworkResponse{
		Members:          make([]NetworkMember, 0, len(subs)),
		OverrideEarned:   decimal.Zero,
		OverridePending:  decimal.Zero,
		OverrideCredited: s.config.CreditOverride,
	}
	for i := range subs {
		sub := &subs[i]
		member := NetworkMember{
			AgentID:         sub.ID,
			ReferralCode:    sub.ReferralCode,
			Status:          sub.Status,
			City:            sub.City,
			TotalSales:      sub.TotalSales,
			OverrideEarned:  decimal.Zero,
			OverridePending: decimal.Zero,
			JoinedAt:        sub.CreatedAt,
		}
		if p, err := s.repos.Profiles.FindByID(ctx, sub.ProfileID); err == nil {
			member.FullName = p.FullName
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		rows, err := s.repos.Orders.ListSummaries(ctx, order.SummaryFilter{AgentID: &sub.ID})
		if err != nil {
			return nil, err
		}
		member.OrderCount = len(rows)
		for _, r := range rows {
			switch {
			case r.Status == order.StatusPendingApproval:
				member.OverridePending = member.OverridePending.Add(r.OverrideCommission)
			case countsAsEarned(r.Status):
				member.OverrideEarned = member.OverrideEarned.Add(r.OverrideCommission)
			}
		}
		resp.OverrideEarned = resp.OverrideEarned.Add(member.OverrideEarned)
		resp.OverridePending = resp.OverridePending.Add(member.OverridePending)
		resp.Members = append(resp.Members, member)
	}
	return resp, nil
}

func countsAsEarned(s order.OrderStatus) bool {
	switch s {
	case order.StatusRejected, order.StatusCancelled, order.StatusReturned, order.StatusPendingApproval:
		return false
	}
	return true
}

// ReferralLink is the public sign-up link carrying the agent's code
func (s *AgentService) ReferralLink(a *agent.Agent) string {
	return s.config.PublicURL + "/join?ref=" + a.ReferralCode
}

// ReferralQR renders the referral link as a PNG
func (s *AgentService) ReferralQR(ctx context.Context, agentID uuid.UUID, size int) ([]byte, error) {
	a, err := s.repos.Agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return qrcode.PNG(s.ReferralLink(a), size)
}

func (s *AgentService) withProfile(ctx context.Context, a *agent.Agent) (AgentResponse, error) {
	p, err := s.repos.Profiles.FindByID(ctx, a.ProfileID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return AgentResponse{}, err
	}
	return s.toResponse(a, p), nil
}

func (s *AgentService) toResponse(a *agent.Agent, p *identity.Profile) AgentResponse {
	resp := AgentResponse{
		ID:                a.ID,
		ProfileID:         a.ProfileID,
		ReferralCode:      a.ReferralCode,
		ReferralLink:      s.ReferralLink(a),
		ParentAgentID:     a.ParentAgentID,
		Status:            a.Status,
		City:              a.City,
		UPIID:             a.UPIID,
		BankAccountName:   a.BankAccountName,
		BankAccountNumber: a.BankAccountNumber,
		BankIFSC:          a.BankIFSC,
		TotalSales:        a.TotalSales,
		TotalEarnings:     a.TotalEarnings,
		AvailableBalance:  a.AvailableBalance,
		ApprovedAt:        a.ApprovedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if p != nil {
		resp.FullName = p.FullName
		resp.Email = p.Email
		resp.Phone = p.Phone
	}
	return resp
}

func (s *AgentService) publish(ctx context.Context, a *agent.Agent) {
	events := a.GetDomainEvents()
	a.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish agent events", zap.String("agent_id", a.ID.String()), zap.Error(err))
	}
}

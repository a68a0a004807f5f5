package agent

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvalidPayoutAction is returned for an unknown process action
var ErrInvalidPayoutAction = shared.NewDomainError("INVALID_ACTION", "Action must be complete or fail")

// PayoutService records and processes agent payouts. Completing a payout and
// debiting the balance happen in one transaction.
type PayoutService struct {
	payouts        agent.PayoutRepository
	agents         agent.AgentRepository
	scope          transaction.Scope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(payouts agent.PayoutRepository, agents agent.AgentRepository, scope transaction.Scope, logger *zap.Logger) *PayoutService {
	return &PayoutService{
		payouts: payouts,
		agents:  agents,
		scope:   scope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PayoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record stores a payout made by an admin. It defaults to completed, in
// which case the balance is debited immediately.
func (s *PayoutService) Record(ctx context.Context, adminID uuid.UUID, req RecordPayoutRequest) (*PayoutResponse, error) {
	status := req.Status
	if status == "" {
		status = agent.PayoutStatusCompleted
	}
	if status != agent.PayoutStatusPending && status != agent.PayoutStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATUS", "A recorded payout is pending or completed")
	}

	var p *agent.Payout
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		a, err := repos.Agents().FindByID(ctx, req.AgentID)
		if err != nil {
			return err
		}
		if err := a.CheckPayout(req.Amount); err != nil {
			return err
		}

		p, err = agent.NewPayout(a.ID, req.Amount, req.PaymentMethod, req.Reference, req.Notes)
		if err != nil {
			return err
		}
		if status == agent.PayoutStatusCompleted {
			if err := s.complete(ctx, repos, a, p, adminID, req.Reference); err != nil {
				return err
			}
		}
		return repos.Payouts().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payout recorded",
		zap.String("payout_id", p.ID.String()),
		zap.String("agent_id", p.AgentID.String()),
		zap.String("amount", p.Amount.StringFixed(2)),
		zap.String("status", string(p.Status)),
	)
	s.publish(ctx, p)
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// Request creates a pending payout on behalf of the agent itself
func (s *PayoutService) Request(ctx context.Context, agentID, requestedBy uuid.UUID, req RequestPayoutRequest) (*PayoutResponse, error) {
	a, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := a.CheckPayout(req.Amount); err != nil {
		return nil, err
	}

	p, err := agent.NewPayout(a.ID, req.Amount, req.PaymentMethod, "", req.Notes)
	if err != nil {
		return nil, err
	}
	p.RequestedBy = &requestedBy

	if err := s.payouts.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Payout requested",
		zap.String("payout_id", p.ID.String()),
		zap.String("agent_id", a.ID.String()),
		zap.String("amount", p.Amount.StringFixed(2)),
	)
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// Process completes or fails a pending payout
func (s *PayoutService) Process(ctx context.Context, id, adminID uuid.UUID, req ProcessPayoutRequest) (*PayoutResponse, error) {
	var p *agent.Payout
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		p, err = repos.Payouts().FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch req.Action {
		case "complete":
			if !p.IsPending() {
				return shared.NewDomainError("INVALID_STATE", "Payout is not pending")
			}
			a, err := repos.Agents().FindByID(ctx, p.AgentID)
			if err != nil {
				return err
			}
			if err := s.complete(ctx, repos, a, p, adminID, req.Reference); err != nil {
				return err
			}
		case "fail":
			if err := p.Fail(adminID, req.Reason); err != nil {
				return err
			}
		default:
			return ErrInvalidPayoutAction
		}
		return repos.Payouts().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payout processed",
		zap.String("payout_id", p.ID.String()),
		zap.String("status", string(p.Status)),
	)
	s.publish(ctx, p)
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// complete re-checks the balance, debits it and marks the payout paid
func (s *PayoutService) complete(ctx context.Context, repos transaction.Repositories, a *agent.Agent, p *agent.Payout, adminID uuid.UUID, reference string) error {
	if err := a.DebitPayout(p.Amount); err != nil {
		return err
	}
	if err := p.Complete(adminID, reference); err != nil {
		return err
	}
	if err := repos.Agents().SaveWithLock(ctx, a); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("Agent balance changed during payout", zap.String("agent_id", a.ID.String()))
		}
		return err
	}
	return nil
}

// List returns payouts for the admin view
func (s *PayoutService) List(ctx context.Context, filter PayoutListFilter) (shared.Paginated[PayoutResponse], error) {
	domainFilter := agent.PayoutFilter{Filter: shared.DefaultFilter(), Status: agent.PayoutStatus(filter.Status)}
	if filter.AgentID != "" {
		id, err := uuid.Parse(filter.AgentID)
		if err != nil {
			return shared.Paginated[PayoutResponse]{}, shared.NewDomainError("INVALID_INPUT", "agent_id is not a valid UUID")
		}
		domainFilter.AgentID = &id
	}
	return s.list(ctx, domainFilter, filter)
}

// ListForAgent returns only the agent's own payouts
func (s *PayoutService) ListForAgent(ctx context.Context, agentID uuid.UUID, filter PayoutListFilter) (shared.Paginated[PayoutResponse], error) {
	domainFilter := agent.PayoutFilter{Filter: shared.DefaultFilter(), AgentID: &agentID, Status: agent.PayoutStatus(filter.Status)}
	return s.list(ctx, domainFilter, filter)
}

func (s *PayoutService) list(ctx context.Context, domainFilter agent.PayoutFilter, filter PayoutListFilter) (shared.Paginated[PayoutResponse], error) {
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	payouts, err := s.payouts.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PayoutResponse]{}, err
	}
	total, err := s.payouts.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PayoutResponse]{}, err
	}

	items := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		items[i] = ToPayoutResponse(&payouts[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

func (s *PayoutService) publish(ctx context.Context, p *agent.Payout) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish payout events", zap.String("payout_id", p.ID.String()), zap.Error(err))
	}
}

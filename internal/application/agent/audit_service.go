package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditJobName is the scheduler name of the nightly audit
const AuditJobName = "balance-audit"

// auditPageSize is how many agents one audit pass loads at a time
const auditPageSize = 200

// DriftRecorder exports audit results
type DriftRecorder interface {
	RecordBalanceDrift(referralCode string, drift float64)
	RecordAuditRun(result string)
}

// AuditReport summarises a full audit pass
type AuditReport struct {
	Audited      int                  `json:"audited"`
	Inconsistent []agent.BalanceAudit `json:"inconsistent"`
}

// BalanceAuditService compares stored balances with the ledger. It only reads.
type BalanceAuditService struct {
	agents   agent.AgentRepository
	ledger   agent.BalanceLedger
	recorder DriftRecorder
	logger   *zap.Logger
}

// NewBalanceAuditService creates a new BalanceAuditService. recorder may be nil.
func NewBalanceAuditService(agents agent.AgentRepository, ledger agent.BalanceLedger, recorder DriftRecorder, logger *zap.Logger) *BalanceAuditService {
	return &BalanceAuditService{
		agents:   agents,
		ledger:   ledger,
		recorder: recorder,
		logger:   logger,
	}
}

// Audit checks one agent
func (s *BalanceAuditService) Audit(ctx context.Context, agentID uuid.UUID) (*agent.BalanceAudit, error) {
	a, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	audit, err := s.audit(ctx, a)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func (s *BalanceAuditService) audit(ctx context.Context, a *agent.Agent) (agent.BalanceAudit, error) {
	commission, err := s.ledger.CreditedCommission(ctx, a.ID)
	if err != nil {
		return agent.BalanceAudit{}, fmt.Errorf("credited commission: %w", err)
	}
	override, err := s.ledger.CreditedOverride(ctx, a.ID)
	if err != nil {
		return agent.BalanceAudit{}, fmt.Errorf("credited override: %w", err)
	}
	payouts, err := s.ledger.CompletedPayouts(ctx, a.ID)
	if err != nil {
		return agent.BalanceAudit{}, fmt.Errorf("completed payouts: %w", err)
	}

	audit := agent.NewBalanceAudit(a, commission, override, payouts)
	if s.recorder != nil {
		drift, _ := audit.Drift.Float64()
		s.recorder.RecordBalanceDrift(a.ReferralCode, drift)
	}
	return audit, nil
}

// AuditAll checks every agent page by page and logs each drift
func (s *BalanceAuditService) AuditAll(ctx context.Context) (report *AuditReport, err error) {
	defer func() {
		if s.recorder == nil {
			return
		}
		if err != nil {
			s.recorder.RecordAuditRun("error")
		} else {
			s.recorder.RecordAuditRun("ok")
		}
	}()

	report = &AuditReport{Inconsistent: []agent.BalanceAudit{}}
	filter := shared.DefaultFilter()
	filter.PageSize = auditPageSize
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		agents, err := s.agents.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range agents {
			audit, err := s.audit(ctx, &agents[i])
			if err != nil {
				return nil, err
			}
			report.Audited++
			if !audit.Consistent() {
				s.logger.Warn("Agent balance drift detected",
					zap.String("agent_id", audit.AgentID.String()),
					zap.String("referral_code", audit.ReferralCode),
					zap.String("stored", audit.StoredBalance.StringFixed(2)),
					zap.String("derived", audit.DerivedBalance.StringFixed(2)),
					zap.String("drift", audit.Drift.StringFixed(2)),
				)
				report.Inconsistent = append(report.Inconsistent, audit)
			}
		}
		if len(agents) < filter.PageSize {
			break
		}
		filter.Page++
	}

	s.logger.Info("Balance audit finished",
		zap.Int("audited", report.Audited),
		zap.Int("inconsistent", len(report.Inconsistent)),
	)
	return report, nil
}

// Name implements scheduler.Job
func (s *BalanceAuditService) Name() string {
	return AuditJobName
}

// Run implements scheduler.Job
func (s *BalanceAuditService) Run(ctx context.Context) error {
	_, err := s.AuditAll(ctx)
	return err
}

package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrReferralCodeTaken is returned when a referral code collides on insert
var ErrReferralCodeTaken = shared.NewDomainError("REFERRAL_CODE_TAKEN", "The referral code is already in use")

// GormAgentRepository implements agent.AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// FindByID finds an agent by its ID
func (r *GormAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProfileID finds the agent owned by a profile
func (r *GormAgentRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*agent.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByReferralCode finds an agent by referral code, case-insensitively
func (r *GormAgentRepository) FindByReferralCode(ctx context.Context, code string) (*agent.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).
		Where("referral_code = ?", agent.NormalizeReferralCode(code)).
		First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByReferralCode checks if a referral code is taken
func (r *GormAgentRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("referral_code = ?", agent.NormalizeReferralCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all agents matching the filter
func (r *GormAgentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]agent.Agent, error) {
	var agentModels []models.AgentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgentModel{}), filter)
	query = orderBy(paginate(query, filter), filter, AgentSortFields, "created_at")

	if err := query.Find(&agentModels).Error; err != nil {
		return nil, err
	}
	return toAgents(agentModels), nil
}

// Count counts agents matching the filter
func (r *GormAgentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindSubAgents lists agents recruited by parentID
func (r *GormAgentRepository) FindSubAgents(ctx context.Context, parentID uuid.UUID) ([]agent.Agent, error) {
	var agentModels []models.AgentModel
	if err := r.db.WithContext(ctx).
		Where("parent_agent_id = ?", parentID).
		Order("created_at ASC").
		Find(&agentModels).Error; err != nil {
		return nil, err
	}
	return toAgents(agentModels), nil
}

// Save creates or updates an agent
func (r *GormAgentRepository) Save(ctx context.Context, a *agent.Agent) error {
	model := models.AgentModelFromDomain(a)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, ErrReferralCodeTaken)
}

// SaveWithLock saves an agent with an optimistic version check
func (r *GormAgentRepository) SaveWithLock(ctx context.Context, a *agent.Agent) error {
	return saveWithLock(ctx, r.db, &models.AgentModel{}, a.ID, a, func() any {
		return models.AgentModelFromDomain(a)
	})
}

func (r *GormAgentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(referral_code) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "parent_agent_id":
			query = query.Where("parent_agent_id = ?", value)
		}
	}
	return query
}

func toAgents(agentModels []models.AgentModel) []agent.Agent {
	agents := make([]agent.Agent, len(agentModels))
	for i, model := range agentModels {
		agents[i] = *model.ToDomain()
	}
	return agents
}

// GormBalanceLedger derives agent balance components from order and payout rows
type GormBalanceLedger struct {
	db *gorm.DB
}

// NewGormBalanceLedger creates a new GormBalanceLedger
func NewGormBalanceLedger(db *gorm.DB) *GormBalanceLedger {
	return &GormBalanceLedger{db: db}
}

// CreditedCommission sums commission on the agent's orders that are currently credited
func (l *GormBalanceLedger) CreditedCommission(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	return l.sum(l.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(SUM(commission_amount), 0)").
		Where("agent_id = ? AND commission_credited = ?", agentID, true))
}

// CreditedOverride sums overrides currently held by agentID. The recipient
// is recorded on the order, so reparenting a seller does not move past credits.
func (l *GormBalanceLedger) CreditedOverride(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	return l.sum(l.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(SUM(override_commission), 0)").
		Where("override_agent_id = ?", agentID))
}

// CompletedPayouts sums the agent's completed payouts
func (l *GormBalanceLedger) CompletedPayouts(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	return l.sum(l.db.WithContext(ctx).
		Model(&models.PayoutModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("agent_id = ? AND status = ?", agentID, agent.PayoutStatusCompleted))
}

func (l *GormBalanceLedger) sum(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var (
	_ agent.AgentRepository = (*GormAgentRepository)(nil)
	_ agent.BalanceLedger   = (*GormBalanceLedger)(nil)
)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPayoutRepository implements agent.PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout by its ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*agent.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payouts, newest first unless the filter says otherwise
func (r *GormPayoutRepository) FindAll(ctx context.Context, filter agent.PayoutFilter) ([]agent.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter)
	query = orderBy(paginate(query, filter.Filter), filter.Filter, PayoutSortFields, "created_at")

	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	payouts := make([]agent.Payout, len(payoutModels))
	for i, model := range payoutModels {
		payouts[i] = *model.ToDomain()
	}
	return payouts, nil
}

// Count counts payouts matching the filter
func (r *GormPayoutRepository) Count(ctx context.Context, filter agent.PayoutFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payout
func (r *GormPayoutRepository) Save(ctx context.Context, p *agent.Payout) error {
	model := &models.PayoutModel{}
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormPayoutRepository) applyFilter(query *gorm.DB, filter agent.PayoutFilter) *gorm.DB {
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

var _ agent.PayoutRepository = (*GormPayoutRepository)(nil)

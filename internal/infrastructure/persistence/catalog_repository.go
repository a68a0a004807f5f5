package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCardDesignRepository implements catalog.CardDesignRepository using GORM
type GormCardDesignRepository struct {
	db *gorm.DB
}

// NewGormCardDesignRepository creates a new GormCardDesignRepository
func NewGormCardDesignRepository(db *gorm.DB) *GormCardDesignRepository {
	return &GormCardDesignRepository{db: db}
}

// FindByID finds a design by its ID
func (r *GormCardDesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CardDesign, error) {
	var model models.CardDesignModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all designs matching the filter
func (r *GormCardDesignRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.CardDesign, error) {
	var designModels []models.CardDesignModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CardDesignModel{}), filter)
	query = orderBy(paginate(query, filter), filter, CardDesignSortFields, "created_at")

	if err := query.Find(&designModels).Error; err != nil {
		return nil, err
	}
	return toDesigns(designModels), nil
}

// FindActive lists active designs by name, as shown in the order wizard
func (r *GormCardDesignRepository) FindActive(ctx context.Context) ([]catalog.CardDesign, error) {
	var designModels []models.CardDesignModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", catalog.DesignStatusActive).
		Order("name ASC").
		Find(&designModels).Error; err != nil {
		return nil, err
	}
	return toDesigns(designModels), nil
}

// Count counts designs matching the filter
func (r *GormCardDesignRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CardDesignModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a design
func (r *GormCardDesignRepository) Save(ctx context.Context, d *catalog.CardDesign) error {
	model := &models.CardDesignModel{}
	model.FromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormCardDesignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(material) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

func toDesigns(designModels []models.CardDesignModel) []catalog.CardDesign {
	designs := make([]catalog.CardDesign, len(designModels))
	for i, model := range designModels {
		designs[i] = *model.ToDomain()
	}
	return designs
}

// GormAgentMspRepository implements catalog.AgentMspRepository using GORM
type GormAgentMspRepository struct {
	db *gorm.DB
}

// NewGormAgentMspRepository creates a new GormAgentMspRepository
func NewGormAgentMspRepository(db *gorm.DB) *GormAgentMspRepository {
	return &GormAgentMspRepository{db: db}
}

// Find returns the override for the pair, or shared.ErrNotFound
func (r *GormAgentMspRepository) Find(ctx context.Context, agentID, designID uuid.UUID) (*catalog.AgentMsp, error) {
	var model models.AgentMspModel
	if err := r.db.WithContext(ctx).
		Where("agent_id = ? AND card_design_id = ?", agentID, designID).
		First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByAgent lists every override held by an agent
func (r *GormAgentMspRepository) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]catalog.AgentMsp, error) {
	var mspModels []models.AgentMspModel
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at ASC").
		Find(&mspModels).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.AgentMsp, len(mspModels))
	for i, model := range mspModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// Upsert inserts the override or replaces the MSP of the existing pair
func (r *GormAgentMspRepository) Upsert(ctx context.Context, m *catalog.AgentMsp) error {
	m.UpdatedAt = time.Now()
	model := &models.AgentMspModel{}
	model.FromDomain(m)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}, {Name: "card_design_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"msp", "updated_at"}),
	}).Create(model).Error
}

// Delete removes the override for the pair
func (r *GormAgentMspRepository) Delete(ctx context.Context, agentID, designID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("agent_id = ? AND card_design_id = ?", agentID, designID).
		Delete(&models.AgentMspModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ catalog.CardDesignRepository = (*GormCardDesignRepository)(nil)
	_ catalog.AgentMspRepository   = (*GormAgentMspRepository)(nil)
)

package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrSlugTaken is returned when a profile slug collides on insert
var ErrSlugTaken = shared.NewDomainError("SLUG_TAKEN", "The profile URL is already in use")

// GormCustomerRepository implements customer.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a customer by the public slug
func (r *GormCustomerRepository) FindBySlug(ctx context.Context, slug string) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProfileID finds the customer owned by a profile
func (r *GormCustomerRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	query = orderBy(paginate(query, filter), filter, CustomerSortFields, "created_at")

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]customer.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

// ExistsBySlug checks if a slug is taken
func (r *GormCustomerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	model := &models.CustomerModel{}
	model.FromDomain(c)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, ErrSlugTaken)
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(slug) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "profession":
			query = query.Where("profession = ?", value)
		}
	}
	return query
}

var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)

package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned when a profile email is already registered
var ErrEmailTaken = shared.NewDomainError("EMAIL_TAKEN", "A profile with this email already exists")

// GormProfileRepository implements identity.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by email, case-insensitively
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByClaimToken finds the profile holding an unclaimed token
func (r *GormProfileRepository) FindByClaimToken(ctx context.Context, token string) (*identity.Profile, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).Where("claim_token = ?", token).First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByRole lists every profile holding role, oldest first
func (r *GormProfileRepository) FindByRole(ctx context.Context, role identity.Role) ([]identity.Profile, error) {
	var profileModels []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}
	profiles := make([]identity.Profile, len(profileModels))
	for i, model := range profileModels {
		profiles[i] = *model.ToDomain()
	}
	return profiles, nil
}

// ExistsByEmail checks if a profile with the given email exists
func (r *GormProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, p *identity.Profile) error {
	model := models.ProfileModelFromDomain(p)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, ErrEmailTaken)
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/notification"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByProfile lists a profile's notifications, newest first
func (r *GormNotificationRepository) FindByProfile(ctx context.Context, profileID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, error) {
	var notificationModels []models.NotificationModel
	query := r.profileScope(ctx, profileID, unreadOnly)
	query = orderBy(paginate(query, filter), filter, NotificationSortFields, "created_at")

	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(notificationModels))
	for i, model := range notificationModels {
		out[i] = *model.ToDomain()
	}
	return out, nil
}

// CountByProfile counts a profile's notifications
func (r *GormNotificationRepository) CountByProfile(ctx context.Context, profileID uuid.UUID, unreadOnly bool) (int64, error) {
	var count int64
	if err := r.profileScope(ctx, profileID, unreadOnly).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := &models.NotificationModel{}
	model.FromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveBatch inserts several notifications in one statement
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, items []*notification.Notification) error {
	if len(items) == 0 {
		return nil
	}
	notificationModels := make([]*models.NotificationModel, len(items))
	for i, n := range items {
		notificationModels[i] = &models.NotificationModel{}
		notificationModels[i].FromDomain(n)
	}
	return r.db.WithContext(ctx).Create(notificationModels).Error
}

func (r *GormNotificationRepository) profileScope(ctx context.Context, profileID uuid.UUID, unreadOnly bool) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("profile_id = ?", profileID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	return query
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)

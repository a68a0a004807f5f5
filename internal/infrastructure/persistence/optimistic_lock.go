package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// versioned is implemented by aggregates carrying an optimistic lock version
type versioned interface {
	GetVersion() int
	IncrementVersion()
}

// saveWithLock checks the stored version against the aggregate, bumps it and
// writes every column guarded by the old version. toModel is called after
// the bump so the written row carries the new version.
func saveWithLock(ctx context.Context, db *gorm.DB, table any, id uuid.UUID, agg versioned, toModel func() any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		res := tx.Model(table).Where("id = ?", id).Select("version").Scan(&currentVersion)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != agg.GetVersion() {
			return shared.ErrConcurrencyConflict
		}

		agg.IncrementVersion()
		model := toModel()

		result := tx.Model(table).
			Where("id = ? AND version = ?", id, currentVersion).
			Select("*").
			Omit("id", "created_at").
			Updates(model)
		if result.Error != nil {
			return translateWriteError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

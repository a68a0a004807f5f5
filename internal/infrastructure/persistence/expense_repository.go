package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/finance"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter)
	query = orderBy(paginate(query, filter.Filter), filter.Filter, ExpenseSortFields, "incurred_on")

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]finance.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type categoryTotal struct {
	Category finance.ExpenseCategory
	Total    decimal.Decimal
}

// SumByCategory totals expenses per category within [from, to)
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, from, to *time.Time) (map[finance.ExpenseCategory]decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category")
	query = r.applyRange(query, from, to)

	var rows []categoryTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[finance.ExpenseCategory]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Total
	}
	return out, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	model := &models.ExpenseModel{}
	model.FromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	return r.applyRange(query, filter.From, filter.To)
}

func (r *GormExpenseRepository) applyRange(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("incurred_on >= ?", *from)
	}
	if to != nil {
		query = query.Where("incurred_on < ?", *to)
	}
	return query
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)

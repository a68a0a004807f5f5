package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// orderNumberPrefix is followed by the year and a five digit sequence, TO-2026-00001
const orderNumberPrefix = "TO"

// GormOrderRepository implements order.OrderRepository and order.OrderQuery using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its number, case-insensitively
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", strings.ToUpper(strings.TrimSpace(orderNumber))).
		First(&model).Error; err != nil {
		return nil, translateFindError(err)
	}
	return model.ToDomain(), nil
}

// FindByAgent lists orders submitted by an agent
func (r *GormOrderRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("agent_id = ?", agentID), filter)
	query = orderBy(paginate(query, filter), filter, OrderSortFields, "created_at")

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountByAgent counts an agent's orders matching the filter
func (r *GormOrderRepository) CountByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("agent_id = ?", agentID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order without a version check
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, order.ErrOrderNumberTaken)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return saveWithLock(ctx, r.db, &models.OrderModel{}, o.ID, o, func() any {
		o.UpdatedAt = time.Now()
		return models.OrderModelFromDomain(o)
	})
}

// GenerateOrderNumber returns the next number for the current year.
// Format: TO-YYYY-NNNNN (e.g., TO-2026-00001). The sequence grows past five
// digits, so the max is taken by length first. Concurrent callers may get the
// same number; Save then fails with order.ErrOrderNumberTaken.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", orderNumberPrefix, time.Now().Year())

	var last models.OrderModel
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.OrderNumber != "" {
		parts := strings.Split(last.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}
	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+strings.ToUpper(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		}
	}
	return query
}

// summaryRow is the scan target of the joined summary query
type summaryRow struct {
	ID                 uuid.UUID
	OrderNumber        string
	Status             order.OrderStatus
	PaymentStatus      order.PaymentStatus
	CustomerID         uuid.UUID
	CustomerName       string
	CustomerPhone      string
	AgentID            *uuid.UUID
	AgentName          string
	CardDesignID       uuid.UUID
	CardDesignName     string
	MSPAtOrder         decimal.Decimal `gorm:"column:msp_at_order"`
	SalePrice          decimal.Decimal
	CommissionAmount   decimal.Decimal
	OverrideCommission decimal.Decimal
	IsDirectSale       bool
	IsBelowMSP         bool `gorm:"column:is_below_msp"`
	TrackingNumber     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const summaryColumns = `orders.id, orders.order_number, orders.status, orders.payment_status,
	orders.customer_id, customers.full_name AS customer_name, customers.phone AS customer_phone,
	orders.agent_id, COALESCE(agent_profiles.full_name, '') AS agent_name,
	orders.card_design_id, card_designs.name AS card_design_name,
	orders.msp_at_order, orders.sale_price, orders.commission_amount, orders.override_commission,
	orders.is_direct_sale, orders.is_below_msp, orders.tracking_number, orders.created_at, orders.updated_at`

func (r *GormOrderRepository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders").
		Select(summaryColumns).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("JOIN card_designs ON card_designs.id = orders.card_design_id").
		Joins("LEFT JOIN agents ON agents.id = orders.agent_id").
		Joins("LEFT JOIN profiles agent_profiles ON agent_profiles.id = agents.profile_id")
}

// ListSummaries returns joined order rows, newest first
func (r *GormOrderRepository) ListSummaries(ctx context.Context, filter order.SummaryFilter) ([]order.OrderSummary, error) {
	query := r.summaryQuery(ctx)
	if filter.AgentID != nil {
		query = query.Where("orders.agent_id = ?", *filter.AgentID)
	}
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []summaryRow
	if err := query.Order("orders.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]order.OrderSummary, len(rows))
	for i, row := range rows {
		out[i] = row.toSummary()
	}
	return out, nil
}

// GetSummary returns the joined row for one order
func (r *GormOrderRepository) GetSummary(ctx context.Context, id uuid.UUID) (*order.OrderSummary, error) {
	var rows []summaryRow
	if err := r.summaryQuery(ctx).Where("orders.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	s := rows[0].toSummary()
	return &s, nil
}

func (row summaryRow) toSummary() order.OrderSummary {
	return order.OrderSummary{
		ID:                 row.ID,
		OrderNumber:        row.OrderNumber,
		Status:             row.Status,
		PaymentStatus:      row.PaymentStatus,
		CustomerID:         row.CustomerID,
		CustomerName:       row.CustomerName,
		CustomerPhone:      row.CustomerPhone,
		AgentID:            row.AgentID,
		AgentName:          row.AgentName,
		CardDesignID:       row.CardDesignID,
		CardDesignName:     row.CardDesignName,
		MSPAtOrder:         row.MSPAtOrder,
		SalePrice:          row.SalePrice,
		CommissionAmount:   row.CommissionAmount,
		OverrideCommission: row.OverrideCommission,
		IsDirectSale:       row.IsDirectSale,
		IsBelowMSP:         row.IsBelowMSP,
		TrackingNumber:     row.TrackingNumber,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

var (
	_ order.OrderRepository = (*GormOrderRepository)(nil)
	_ order.OrderQuery      = (*GormOrderRepository)(nil)
)

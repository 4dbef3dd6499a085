package persistence

import (
	"context"
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCommissionEarnedRepository implements commission.EarnedRepository using GORM
type GormCommissionEarnedRepository struct {
	db *gorm.DB
}

// NewGormCommissionEarnedRepository creates a new GormCommissionEarnedRepository
func NewGormCommissionEarnedRepository(db *gorm.DB) *GormCommissionEarnedRepository {
	return &GormCommissionEarnedRepository{db: db}
}

// Create inserts an earned commission. A second row for the same sale item or
// service order fails with shared.ErrAlreadyExists.
func (r *GormCommissionEarnedRepository) Create(ctx context.Context, earned *commission.Earned) error {
	if err := r.db.WithContext(ctx).Create(models.CommissionEarnedModelFromDomain(earned)).Error; err != nil {
		return translateError("insert commission earned", err)
	}
	return nil
}

type performanceRow struct {
	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
	Entries         int64
}

// SumByUser aggregates a user's earned rows created within [start, end]
func (r *GormCommissionEarnedRepository) SumByUser(ctx context.Context, userID string, start, end time.Time) (*commission.Performance, error) {
	var row performanceRow
	err := r.db.WithContext(ctx).
		Model(&models.CommissionEarnedModel{}).
		Select("COALESCE(SUM(base_amount), 0) AS total_sales, "+
			"COALESCE(SUM(commission_amount), 0) AS total_commission, "+
			"COUNT(*) AS entries").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Scan(&row).Error
	if err != nil {
		return nil, translateError("sum commission earned", err)
	}

	perf := commission.NewPerformance(userID, start, end)
	perf.TotalSales = row.TotalSales
	perf.TotalCommission = row.TotalCommission
	perf.Entries = row.Entries
	return perf, nil
}

// FindByUser returns a page of a user's earned rows and the total count
func (r *GormCommissionEarnedRepository) FindByUser(ctx context.Context, userID string, filter shared.Filter) ([]commission.Earned, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionEarnedModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError("count commission earned", err)
	}

	var rows []models.CommissionEarnedModel
	if err := query.Order(orderByCreated(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError("list commission earned", err)
	}

	earned := make([]commission.Earned, len(rows))
	for i := range rows {
		earned[i] = *rows[i].ToDomain()
	}
	return earned, total, nil
}

// ExistsBySale reports whether any commission was recorded for the sale
func (r *GormCommissionEarnedRepository) ExistsBySale(ctx context.Context, saleID string) (bool, error) {
	return r.exists(ctx, "sale_id = ?", saleID)
}

// ExistsByServiceOrder reports whether a commission was recorded for the order
func (r *GormCommissionEarnedRepository) ExistsByServiceOrder(ctx context.Context, serviceOrderID string) (bool, error) {
	return r.exists(ctx, "service_order_id = ?", serviceOrderID)
}

func (r *GormCommissionEarnedRepository) exists(ctx context.Context, cond string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommissionEarnedModel{}).
		Where(cond, arg).
		Count(&count).Error; err != nil {
		return false, translateError("check commission earned", err)
	}
	return count > 0, nil
}

// Ensure GormCommissionEarnedRepository implements commission.EarnedRepository
var _ commission.EarnedRepository = (*GormCommissionEarnedRepository)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/erp/salesledger/internal/domain/planning"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements planning.AnalyticsRepository over the
// point-of-sale tables. Only completed sales are counted.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

type revenueRow struct {
	ProductID   string
	ProductName string
	Revenue     decimal.Decimal
}

// ProductRevenueWindow sums sale item totals per product for completed sales
// created at or after since. Products with no sales in the window are absent.
func (r *GormAnalyticsRepository) ProductRevenueWindow(ctx context.Context, since time.Time) ([]planning.ProductRevenue, error) {
	var rows []revenueRow
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("si.product_id AS product_id, p.name AS product_name, COALESCE(SUM(si.total_price), 0) AS revenue").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("s.status = ? AND s.created_at >= ?", models.SaleStatusCompleted, since).
		Group("si.product_id, p.name").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("product revenue window", err)
	}

	out := make([]planning.ProductRevenue, len(rows))
	for i, row := range rows {
		out[i] = planning.ProductRevenue{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Revenue:     row.Revenue,
		}
	}
	return out, nil
}

type stockRow struct {
	ProductID    string
	ProductName  string
	CurrentStock decimal.Decimal
	Sold         decimal.Decimal
}

// StockAndConsumption returns every product's stock with the units sold since
// the given time averaged over windowDays
func (r *GormAnalyticsRepository) StockAndConsumption(ctx context.Context, since time.Time, windowDays int) ([]planning.StockConsumption, error) {
	db := r.db.WithContext(ctx)

	sold := db.Table("sale_items AS si").
		Select("si.product_id AS product_id, SUM(si.quantity) AS sold").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.status = ? AND s.created_at >= ?", models.SaleStatusCompleted, since).
		Group("si.product_id")

	var rows []stockRow
	err := db.Table("products AS p").
		Select("p.id AS product_id, p.name AS product_name, p.stock_quantity AS current_stock, COALESCE(c.sold, 0) AS sold").
		Joins("LEFT JOIN (?) AS c ON c.product_id = p.id", sold).
		Order("p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("stock and consumption", err)
	}

	days := decimal.NewFromInt(int64(max(windowDays, 1)))
	out := make([]planning.StockConsumption, len(rows))
	for i, row := range rows {
		out[i] = planning.StockConsumption{
			ProductID:            row.ProductID,
			ProductName:          row.ProductName,
			CurrentStock:         row.CurrentStock,
			AvgConsumptionPerDay: row.Sold.Div(days),
		}
	}
	return out, nil
}

// Ensure GormAnalyticsRepository implements planning.AnalyticsRepository
var _ planning.AnalyticsRepository = (*GormAnalyticsRepository)(nil)

package planning

import (
	"context"
	"time"
)

// AnalyticsRepository reads the sales and stock aggregates planning needs
type AnalyticsRepository interface {
	// ProductRevenueWindow sums completed sale revenue per product since the given time
	ProductRevenueWindow(ctx context.Context, since time.Time) ([]ProductRevenue, error)
	// StockAndConsumption returns current stock and the average units sold per
	// day over windowDays days ending now
	StockAndConsumption(ctx context.Context, since time.Time, windowDays int) ([]StockConsumption, error)
}

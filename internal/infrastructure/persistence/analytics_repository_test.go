package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSales(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()
	require.NoError(t, db.Create([]models.ProductModel{
		{ID: "P1", Name: "Hammer", StockQuantity: dec("10")},
		{ID: "P2", Name: "Nails", StockQuantity: dec("500")},
		{ID: "P3", Name: "Saw", StockQuantity: dec("2")},
	}).Error)
	require.NoError(t, db.Create([]models.SaleModel{
		{ID: "S1", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "S2", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "S3", Status: "cancelled", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "S4", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -200)},
	}).Error)
	require.NoError(t, db.Create([]models.SaleItemModel{
		{ID: "I1", SaleID: "S1", ProductID: "P1", Quantity: dec("3"), TotalPrice: dec("300")},
		{ID: "I2", SaleID: "S1", ProductID: "P2", Quantity: dec("30"), TotalPrice: dec("60")},
		{ID: "I3", SaleID: "S2", ProductID: "P1", Quantity: dec("2"), TotalPrice: dec("200")},
		{ID: "I4", SaleID: "S3", ProductID: "P3", Quantity: dec("5"), TotalPrice: dec("999")},
		{ID: "I5", SaleID: "S4", ProductID: "P3", Quantity: dec("1"), TotalPrice: dec("50")},
	}).Error)
}

func TestGormAnalyticsRepository_ProductRevenueWindow(t *testing.T) {
	db := newSQLiteDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seedSales(t, db, now)
	repo := NewGormAnalyticsRepository(db)

	revenues, err := repo.ProductRevenueWindow(context.Background(), now.AddDate(0, 0, -90))
	require.NoError(t, err)

	byID := map[string]string{}
	for _, r := range revenues {
		byID[r.ProductID] = r.Revenue.String()
		if r.ProductID == "P1" {
			assert.Equal(t, "Hammer", r.ProductName)
		}
	}
	// P3 only has a cancelled sale and one outside the window
	assert.Equal(t, map[string]string{"P1": "500", "P2": "60"}, byID)
}

func TestGormAnalyticsRepository_StockAndConsumption(t *testing.T) {
	db := newSQLiteDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seedSales(t, db, now)
	repo := NewGormAnalyticsRepository(db)

	stock, err := repo.StockAndConsumption(context.Background(), now.AddDate(0, 0, -30), 30)
	require.NoError(t, err)
	require.Len(t, stock, 3)

	assert.Equal(t, "P1", stock[0].ProductID)
	assert.True(t, dec("10").Equal(stock[0].CurrentStock))
	assert.True(t, dec("0.1").Equal(stock[0].AvgConsumptionPerDay), stock[0].AvgConsumptionPerDay.String())

	assert.Equal(t, "P2", stock[1].ProductID)
	assert.True(t, dec("1").Equal(stock[1].AvgConsumptionPerDay))

	assert.Equal(t, "P3", stock[2].ProductID)
	assert.True(t, stock[2].AvgConsumptionPerDay.IsZero())
}

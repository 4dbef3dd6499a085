package integration

import (
	"testing"
	"time"

	appplanning "github.com/erp/salesledger/internal/application/planning"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/erp/salesledger/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanning_OnPostgres(t *testing.T) {
	s := newServices(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	d := decimal.RequireFromString
	now := time.Now()

	require.NoError(t, s.db.DB.Create([]models.ProductModel{
		{ID: "P1", Name: "Drill", StockQuantity: d("10")},
		{ID: "P2", Name: "Screws", StockQuantity: d("500")},
		{ID: "P3", Name: "Ladder", StockQuantity: d("0")},
		{ID: "P4", Name: "Glue", StockQuantity: d("4")},
	}).Error)
	require.NoError(t, s.db.DB.Create([]models.SaleModel{
		{ID: "S1", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "S2", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -5)},
		// outside both windows
		{ID: "S3", Status: models.SaleStatusCompleted, CreatedAt: now.AddDate(0, 0, -120)},
		{ID: "S4", Status: "cancelled", CreatedAt: now.AddDate(0, 0, -1)},
	}).Error)
	require.NoError(t, s.db.DB.Create([]models.SaleItemModel{
		{ID: "I1", SaleID: "S1", ProductID: "P1", Quantity: d("60"), TotalPrice: d("800")},
		{ID: "I2", SaleID: "S1", ProductID: "P2", Quantity: d("30"), TotalPrice: d("150")},
		{ID: "I3", SaleID: "S2", ProductID: "P3", Quantity: d("3"), TotalPrice: d("50")},
		{ID: "I4", SaleID: "S3", ProductID: "P4", Quantity: d("40"), TotalPrice: d("4000")},
		{ID: "I5", SaleID: "S4", ProductID: "P3", Quantity: d("100"), TotalPrice: d("9000")},
	}).Error)

	analysis, err := s.planning.GetABCAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", analysis.Summary.TotalRevenue.String())
	classes := map[string]string{}
	for _, item := range analysis.Items {
		classes[item.ProductID] = item.Classification
	}
	// P4 only sold outside the revenue window and is not ranked
	assert.Equal(t, map[string]string{"P1": "A", "P2": "B", "P3": "C"}, classes)

	suggestions, err := s.planning.GetPurchaseSuggestions(ctx, appplanning.SuggestionFilter{})
	require.NoError(t, err)
	byProduct := map[string]appplanning.SuggestionResponse{}
	for _, sug := range suggestions {
		byProduct[sug.ProductID] = sug
	}
	require.Len(t, byProduct, 3)
	assert.Equal(t, "80", byProduct["P1"].SuggestedQuantity.String())
	assert.Equal(t, "0", byProduct["P2"].SuggestedQuantity.String())
	assert.Equal(t, "2", byProduct["P3"].SuggestedQuantity.String())
	assert.Equal(t, 45, byProduct["P1"].CoverageDays)
	assert.Equal(t, "2", byProduct["P1"].DailyConsumption.String())

	needed, err := s.planning.GetPurchaseSuggestions(ctx, appplanning.SuggestionFilter{OnlyNeeded: true, Classification: "c"})
	require.NoError(t, err)
	require.Len(t, needed, 1)
	assert.Equal(t, "P3", needed[0].ProductID)
}

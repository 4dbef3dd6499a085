package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestClassify(t *testing.T) {
	t.Run("cumulative share boundaries are inclusive", func(t *testing.T) {
		result := Classify([]ProductRevenue{
			{ProductID: "p3", Revenue: d("5")},
			{ProductID: "p1", Revenue: d("80")},
			{ProductID: "p2", Revenue: d("15")},
		}, DefaultThresholds())

		require.Len(t, result, 3)
		assert.Equal(t, "p1", result[0].ProductID)
		assert.Equal(t, ClassA, result[0].Class)
		assert.True(t, result[0].CumulativeShare.Equal(d("80")))
		assert.Equal(t, "p2", result[1].ProductID)
		assert.Equal(t, ClassB, result[1].Class)
		assert.True(t, result[1].CumulativeShare.Equal(d("95")))
		assert.Equal(t, "p3", result[2].ProductID)
		assert.Equal(t, ClassC, result[2].Class)
		assert.True(t, result[2].CumulativeShare.Equal(d("100")))
	})

	t.Run("ties are ordered by product id", func(t *testing.T) {
		result := Classify([]ProductRevenue{
			{ProductID: "b", Revenue: d("50")},
			{ProductID: "a", Revenue: d("50")},
		}, DefaultThresholds())

		assert.Equal(t, "a", result[0].ProductID)
		assert.Equal(t, ClassA, result[0].Class)
		assert.Equal(t, ClassC, result[1].Class)
	})

	t.Run("zero revenue classifies everything as C", func(t *testing.T) {
		result := Classify([]ProductRevenue{
			{ProductID: "a", Revenue: decimal.Zero},
			{ProductID: "b", Revenue: decimal.Zero},
		}, DefaultThresholds())

		for _, c := range result {
			assert.Equal(t, ClassC, c.Class)
			assert.True(t, c.Share.IsZero())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Classify(nil, DefaultThresholds()))
	})

	t.Run("does not reorder the caller's slice", func(t *testing.T) {
		in := []ProductRevenue{
			{ProductID: "x", Revenue: d("1")},
			{ProductID: "y", Revenue: d("2")},
		}
		Classify(in, DefaultThresholds())
		assert.Equal(t, "x", in[0].ProductID)
	})
}

func TestSuggestedQuantity(t *testing.T) {
	assert.True(t, SuggestedQuantity(d("10"), d("10"), 45).Equal(d("440")))
	assert.True(t, SuggestedQuantity(decimal.Zero, d("0"), 45).IsZero())
	assert.True(t, SuggestedQuantity(decimal.Zero, d("-3"), 45).IsZero())
	assert.True(t, SuggestedQuantity(d("1"), d("100"), 15).IsZero())
	// 0.35 * 15 = 5.25 rounds to 5
	assert.True(t, SuggestedQuantity(d("0.35"), d("0"), 15).Equal(d("5")))
}

func TestSuggest(t *testing.T) {
	classified := []Classification{
		{ProductID: "a", ProductName: "Alpha", Class: ClassA},
		{ProductID: "b", ProductName: "Beta", Class: ClassB},
		{ProductID: "c", ProductName: "Gamma", Class: ClassC},
	}
	stock := []StockConsumption{
		{ProductID: "a", CurrentStock: d("10"), AvgConsumptionPerDay: d("10")},
		{ProductID: "b", CurrentStock: d("5"), AvgConsumptionPerDay: d("2")},
	}

	result := Suggest(classified, stock, DefaultCoveragePolicy())

	require.Len(t, result, 3)
	assert.Equal(t, 45, result[0].CoverageDays)
	assert.True(t, result[0].SuggestedQuantity.Equal(d("440")))
	assert.Equal(t, 30, result[1].CoverageDays)
	assert.True(t, result[1].SuggestedQuantity.Equal(d("55")))
	assert.Equal(t, "Gamma", result[2].ProductName)
	assert.Equal(t, 15, result[2].CoverageDays)
	assert.True(t, result[2].SuggestedQuantity.IsZero())
	assert.True(t, result[2].CurrentStock.IsZero())
}

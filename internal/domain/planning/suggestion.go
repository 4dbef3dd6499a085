package planning

import "github.com/shopspring/decimal"

// CoveragePolicy is the number of days of stock to keep on hand per class
type CoveragePolicy struct {
	A int
	B int
	C int
}

// DefaultCoveragePolicy returns 45/30/15 days
func DefaultCoveragePolicy() CoveragePolicy {
	return CoveragePolicy{A: 45, B: 30, C: 15}
}

// Days returns the coverage target for a class
func (p CoveragePolicy) Days(c Class) int {
	switch c {
	case ClassA:
		return p.A
	case ClassB:
		return p.B
	default:
		return p.C
	}
}

// StockConsumption is a product's on-hand stock and daily consumption
type StockConsumption struct {
	ProductID            string
	ProductName          string
	CurrentStock         decimal.Decimal
	AvgConsumptionPerDay decimal.Decimal
}

// Suggestion is a reorder recommendation for one product
type Suggestion struct {
	ProductID         string
	ProductName       string
	Class             Class
	CurrentStock      decimal.Decimal
	DailyConsumption  decimal.Decimal
	CoverageDays      int
	SuggestedQuantity decimal.Decimal
}

// SuggestedQuantity returns max(0, round(daily * days) - stock).
// No consumption means no suggestion.
func SuggestedQuantity(daily, stock decimal.Decimal, days int) decimal.Decimal {
	if !daily.IsPositive() {
		return decimal.Zero
	}
	target := daily.Mul(decimal.NewFromInt(int64(days))).Round(0)
	qty := target.Sub(stock)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}

// Suggest builds one suggestion per classified product. Products missing from
// stock are treated as having no stock and no consumption.
func Suggest(classified []Classification, stock []StockConsumption, policy CoveragePolicy) []Suggestion {
	byProduct := make(map[string]StockConsumption, len(stock))
	for _, s := range stock {
		byProduct[s.ProductID] = s
	}

	result := make([]Suggestion, 0, len(classified))
	for _, c := range classified {
		s, ok := byProduct[c.ProductID]
		if !ok {
			s = StockConsumption{
				ProductID:            c.ProductID,
				ProductName:          c.ProductName,
				CurrentStock:         decimal.Zero,
				AvgConsumptionPerDay: decimal.Zero,
			}
		}
		days := policy.Days(c.Class)
		name := c.ProductName
		if name == "" {
			name = s.ProductName
		}
		result = append(result, Suggestion{
			ProductID:         c.ProductID,
			ProductName:       name,
			Class:             c.Class,
			CurrentStock:      s.CurrentStock,
			DailyConsumption:  s.AvgConsumptionPerDay,
			CoverageDays:      days,
			SuggestedQuantity: SuggestedQuantity(s.AvgConsumptionPerDay, s.CurrentStock, days),
		})
	}
	return result
}

package planning

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Class is an ABC revenue tier
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// IsValid returns true for A, B or C
func (c Class) IsValid() bool {
	return c == ClassA || c == ClassB || c == ClassC
}

var hundred = decimal.NewFromInt(100)

// Thresholds are the inclusive cumulative share cutoffs, in percent
type Thresholds struct {
	A decimal.Decimal
	B decimal.Decimal
}

// DefaultThresholds returns the 80/95 split
func DefaultThresholds() Thresholds {
	return Thresholds{
		A: decimal.NewFromInt(80),
		B: decimal.NewFromInt(95),
	}
}

// ProductRevenue is one product's revenue over the trailing window
type ProductRevenue struct {
	ProductID   string
	ProductName string
	Revenue     decimal.Decimal
}

// Classification is a product ranked by revenue share
type Classification struct {
	ProductID       string
	ProductName     string
	Revenue         decimal.Decimal
	Share           decimal.Decimal
	CumulativeShare decimal.Decimal
	Class           Class
}

// Classify ranks products by revenue (descending, ties by product ID) and
// assigns A while the cumulative share is <= t.A, B while <= t.B, C after.
// With no revenue at all every product is C.
func Classify(revenues []ProductRevenue, t Thresholds) []Classification {
	ranked := make([]ProductRevenue, len(revenues))
	copy(ranked, revenues)
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	total := decimal.Zero
	for _, r := range ranked {
		total = total.Add(r.Revenue)
	}

	result := make([]Classification, 0, len(ranked))
	running := decimal.Zero
	for _, r := range ranked {
		c := Classification{
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			Revenue:         r.Revenue,
			Share:           decimal.Zero,
			CumulativeShare: decimal.Zero,
			Class:           ClassC,
		}
		if total.IsPositive() {
			running = running.Add(r.Revenue)
			c.Share = r.Revenue.Mul(hundred).Div(total)
			// derived from the running revenue so repeated division does not drift
			c.CumulativeShare = running.Mul(hundred).Div(total)
			c.Class = classFor(c.CumulativeShare, t)
		}
		result = append(result, c)
	}
	return result
}

func classFor(cumulative decimal.Decimal, t Thresholds) Class {
	switch {
	case cumulative.LessThanOrEqual(t.A):
		return ClassA
	case cumulative.LessThanOrEqual(t.B):
		return ClassB
	default:
		return ClassC
	}
}

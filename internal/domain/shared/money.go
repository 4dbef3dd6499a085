package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places money columns keep
const MoneyScale = 2

// FitsMoneyScale reports whether d has no digits past MoneyScale, so storing
// it in a DECIMAL(p, 2) column does not round it.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

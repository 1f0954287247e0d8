package models

import "github.com/shopspring/decimal"

// FormatCurrency renders an amount as dollars with two decimals, e.g.
// "$4850.00" or "-$85.24".
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// SumAmounts adds up amounts, returning zero for an empty slice.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

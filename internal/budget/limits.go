// Package budget turns a monthly income into recommended spending limits and
// compares them with what was actually spent.
package budget

import (
	"github.com/shopspring/decimal"
)

// Recommendation category names.
const (
	CategoryHousing        = "Housing"
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryUtilities      = "Utilities"
	CategoryEntertainment  = "Entertainment"
	CategoryHealthcare     = "Healthcare"
	CategoryPersonal       = "Personal"
	CategorySavings        = "Savings"
	CategoryDebt           = "Debt"
	CategoryOther          = "Other"
)

// Allocation is the share of income recommended for one category.
type Allocation struct {
	Category string
	Fraction decimal.Decimal
	Guidance string
}

// Allocations is the fixed allocation table in display order. The fractions
// add up to 1.07 and are kept that way on purpose.
var Allocations = []Allocation{
	{CategoryHousing, decimal.RequireFromString("0.30"), "50-30-20 Rule"},
	{CategoryFood, decimal.RequireFromString("0.12"), "10-15% of income"},
	{CategoryTransportation, decimal.RequireFromString("0.12"), "10-15% of income"},
	{CategoryUtilities, decimal.RequireFromString("0.07"), "5-10% of income"},
	{CategoryEntertainment, decimal.RequireFromString("0.07"), "5-10% of income"},
	{CategoryHealthcare, decimal.RequireFromString("0.06"), "5-10% of income"},
	{CategoryPersonal, decimal.RequireFromString("0.08"), "5-10% of income"},
	{CategorySavings, decimal.RequireFromString("0.10"), "20% of income"},
	{CategoryDebt, decimal.RequireFromString("0.10"), "15-20% of income"},
	{CategoryOther, decimal.RequireFromString("0.05"), "Buffer for miscellaneous expenses"},
}

// Limit is the recommended spend for one category.
type Limit struct {
	Category string          `json:"category" yaml:"category"`
	Fraction decimal.Decimal `json:"fraction" yaml:"fraction"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Guidance string          `json:"guidance" yaml:"guidance"`
}

// SpendingLimits holds one Limit per allocation, in Allocations order.
type SpendingLimits []Limit

// Total sums every limit.
func (s SpendingLimits) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s {
		total = total.Add(l.Amount)
	}
	return total
}

// CalculateSpendingLimits applies the allocation table to income. It is
// linear in income and never fails; callers decide what a non-positive
// income means.
func CalculateSpendingLimits(income decimal.Decimal) SpendingLimits {
	limits := make(SpendingLimits, 0, len(Allocations))
	for _, a := range Allocations {
		limits = append(limits, Limit{
			Category: a.Category,
			Fraction: a.Fraction,
			Amount:   income.Mul(a.Fraction),
			Guidance: a.Guidance,
		})
	}
	return limits
}

package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Health score bands.
const (
	HealthExcellent   = "Excellent financial health"
	HealthGood        = "Good financial health"
	HealthFair        = "Fair financial health"
	HealthNeedsWork   = "Needs improvement"
	HealthNoIncome    = "Please enter your income for a financial health assessment"
	AdviceNoIncome    = "Please enter your income to receive personalized advice"
	AdviceOverIncome  = "Your expenses exceed your income. Look for ways to reduce spending or increase income."
	AdviceSaveTen     = "Try to save at least 10% of your income for emergencies and future goals."
	AdviceSaveTwenty  = "Consider increasing your savings rate to 20% for long-term financial security."
	AdviceAllGood     = "Your spending patterns align well with financial recommendations. Keep up the good work!"
	adviceSignificant = "Your %s expenses are significantly over the recommended limit. Consider reducing spending in this area."
	adviceSlight      = "Your %s expenses are slightly over the recommended limit."
)

var (
	tenPercent      = decimal.RequireFromString("0.1")
	twentyPercent   = decimal.RequireFromString("0.2")
	significantOver = decimal.RequireFromString("1.2")
	maxDeduction    = decimal.NewFromInt(15)
)

// HealthScore rates spending against the recommended limits on a 0-100
// scale. expenses is keyed by recommendation category name; only exact names
// are checked.
func HealthScore(income decimal.Decimal, expenses map[string]decimal.Decimal) (int, string) {
	if !income.IsPositive() {
		return 0, HealthNoIncome
	}

	limits := CalculateSpendingLimits(income)
	total := sumExpenses(expenses)
	score := decimal.NewFromInt(100)

	if total.GreaterThan(income) {
		score = score.Sub(decimal.NewFromInt(30))
	}

	for _, limit := range limits {
		spent, ok := expenses[limit.Category]
		if !ok || !spent.GreaterThan(limit.Amount) {
			continue
		}
		overage := spent.Sub(limit.Amount).Div(limit.Amount).Mul(hundred)
		score = score.Sub(decimal.Min(maxDeduction, overage))
	}

	if savingsRate(income, total).LessThan(tenPercent) {
		score = score.Sub(decimal.NewFromInt(20))
	}

	score = decimal.Max(decimal.Zero, decimal.Min(decimal.NewFromInt(100), score))
	value := int(score.IntPart())

	switch {
	case value >= 80:
		return value, HealthExcellent
	case value >= 60:
		return value, HealthGood
	case value >= 40:
		return value, HealthFair
	default:
		return value, HealthNeedsWork
	}
}

// Advice returns spending advice for the given month, in allocation order.
func Advice(income decimal.Decimal, expenses map[string]decimal.Decimal) []string {
	if !income.IsPositive() {
		return []string{AdviceNoIncome}
	}

	limits := CalculateSpendingLimits(income)
	total := sumExpenses(expenses)
	var advice []string

	if total.GreaterThan(income) {
		advice = append(advice, AdviceOverIncome)
	}

	for _, limit := range limits {
		spent, ok := expenses[limit.Category]
		if !ok {
			continue
		}
		name := strings.ToLower(limit.Category)
		switch {
		case spent.GreaterThan(limit.Amount.Mul(significantOver)):
			advice = append(advice, fmt.Sprintf(adviceSignificant, name))
		case spent.GreaterThan(limit.Amount):
			advice = append(advice, fmt.Sprintf(adviceSlight, name))
		}
	}

	rate := savingsRate(income, total)
	switch {
	case rate.LessThan(tenPercent):
		advice = append(advice, AdviceSaveTen)
	case rate.LessThan(twentyPercent):
		advice = append(advice, AdviceSaveTwenty)
	}

	if len(advice) == 0 {
		advice = append(advice, AdviceAllGood)
	}
	return advice
}

func sumExpenses(expenses map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range expenses {
		total = total.Add(amount)
	}
	return total
}

func savingsRate(income, total decimal.Decimal) decimal.Decimal {
	return income.Sub(total).Div(income)
}

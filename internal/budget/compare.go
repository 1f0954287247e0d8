package budget

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// Budget statuses.
const (
	StatusUnderBudget = "Under budget"
	StatusOverBudget  = "Over budget"
)

var hundred = decimal.NewFromInt(100)

// Comparison is the actual spend against one recommended limit.
type Comparison struct {
	Category        string           `json:"category" yaml:"category"`
	Limit           decimal.Decimal  `json:"limit" yaml:"limit"`
	Spent           decimal.Decimal  `json:"spent" yaml:"spent"`
	MatchedCategory string           `json:"matched_category,omitempty" yaml:"matched_category,omitempty"`
	MatchStrategy   string           `json:"match_strategy,omitempty" yaml:"match_strategy,omitempty"`
	PercentUsed     *decimal.Decimal `json:"percent_used,omitempty" yaml:"percent_used,omitempty"`
	Status          string           `json:"status" yaml:"status"`
}

// OverBudget reports whether spend exceeds the limit.
func (c Comparison) OverBudget() bool {
	return c.Status == StatusOverBudget
}

// Compare matches each limit to one observed expense category and reports
// spend against it. Unmatched categories have zero spend. PercentUsed is nil
// when the limit is not positive.
func Compare(ctx context.Context, limits SpendingLimits, expenses map[string]decimal.Decimal, matcher *Matcher) []Comparison {
	observed := make([]string, 0, len(expenses))
	for name := range expenses {
		observed = append(observed, name)
	}
	sort.Strings(observed)

	out := make([]Comparison, 0, len(limits))
	for _, limit := range limits {
		c := Comparison{Category: limit.Category, Limit: limit.Amount, Spent: decimal.Zero}
		if matcher != nil {
			if m, ok := matcher.Match(ctx, limit.Category, observed); ok {
				c.MatchedCategory = m.Observed
				c.MatchStrategy = m.Strategy
				c.Spent = expenses[m.Observed]
			}
		}
		if limit.Amount.IsPositive() {
			pct := c.Spent.Div(limit.Amount).Mul(hundred).Round(1)
			c.PercentUsed = &pct
		}
		if c.Spent.LessThanOrEqual(limit.Amount) {
			c.Status = StatusUnderBudget
		} else {
			c.Status = StatusOverBudget
		}
		out = append(out, c)
	}
	return out
}

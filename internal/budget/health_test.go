package budget

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		income    string
		expenses  map[string]decimal.Decimal
		wantScore int
		wantDesc  string
	}{
		{
			name:      "no income",
			income:    "0",
			expenses:  map[string]decimal.Decimal{"Housing": d("100")},
			wantScore: 0,
			wantDesc:  HealthNoIncome,
		},
		{
			name:      "frugal",
			income:    "5000",
			expenses:  map[string]decimal.Decimal{"Housing": d("1000"), "Groceries": d("300")},
			wantScore: 100,
			wantDesc:  HealthExcellent,
		},
		{
			// Housing 1725 vs limit 1500 is 15% over: -15.
			name:      "one category over",
			income:    "5000",
			expenses:  map[string]decimal.Decimal{"Housing": d("1725")},
			wantScore: 85,
			wantDesc:  HealthExcellent,
		},
		{
			// Utilities 385 vs 350 is 10% over: -10. Savings rate 4000/5000 fine.
			name:      "partial deduction",
			income:    "5000",
			expenses:  map[string]decimal.Decimal{"Utilities": d("385")},
			wantScore: 90,
			wantDesc:  HealthExcellent,
		},
		{
			// Total 4700: savings rate 6% -> -20. Housing 3000 vs 1500 capped at -15.
			name:      "low savings",
			income:    "5000",
			expenses:  map[string]decimal.Decimal{"Housing": d("3000"), "Groceries": d("1700")},
			wantScore: 65,
			wantDesc:  HealthGood,
		},
		{
			// Over income -30, low savings -20, housing -15.
			name:      "overspending",
			income:    "1000",
			expenses:  map[string]decimal.Decimal{"Housing": d("1200")},
			wantScore: 35,
			wantDesc:  HealthNeedsWork,
		},
		{
			// -30 -20 and five categories capped at -15 bottoms out at zero.
			name:   "clamped at zero",
			income: "100",
			expenses: map[string]decimal.Decimal{
				"Housing": d("100"), "Food": d("100"), "Transportation": d("100"),
				"Utilities": d("100"), "Entertainment": d("100"),
			},
			wantScore: 0,
			wantDesc:  HealthNeedsWork,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, desc := HealthScore(d(tt.income), tt.expenses)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestHealthScore_FairBand(t *testing.T) {
	// Savings rate 5% -> -20, Housing 30% over -> -15, Utilities 20% over -> -15.
	income := d("1000")
	expenses := map[string]decimal.Decimal{"Housing": d("390"), "Utilities": d("84"), "Rent": d("476")}
	score, desc := HealthScore(income, expenses)
	assert.Equal(t, 50, score)
	assert.Equal(t, HealthFair, desc)
}

func TestAdvice(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses map[string]decimal.Decimal
		want     []string
	}{
		{
			name:   "no income",
			income: "-1",
			want:   []string{AdviceNoIncome},
		},
		{
			name:     "all good",
			income:   "5000",
			expenses: map[string]decimal.Decimal{"Housing": d("1000")},
			want:     []string{AdviceAllGood},
		},
		{
			name:     "save more",
			income:   "5000",
			expenses: map[string]decimal.Decimal{"Housing": d("1500"), "Rent": d("2600")},
			want:     []string{AdviceSaveTwenty},
		},
		{
			name:     "slightly and significantly over",
			income:   "1000",
			expenses: map[string]decimal.Decimal{"Housing": d("400"), "Food": d("130")},
			want: []string{
				"Your housing expenses are significantly over the recommended limit. Consider reducing spending in this area.",
				"Your food expenses are slightly over the recommended limit.",
			},
		},
		{
			name:     "over income",
			income:   "1000",
			expenses: map[string]decimal.Decimal{"Groceries": d("1100")},
			want:     []string{AdviceOverIncome, AdviceSaveTen},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advice(d(tt.income), tt.expenses))
		})
	}
}

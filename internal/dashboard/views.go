package dashboard

import (
	"sort"
	"time"

	"fjacquet/up-budget/internal/aggregate"
	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/models"

	"github.com/shopspring/decimal"
)

// SourceStatus tells the caller where the data came from.
type SourceStatus struct {
	Mode              string   `json:"mode" yaml:"mode"`
	UsedFallback      bool     `json:"used_fallback" yaml:"used_fallback"`
	FallbackResources []string `json:"fallback_resources,omitempty" yaml:"fallback_resources,omitempty"`
	Errors            []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// DiagnosticView is a skipped transaction.
type DiagnosticView struct {
	TransactionID string `json:"transaction_id" yaml:"transaction_id"`
	Reason        string `json:"reason" yaml:"reason"`
}

// Snapshot holds the headline dashboard figures.
type Snapshot struct {
	GeneratedAt           time.Time                  `json:"generated_at" yaml:"generated_at"`
	RunID                 string                     `json:"run_id" yaml:"run_id"`
	Source                SourceStatus               `json:"source" yaml:"source"`
	CurrentMonth          string                     `json:"current_month" yaml:"current_month"`
	ExpenseMonth          string                     `json:"expense_month" yaml:"expense_month"`
	TotalBalance          decimal.Decimal            `json:"total_balance" yaml:"total_balance"`
	MonthlyIncome         decimal.Decimal            `json:"monthly_income" yaml:"monthly_income"`
	EstimatedAnnualIncome decimal.Decimal            `json:"estimated_annual_income" yaml:"estimated_annual_income"`
	TotalExpenses         decimal.Decimal            `json:"total_expenses" yaml:"total_expenses"`
	Expenses              aggregate.CategoryExpenses `json:"expenses" yaml:"expenses"`
	Breakdown             []aggregate.CategoryShare  `json:"breakdown" yaml:"breakdown"`
	Trend                 []aggregate.TrendPoint     `json:"trend" yaml:"trend"`
	MonthlyTotals         []aggregate.MonthlyTotal   `json:"monthly_totals" yaml:"monthly_totals"`
	TransactionCount      int                        `json:"transaction_count" yaml:"transaction_count"`
	TransfersFiltered     int                        `json:"transfers_filtered" yaml:"transfers_filtered"`
	Diagnostics           []DiagnosticView           `json:"diagnostics" yaml:"diagnostics"`
	Duplicates            int                        `json:"possible_duplicates" yaml:"possible_duplicates"`
}

// TransactionList is a period view of the canonical table.
type TransactionList struct {
	Period       Period                        `json:"period" yaml:"period"`
	Range        aggregate.DateRange           `json:"range" yaml:"range"`
	Source       SourceStatus                  `json:"source" yaml:"source"`
	Transactions []models.CanonicalTransaction `json:"transactions" yaml:"transactions"`
	Total        decimal.Decimal               `json:"total" yaml:"total"`
}

// TrendReport is the spending trend with monthly totals.
type TrendReport struct {
	Source SourceStatus             `json:"source" yaml:"source"`
	Points []aggregate.TrendPoint   `json:"points" yaml:"points"`
	Totals []aggregate.MonthlyTotal `json:"totals" yaml:"totals"`
}

// Recommendation is the budget advice for one income.
type Recommendation struct {
	Source        SourceStatus          `json:"source" yaml:"source"`
	ExpenseMonth  string                `json:"expense_month" yaml:"expense_month"`
	Income        decimal.Decimal       `json:"income" yaml:"income"`
	IncomeSource  string                `json:"income_source" yaml:"income_source"`
	Limits        budget.SpendingLimits `json:"limits" yaml:"limits"`
	LimitsTotal   decimal.Decimal       `json:"limits_total" yaml:"limits_total"`
	Comparisons   []budget.Comparison   `json:"comparisons" yaml:"comparisons"`
	OverBudget    []string              `json:"over_budget,omitempty" yaml:"over_budget,omitempty"`
	HealthScore   int                   `json:"health_score" yaml:"health_score"`
	HealthMessage string                `json:"health_message" yaml:"health_message"`
	Advice        []string              `json:"advice" yaml:"advice"`
	Strategies    []string              `json:"match_strategies" yaml:"match_strategies"`
}

func sortNewestFirst(txs []models.CanonicalTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// Package aggregate derives the dashboard figures from the canonical
// transaction table: balances, income, expenses by category and the monthly
// spending trend.
package aggregate

import (
	"sort"
	"time"

	"fjacquet/up-budget/internal/dateutils"
	"fjacquet/up-budget/internal/models"

	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// CategoryExpenses maps a category name to the absolute amount spent.
type CategoryExpenses map[string]decimal.Decimal

// Total sums every category.
func (c CategoryExpenses) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range c {
		total = total.Add(amount)
	}
	return total
}

// Categories returns the category names in sorted order.
func (c CategoryExpenses) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrendPoint is the spend of one category in one month.
type TrendPoint struct {
	Month    string          `json:"month" yaml:"month"`
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// MonthlyTotal is the spend of one month with the month-over-month change.
// Previous and ChangePercent are nil when not applicable.
type MonthlyTotal struct {
	Month         string           `json:"month" yaml:"month"`
	Total         decimal.Decimal  `json:"total" yaml:"total"`
	Previous      *decimal.Decimal `json:"previous,omitempty" yaml:"previous,omitempty"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty" yaml:"change_percent,omitempty"`
}

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Percent  decimal.Decimal `json:"percent" yaml:"percent"`
}

// Option customizes an Engine.
type Option func(*Engine)

// WithExcludeInternalFromTrend drops Transfer and Round Up rows from the
// spending trend, matching the expenses-by-category rule. Off by default.
func WithExcludeInternalFromTrend(exclude bool) Option {
	return func(e *Engine) {
		e.excludeInternalFromTrend = exclude
	}
}

// Engine computes aggregates over one canonical table. It holds no state
// beyond its inputs; every query recomputes from scratch.
type Engine struct {
	table                    []models.CanonicalTransaction
	accounts                 []models.RawAccount
	currentMonth             string
	excludeInternalFromTrend bool
}

// NewEngine creates an Engine. The current month is now as observed in loc;
// a nil loc uses now's own location.
func NewEngine(table []models.CanonicalTransaction, accounts []models.RawAccount, now time.Time, loc *time.Location, opts ...Option) *Engine {
	e := &Engine{
		table:        table,
		accounts:     accounts,
		currentMonth: inLocation(now, loc).Format(models.MonthKeyLayout),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CurrentMonth returns the month key the engine treats as current.
func (e *Engine) CurrentMonth() string {
	return e.currentMonth
}

// Transactions returns the canonical table the engine was built with.
func (e *Engine) Transactions() []models.CanonicalTransaction {
	return e.table
}

// TotalBalance sums the balance of every account. Transactions are not
// consulted.
func (e *Engine) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range e.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// MonthlyIncome sums salary transactions of the current month. There is no
// fallback to earlier months.
func (e *Engine) MonthlyIncome() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range e.table {
		if tx.IsSalary() && tx.Month == e.currentMonth {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// EstimatedAnnualIncome extrapolates the previous salary month to a year.
// The previous month is the second most recent month with salary, or the only
// one when salary appears in a single month.
func (e *Engine) EstimatedAnnualIncome() decimal.Decimal {
	byMonth := make(map[string]decimal.Decimal)
	for _, tx := range e.table {
		if tx.IsSalary() {
			byMonth[tx.Month] = byMonth[tx.Month].Add(tx.Amount)
		}
	}
	if len(byMonth) == 0 {
		return decimal.Zero
	}

	months := sortedKeys(byMonth)
	prevMonth := months[len(months)-1]
	if len(months) >= 2 {
		prevMonth = months[len(months)-2]
	}
	return byMonth[prevMonth].Mul(twelve)
}

// ExpenseMonth returns the month MonthlyExpensesByCategory reports on: the
// current month when it has qualifying expenses, otherwise the most recent
// month that does. It returns "" when no month qualifies.
func (e *Engine) ExpenseMonth() string {
	latest := ""
	for _, tx := range e.table {
		if !isCategoryExpense(tx) {
			continue
		}
		if tx.Month == e.currentMonth {
			return e.currentMonth
		}
		if dateutils.CompareMonthKeys(tx.Month, latest) > 0 {
			latest = tx.Month
		}
	}
	return latest
}

// MonthlyExpensesByCategory groups the absolute value of debits by category
// for ExpenseMonth. Transfer and Round Up rows never count. The result is
// never nil.
func (e *Engine) MonthlyExpensesByCategory() CategoryExpenses {
	expenses := make(CategoryExpenses)
	month := e.ExpenseMonth()
	if month == "" {
		return expenses
	}
	for _, tx := range e.table {
		if isCategoryExpense(tx) && tx.Month == month {
			expenses[tx.Category] = expenses[tx.Category].Add(tx.Amount.Abs())
		}
	}
	return expenses
}

// CategoryBreakdown returns MonthlyExpensesByCategory as shares of the total,
// largest first. Percentages are zero when the total is zero.
func (e *Engine) CategoryBreakdown() []CategoryShare {
	expenses := e.MonthlyExpensesByCategory()
	total := expenses.Total()

	shares := make([]CategoryShare, 0, len(expenses))
	for _, category := range expenses.Categories() {
		amount := expenses[category]
		percent := decimal.Zero
		if !total.IsZero() {
			percent = amount.Div(total).Mul(hundred).Round(2)
		}
		shares = append(shares, CategoryShare{Category: category, Amount: amount, Percent: percent})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})
	return shares
}

// MonthlySpendingTrend groups the absolute value of every debit by month and
// category across all months, sorted by month then category. Transfer and
// Round Up rows are included unless WithExcludeInternalFromTrend is set.
func (e *Engine) MonthlySpendingTrend() []TrendPoint {
	type key struct{ month, category string }
	sums := make(map[key]decimal.Decimal)
	for _, tx := range e.table {
		if !tx.IsExpense() {
			continue
		}
		if e.excludeInternalFromTrend && tx.IsInternalMovement() {
			continue
		}
		k := key{tx.Month, tx.Category}
		sums[k] = sums[k].Add(tx.Amount.Abs())
	}

	points := make([]TrendPoint, 0, len(sums))
	for k, amount := range sums {
		points = append(points, TrendPoint{Month: k.month, Category: k.category, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Month != points[j].Month {
			return points[i].Month < points[j].Month
		}
		return points[i].Category < points[j].Category
	})
	return points
}

// MonthlyTotals sums the trend per month, newest first, with the change
// against the preceding month present in the data. ChangePercent is nil when
// there is no preceding month or its total is zero.
func (e *Engine) MonthlyTotals() []MonthlyTotal {
	byMonth := make(map[string]decimal.Decimal)
	for _, p := range e.MonthlySpendingTrend() {
		byMonth[p.Month] = byMonth[p.Month].Add(p.Amount)
	}

	months := sortedKeys(byMonth)
	totals := make([]MonthlyTotal, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		mt := MonthlyTotal{Month: months[i], Total: byMonth[months[i]]}
		if i > 0 {
			prev := byMonth[months[i-1]]
			mt.Previous = &prev
			if !prev.IsZero() {
				change := mt.Total.Sub(prev).Div(prev).Mul(hundred).Round(2)
				mt.ChangePercent = &change
			}
		}
		totals = append(totals, mt)
	}
	return totals
}

func isCategoryExpense(tx models.CanonicalTransaction) bool {
	return tx.IsExpense() && !tx.IsInternalMovement()
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package dashboard answers the questions the CLI asks: it fetches from the
// configured source, rebuilds the canonical table and aggregates it on every
// call.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"fjacquet/up-budget/internal/aggregate"
	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/datasource"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"
	"fjacquet/up-budget/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Data source modes.
const (
	ModeLive = "live"
	ModeMock = "mock"
)

// Period selects a slice of the canonical table.
type Period string

// Supported periods.
const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
)

// Income sources reported with a recommendation.
const (
	IncomeProvided = "provided"
	IncomeObserved = "observed"
)

type statusReporter interface {
	Status() datasource.Status
}

// Config configures a Service.
type Config struct {
	Mode                     string
	Location                 *time.Location
	ExcludeInternalFromTrend bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the fetch, build and aggregate flow per query.
type Service struct {
	source  datasource.Source
	matcher *budget.Matcher
	builder *pipeline.TableBuilder
	cfg     Config
	logger  logging.Logger
}

// NewService creates a Service. A nil matcher uses the default mapping table.
func NewService(source datasource.Source, matcher *budget.Matcher, cfg Config, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if matcher == nil {
		matcher = budget.NewDefaultMatcher(nil, logger)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeLive
	}
	return &Service{
		source:  source,
		matcher: matcher,
		builder: pipeline.NewTableBuilder(logger, cfg.Location),
		cfg:     cfg,
		logger:  logger,
	}
}

// View is one fetched and aggregated dataset.
type View struct {
	Table       pipeline.Table
	Engine      *aggregate.Engine
	Source      SourceStatus
	GeneratedAt time.Time
}

// Load fetches everything and builds the aggregation engine.
func (s *Service) Load(ctx context.Context) (*View, error) {
	start := s.cfg.Now()

	accounts, err := s.source.FetchAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	categories, err := s.source.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	txs, err := s.source.FetchTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	table := s.builder.Build(txs, categories)
	engine := aggregate.NewEngine(table.Transactions, accounts, start, s.cfg.Location,
		aggregate.WithExcludeInternalFromTrend(s.cfg.ExcludeInternalFromTrend))

	view := &View{
		Table:       table,
		Engine:      engine,
		Source:      s.sourceStatus(),
		GeneratedAt: start,
	}

	s.logger.Debug("Dashboard data loaded",
		logging.F(logging.FieldRunID, table.RunID),
		logging.F(logging.FieldCount, len(table.Transactions)),
		logging.F("skipped", table.Skipped()),
		logging.F("fallback", view.Source.UsedFallback))
	return view, nil
}

// Summary returns the headline dashboard figures.
func (s *Service) Summary(ctx context.Context) (*Snapshot, error) {
	view, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	e := view.Engine

	snap := &Snapshot{
		GeneratedAt:           view.GeneratedAt,
		RunID:                 view.Table.RunID,
		Source:                view.Source,
		CurrentMonth:          e.CurrentMonth(),
		ExpenseMonth:          e.ExpenseMonth(),
		TotalBalance:          e.TotalBalance(),
		MonthlyIncome:         e.MonthlyIncome(),
		EstimatedAnnualIncome: e.EstimatedAnnualIncome(),
		Expenses:              e.MonthlyExpensesByCategory(),
		Breakdown:             e.CategoryBreakdown(),
		Trend:                 e.MonthlySpendingTrend(),
		MonthlyTotals:         e.MonthlyTotals(),
		TransactionCount:      len(view.Table.Transactions),
		TransfersFiltered:     view.Table.Filtered,
		Diagnostics:           diagnosticViews(view.Table.Diagnostics),
		Duplicates:            len(aggregate.DetectDuplicates(view.Table.Transactions, s.logger)),
	}
	snap.TotalExpenses = snap.Expenses.Total()
	return snap, nil
}

// Transactions returns the canonical table restricted to period, newest
// first.
func (s *Service) Transactions(ctx context.Context, period Period) (*TransactionList, error) {
	view, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var (
		rng aggregate.DateRange
		now = view.GeneratedAt
	)
	switch period {
	case PeriodToday:
		rng = aggregate.Today(now, s.cfg.Location)
	case PeriodWeek:
		rng = aggregate.ThisWeek(now, s.cfg.Location)
	case PeriodAll, "":
		period = PeriodAll
		rng = aggregate.Span(view.Table.Transactions, s.cfg.Location)
	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}

	txs := view.Table.Transactions
	if period != PeriodAll {
		txs = aggregate.FilterByRange(txs, rng)
	}
	sorted := make([]models.CanonicalTransaction, len(txs))
	copy(sorted, txs)
	sortNewestFirst(sorted)

	return &TransactionList{
		Period:       period,
		Range:        rng,
		Source:       view.Source,
		Transactions: sorted,
		Total:        sumAmounts(sorted),
	}, nil
}

// Trend returns the per-category monthly trend and the monthly totals.
func (s *Service) Trend(ctx context.Context) (*TrendReport, error) {
	view, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &TrendReport{
		Source: view.Source,
		Points: view.Engine.MonthlySpendingTrend(),
		Totals: view.Engine.MonthlyTotals(),
	}, nil
}

// Recommend computes spending limits for income and compares them with the
// expense month's spending. A nil income uses the observed monthly income.
func (s *Service) Recommend(ctx context.Context, income *decimal.Decimal) (*Recommendation, error) {
	view, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	e := view.Engine

	rec := &Recommendation{
		Source:       view.Source,
		ExpenseMonth: e.ExpenseMonth(),
		Income:       e.MonthlyIncome(),
		IncomeSource: IncomeObserved,
	}
	if income != nil {
		if income.IsNegative() {
			return nil, fmt.Errorf("income must not be negative: %s", income.String())
		}
		rec.Income = *income
		rec.IncomeSource = IncomeProvided
	}

	expenses := e.MonthlyExpensesByCategory()
	rec.Limits = budget.CalculateSpendingLimits(rec.Income)
	rec.LimitsTotal = rec.Limits.Total()
	rec.Comparisons = budget.Compare(ctx, rec.Limits, expenses, s.matcher)
	rec.HealthScore, rec.HealthMessage = budget.HealthScore(rec.Income, expenses)
	rec.Advice = budget.Advice(rec.Income, expenses)
	rec.Strategies = s.matcher.Strategies()
	for _, c := range rec.Comparisons {
		if c.OverBudget() {
			rec.OverBudget = append(rec.OverBudget, c.Category)
		}
	}

	s.logger.Info("Budget recommendation computed",
		logging.F(logging.FieldRunID, view.Table.RunID),
		logging.F("income", rec.Income.StringFixed(2)),
		logging.F("income_source", rec.IncomeSource),
		logging.F("health_score", rec.HealthScore),
		logging.F("over_budget", len(rec.OverBudget)))
	return rec, nil
}

func (s *Service) sourceStatus() SourceStatus {
	st := SourceStatus{Mode: s.cfg.Mode}
	reporter, ok := s.source.(statusReporter)
	if !ok {
		return st
	}
	status := reporter.Status()
	st.UsedFallback = status.UsedFallback
	st.FallbackResources = status.Resources
	for _, err := range status.Errors {
		st.Errors = append(st.Errors, err.Error())
	}
	return st
}

func diagnosticViews(diags []pipeline.Diagnostic) []DiagnosticView {
	out := make([]DiagnosticView, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticView{TransactionID: d.TransactionID, Reason: d.Reason})
	}
	return out
}

func sumAmounts(txs []models.CanonicalTransaction) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(txs))
	for i, tx := range txs {
		amounts[i] = tx.Amount
	}
	return models.SumAmounts(amounts)
}

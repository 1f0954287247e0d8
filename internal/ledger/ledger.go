// Package ledger stores manually entered income and expenses in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const (
	dateLayout   = "2006-01-02"
	incomeKey    = "monthly_income"
	// Fixed width so created_at sorts as text.
	createdAtFmt = "2006-01-02T15:04:05.000000000Z07:00"
)

// Expense is a manually entered expense.
type Expense struct {
	ID          string          `json:"id" yaml:"id"`
	Date        time.Time       `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// Month returns the YYYY-MM key of the expense date.
func (e Expense) Month() string {
	return e.Date.Format(models.MonthKeyLayout)
}

// Summary totals the ledger for one month.
type Summary struct {
	Month      string                     `json:"month" yaml:"month"`
	Income     decimal.Decimal            `json:"income" yaml:"income"`
	Expenses   decimal.Decimal            `json:"expenses" yaml:"expenses"`
	Remaining  decimal.Decimal            `json:"remaining" yaml:"remaining"`
	ByCategory map[string]decimal.Decimal `json:"by_category" yaml:"by_category"`
}

// Categories returns the summary categories sorted by name.
func (s Summary) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ledger is a SQLite-backed store of manual entries.
type Ledger struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the ledger database at path and applies
// migrations.
func Open(ctx context.Context, path string, logger logging.Logger) (*Ledger, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Opened ledger", logging.F("path", path))
	return &Ledger{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// AddExpense validates and stores e, assigning a new ID.
func (l *Ledger) AddExpense(ctx context.Context, e Expense) (Expense, error) {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	switch {
	case !e.Amount.IsPositive():
		return Expense{}, &dataerror.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	case e.Category == "":
		return Expense{}, &dataerror.ValidationError{Field: "category", Reason: "must not be empty"}
	case e.Date.IsZero():
		return Expense{}, &dataerror.ValidationError{Field: "date", Reason: "must be set"}
	}

	e.ID = uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO expenses (id, entry_date, month, amount, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.Format(dateLayout), e.Month(), e.Amount.String(), e.Category, e.Description,
		l.now().UTC().Format(createdAtFmt))
	if err != nil {
		return Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	l.logger.Info("Expense saved to ledger",
		logging.F(logging.FieldExpenseID, e.ID),
		logging.F(logging.FieldCategory, e.Category),
		logging.F("amount", e.Amount.String()),
		logging.F(logging.FieldMonth, e.Month()))
	return e, nil
}

// ListExpenses returns expenses ordered by date then insertion. An empty
// month lists everything.
func (l *Ledger) ListExpenses(ctx context.Context, month string) ([]Expense, error) {
	query := `SELECT id, entry_date, amount, category, description FROM expenses`
	var args []any
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY entry_date, created_at`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		var (
			e            Expense
			date, amount string
		)
		if err := rows.Scan(&e.ID, &date, &amount, &e.Category, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("expense %s: date %q: %w", e.ID, date, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %s: amount %q: %w", e.ID, amount, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// SetIncome records the monthly income. Negative values are rejected.
func (l *Ledger) SetIncome(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &dataerror.ValidationError{Field: "income", Reason: "must not be negative"}
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		incomeKey, amount.String())
	if err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	l.logger.Info("Monthly income updated", logging.F("amount", amount.String()))
	return nil
}

// Income returns the recorded monthly income, or zero when none is set.
func (l *Ledger) Income(ctx context.Context) (decimal.Decimal, error) {
	var value string
	err := l.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, incomeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load income: %w", err)
	}
	income, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("income %q: %w", value, err)
	}
	return income, nil
}

// MonthSummary totals the expenses of month against the recorded income.
func (l *Ledger) MonthSummary(ctx context.Context, month string) (Summary, error) {
	income, err := l.Income(ctx)
	if err != nil {
		return Summary{}, err
	}
	expenses, err := l.ListExpenses(ctx, month)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Month:      month,
		Income:     income,
		Expenses:   decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		s.Expenses = s.Expenses.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
	}
	s.Remaining = income.Sub(s.Expenses)
	return s, nil
}

// Package export writes the canonical table, the spending trend and ledger
// entries as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/up-budget/internal/aggregate"
	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/currencyutils"
	"fjacquet/up-budget/internal/ledger"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	tagSep     = "|"
)

// TransactionRow is one canonical transaction as written to CSV.
type TransactionRow struct {
	ID              string `csv:"ID"`
	Date            string `csv:"Date"`
	Month           string `csv:"Month"`
	Description     string `csv:"Description"`
	Amount          string `csv:"Amount"`
	Category        string `csv:"Category"`
	AccountID       string `csv:"AccountID"`
	TransactionType string `csv:"TransactionType"`
	Message         string `csv:"Message"`
	RawText         string `csv:"RawText"`
	Tags            string `csv:"Tags"`
}

// TrendRow is one (month, category) spend.
type TrendRow struct {
	Month    string `csv:"Month"`
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
}

// MonthlyTotalRow is one month of total spend.
type MonthlyTotalRow struct {
	Month         string `csv:"Month"`
	Total         string `csv:"Total"`
	Previous      string `csv:"Previous"`
	ChangePercent string `csv:"ChangePercent"`
}

// ComparisonRow is one budget category against its limit.
type ComparisonRow struct {
	Category        string `csv:"Category"`
	Limit           string `csv:"Limit"`
	Spent           string `csv:"Spent"`
	PercentUsed     string `csv:"PercentUsed"`
	Status          string `csv:"Status"`
	MatchedCategory string `csv:"MatchedCategory"`
}

// ExpenseRow is one ledger expense. It is used for both export and import.
type ExpenseRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Description string `csv:"Description"`
}

// Writer writes CSV with a configurable delimiter.
type Writer struct {
	delimiter rune
	logger    logging.Logger
}

// NewWriter creates a Writer. A zero delimiter means comma.
func NewWriter(delimiter rune, logger logging.Logger) *Writer {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{delimiter: delimiter, logger: logger}
}

// WriteTransactions writes the canonical table.
func (w *Writer) WriteTransactions(out io.Writer, txs []models.CanonicalTransaction) error {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionRow{
			ID:              tx.ID,
			Date:            tx.Date.Format(time.RFC3339),
			Month:           tx.Month,
			Description:     tx.Description,
			Amount:          tx.Amount.StringFixed(2),
			Category:        tx.Category,
			AccountID:       tx.AccountID,
			TransactionType: tx.TransactionType,
			Message:         tx.Message,
			RawText:         tx.RawText,
			Tags:            strings.Join(tx.Tags, tagSep),
		})
	}
	return w.marshal(out, &rows)
}

// WriteTrend writes the monthly spending trend.
func (w *Writer) WriteTrend(out io.Writer, points []aggregate.TrendPoint) error {
	rows := make([]TrendRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, TrendRow{Month: p.Month, Category: p.Category, Amount: p.Amount.StringFixed(2)})
	}
	return w.marshal(out, &rows)
}

// WriteMonthlyTotals writes monthly totals; absent values are empty cells.
func (w *Writer) WriteMonthlyTotals(out io.Writer, totals []aggregate.MonthlyTotal) error {
	rows := make([]MonthlyTotalRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, MonthlyTotalRow{
			Month:         t.Month,
			Total:         t.Total.StringFixed(2),
			Previous:      optional(t.Previous, 2),
			ChangePercent: optional(t.ChangePercent, 2),
		})
	}
	return w.marshal(out, &rows)
}

// WriteComparisons writes the spend-vs-limit table.
func (w *Writer) WriteComparisons(out io.Writer, comparisons []budget.Comparison) error {
	rows := make([]ComparisonRow, 0, len(comparisons))
	for _, c := range comparisons {
		rows = append(rows, ComparisonRow{
			Category:        c.Category,
			Limit:           c.Limit.StringFixed(2),
			Spent:           c.Spent.StringFixed(2),
			PercentUsed:     optional(c.PercentUsed, 1),
			Status:          c.Status,
			MatchedCategory: c.MatchedCategory,
		})
	}
	return w.marshal(out, &rows)
}

// WriteExpenses writes ledger expenses.
func (w *Writer) WriteExpenses(out io.Writer, expenses []ledger.Expense) error {
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, ExpenseRow{
			ID:          e.ID,
			Date:        e.Date.Format(dateLayout),
			Amount:      e.Amount.StringFixed(2),
			Category:    e.Category,
			Description: e.Description,
		})
	}
	return w.marshal(out, &rows)
}

// ReadExpenses parses ledger expenses from CSV. The ID column is optional
// and ignored; the ledger assigns its own.
func (w *Writer) ReadExpenses(in io.Reader) ([]ledger.Expense, error) {
	reader := csv.NewReader(in)
	reader.Comma = w.delimiter
	reader.TrimLeadingSpace = true

	var rows []ExpenseRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing expenses CSV: %w", err)
	}

	expenses := make([]ledger.Expense, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", i+1, row.Date, err)
		}
		amount, err := currencyutils.ParseAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", i+1, row.Amount, err)
		}
		expenses = append(expenses, ledger.Expense{
			Date:        date,
			Amount:      amount,
			Category:    row.Category,
			Description: row.Description,
		})
	}
	w.logger.Debug("Read expenses from CSV", logging.F(logging.FieldCount, len(expenses)))
	return expenses, nil
}

// WriteFile creates path (and its directory) and fills it with write.
func (w *Writer) WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	w.logger.Info("Wrote CSV file", logging.F(logging.FieldOutputFile, path))
	return nil
}

func (w *Writer) marshal(out io.Writer, rows interface{}) error {
	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

func optional(d *decimal.Decimal, places int32) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(places)
}

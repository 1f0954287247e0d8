package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/up-budget/internal/aggregate"
	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/ledger"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestWriteTransactions(t *testing.T) {
	perth, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)

	txs := []models.CanonicalTransaction{{
		ID:          "tx-001",
		Date:        time.Date(2023, time.June, 1, 10, 0, 0, 0, perth),
		Month:       "2023-06",
		Description: "Coles Supermarket",
		Amount:      decimal.RequireFromString("-85.2"),
		Category:    "Groceries",
		AccountID:   "1001",
		RawText:     "COLES SUPERMARKET",
		Tags:        []string{"weekly", "food"},
		Message:     "Weekly groceries",
	}}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(',', logging.NewMockLogger()).WriteTransactions(&buf, txs))

	out := lines(buf.String())
	require.Len(t, out, 2)
	assert.Equal(t, "ID,Date,Month,Description,Amount,Category,AccountID,TransactionType,Message,RawText,Tags", out[0])
	assert.Equal(t, "tx-001,2023-06-01T10:00:00+08:00,2023-06,Coles Supermarket,-85.20,Groceries,1001,,Weekly groceries,COLES SUPERMARKET,weekly|food", out[1])
}

func TestWriteTrend_Delimiter(t *testing.T) {
	points := []aggregate.TrendPoint{
		{Month: "2023-06", Category: "Groceries", Amount: decimal.RequireFromString("153.06")},
		{Month: "2023-06", Category: "Housing", Amount: decimal.NewFromInt(1800)},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(';', nil).WriteTrend(&buf, points))
	assert.Equal(t, []string{
		"Month;Category;Amount",
		"2023-06;Groceries;153.06",
		"2023-06;Housing;1800.00",
	}, lines(buf.String()))
}

func TestWriteMonthlyTotals_EmptyCells(t *testing.T) {
	prev := decimal.NewFromInt(100)
	change := decimal.RequireFromString("50")
	totals := []aggregate.MonthlyTotal{
		{Month: "2023-06", Total: decimal.NewFromInt(150), Previous: &prev, ChangePercent: &change},
		{Month: "2023-05", Total: decimal.NewFromInt(100)},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(0, nil).WriteMonthlyTotals(&buf, totals))
	assert.Equal(t, []string{
		"Month,Total,Previous,ChangePercent",
		"2023-06,150.00,100.00,50.00",
		"2023-05,100.00,,",
	}, lines(buf.String()))
}

func TestWriteComparisons(t *testing.T) {
	pct := decimal.RequireFromString("123.7")
	comparisons := []budget.Comparison{
		{Category: "Housing", Limit: decimal.RequireFromString("1455"), Spent: decimal.NewFromInt(1800),
			PercentUsed: &pct, Status: budget.StatusOverBudget, MatchedCategory: "Housing"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(',', nil).WriteComparisons(&buf, comparisons))
	assert.Equal(t, []string{
		"Category,Limit,Spent,PercentUsed,Status,MatchedCategory",
		"Housing,1455.00,1800.00,123.7,Over budget,Housing",
	}, lines(buf.String()))
}

func TestExpenses_RoundTrip(t *testing.T) {
	w := NewWriter(',', logging.NewMockLogger())
	in := []ledger.Expense{
		{ID: "a", Date: time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("12.5"), Category: "Food", Description: "Lunch, with team"},
	}

	var buf bytes.Buffer
	require.NoError(t, w.WriteExpenses(&buf, in))
	assert.Contains(t, buf.String(), `"Lunch, with team"`)

	out, err := w.ReadExpenses(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].ID)
	assert.True(t, in[0].Date.Equal(out[0].Date))
	assert.True(t, in[0].Amount.Equal(out[0].Amount))
	assert.Equal(t, "Food", out[0].Category)
	assert.Equal(t, "Lunch, with team", out[0].Description)
}

func TestReadExpenses_CurrencyFormatting(t *testing.T) {
	w := NewWriter(',', nil)

	out, err := w.ReadExpenses(strings.NewReader("Date,Amount,Category\n2025-06-03,\"$1,200.00\",Rent\n"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1200", out[0].Amount.String())
}

func TestReadExpenses_Invalid(t *testing.T) {
	w := NewWriter(',', nil)

	_, err := w.ReadExpenses(strings.NewReader("Date,Amount,Category\n03/06/2025,10,Food\n"))
	assert.ErrorContains(t, err, "row 1: date")

	_, err = w.ReadExpenses(strings.NewReader("Date,Amount,Category\n2025-06-03,ten,Food\n"))
	assert.ErrorContains(t, err, "row 1: amount")
}

func TestWriteFile(t *testing.T) {
	logger := logging.NewMockLogger()
	w := NewWriter(',', logger)
	path := filepath.Join(t.TempDir(), "out", "trend.csv")

	err := w.WriteFile(path, func(out io.Writer) error {
		return w.WriteTrend(out, []aggregate.TrendPoint{{Month: "2023-06", Category: "Housing", Amount: decimal.NewFromInt(1)}})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Month,Category,Amount\n2023-06,Housing,1.00\n", string(data))
	assert.True(t, logger.HasEntry("INFO", "Wrote CSV file"))
}

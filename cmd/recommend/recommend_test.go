package recommend_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/up-budget/cmd/recommend"
	"fjacquet/up-budget/internal/config"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Budget.MappingFile = filepath.Join(dir, "budget_mapping.yaml")
	cfg.Ledger.Path = filepath.Join(dir, "ledger.db")
	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithClock(func() time.Time { return time.Date(2023, time.June, 28, 14, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestParseIncome(t *testing.T) {
	income, err := recommend.ParseIncome("")
	require.NoError(t, err)
	assert.Nil(t, income)

	income, err = recommend.ParseIncome(" $5000.50 ")
	require.NoError(t, err)
	require.NotNil(t, income)
	assert.Equal(t, "5000.5", income.String())

	_, err = recommend.ParseIncome("lots")
	var verr *dataerror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "income", verr.Field)

	_, err = recommend.ParseIncome("-10")
	assert.EqualError(t, err, "invalid income: must not be negative")
}

func TestRun_ObservedIncome(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, recommend.Run(context.Background(), newContainer(t), &out, "text", recommend.Options{}))

	text := out.String()
	assert.Contains(t, text, "Income: $4850.00 (observed)")
	assert.Contains(t, text, "Financial health: 85/100")
}

func TestRun_ProvidedIncomeWithCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.csv")

	var out bytes.Buffer
	err := recommend.Run(context.Background(), newContainer(t), &out, "text", recommend.Options{Income: "5000", CSVFile: path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Income: $5000.00 (provided)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Category,Limit,Spent,PercentUsed,Status,MatchedCategory\n"))
}

func TestRun_InvalidIncome(t *testing.T) {
	var out bytes.Buffer
	err := recommend.Run(context.Background(), newContainer(t), &out, "text", recommend.Options{Income: "abc"})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

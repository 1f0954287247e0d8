package datasource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/mockdata"
	"fjacquet/up-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	accounts     []models.RawAccount
	transactions []models.RawTransaction
	categories   []models.RawCategory
	err          error
}

func (s *stubSource) FetchAccounts(ctx context.Context) ([]models.RawAccount, error) {
	return s.accounts, s.err
}

func (s *stubSource) FetchTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	return s.transactions, s.err
}

func (s *stubSource) FetchCategories(ctx context.Context) ([]models.RawCategory, error) {
	return s.categories, s.err
}

func TestFallbackSource_PrimarySucceeds(t *testing.T) {
	logger := logging.NewMockLogger()
	primary := &stubSource{accounts: []models.RawAccount{{ID: "live"}}}
	src := NewFallbackSource(primary, mockdata.NewSource(), logger)

	accounts, err := src.FetchAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "live", accounts[0].ID)

	st := src.Status()
	assert.False(t, st.UsedFallback)
	assert.Empty(t, st.Errors)
	assert.Empty(t, st.Resources)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestFallbackSource_PrimaryFails(t *testing.T) {
	logger := logging.NewMockLogger()
	fetchErr := &dataerror.FetchError{Resource: "transactions", StatusCode: 500, Err: errors.New("boom")}
	src := NewFallbackSource(&stubSource{err: fetchErr}, mockdata.NewSource(), logger)

	txs, err := src.FetchTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 10)

	st := src.Status()
	assert.True(t, st.UsedFallback)
	require.Len(t, st.Errors, 1)
	var asFetchErr *dataerror.FetchError
	assert.True(t, errors.As(st.Errors[0], &asFetchErr))
	assert.Equal(t, []string{"transactions"}, st.Resources)

	warns := logger.GetEntriesByLevel("WARN")
	require.Len(t, warns, 1)
	resource, ok := warns[0].FieldValue(logging.FieldResource)
	require.True(t, ok)
	assert.Equal(t, "transactions", resource)
	assert.Equal(t, fetchErr, warns[0].Error)
}

func TestFallbackSource_StatusTracksLastFetchPerResource(t *testing.T) {
	primary := &stubSource{err: errors.New("offline")}
	src := NewFallbackSource(primary, mockdata.NewSource(), logging.NewMockLogger())

	_, err := src.FetchCategories(context.Background())
	require.NoError(t, err)
	_, err = src.FetchAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"categories", "accounts"}, src.Status().Resources)

	primary.err = nil
	primary.categories = []models.RawCategory{{ID: "housing", Name: "Housing"}}
	_, err = src.FetchCategories(context.Background())
	require.NoError(t, err)

	st := src.Status()
	assert.True(t, st.UsedFallback)
	assert.Equal(t, []string{"accounts"}, st.Resources)
}

func TestFallbackSource_BothFail(t *testing.T) {
	src := NewFallbackSource(
		&stubSource{err: errors.New("offline")},
		&stubSource{err: errors.New("unavailable")},
		logging.NewMockLogger())

	_, err := src.FetchAccounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Contains(t, err.Error(), "unavailable")
}

func TestFallbackSource_CallerCancellationIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := logging.NewMockLogger()
	src := NewFallbackSource(&stubSource{err: context.Canceled}, mockdata.NewSource(), logger)
	accounts, err := src.FetchAccounts(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, accounts)

	st := src.Status()
	assert.False(t, st.UsedFallback)
	assert.Empty(t, st.Errors)
	assert.Empty(t, st.Resources)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestFallbackSource_ClientTimeoutFallsBack(t *testing.T) {
	timeout := fmt.Errorf("fetch accounts: %w", context.DeadlineExceeded)
	src := NewFallbackSource(&stubSource{err: timeout}, mockdata.NewSource(), logging.NewMockLogger())

	accounts, err := src.FetchAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.True(t, src.Status().UsedFallback)
}

package upapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountsDoc = `{
  "data": [
    {
      "type": "accounts",
      "id": "acc-1",
      "attributes": {
        "displayName": "Spending",
        "accountType": "TRANSACTIONAL",
        "balance": {"currencyCode": "AUD", "value": "4325.78", "valueInBaseUnits": 432578}
      },
      "relationships": {}
    },
    {
      "type": "accounts",
      "id": "acc-2",
      "attributes": {
        "name": "Savings Account",
        "accountType": "SAVER",
        "balance": {"currencyCode": "AUD", "value": "2750.42", "valueInBaseUnits": 275042}
      }
    }
  ],
  "links": {"prev": null, "next": null}
}`

const categoriesDoc = `{
  "data": [
    {"type": "categories", "id": "food-and-drink", "attributes": {"name": "Food & Drink"},
     "relationships": {"parent": {"data": null}}},
    {"type": "categories", "id": "groceries", "attributes": {"name": "Groceries"},
     "relationships": {"parent": {"data": {"type": "categories", "id": "food-and-drink"}}}}
  ]
}`

func txResource(id string) string {
	return fmt.Sprintf(`{
  "type": "transactions",
  "id": %q,
  "attributes": {
    "description": "Coles",
    "message": null,
    "rawText": "COLES 123",
    "amount": {"currencyCode": "AUD", "value": "-85.24", "valueInBaseUnits": -8524},
    "createdAt": "2025-06-01T12:00:00+10:00",
    "settledAt": null,
    "transactionType": null
  },
  "relationships": {
    "account": {"data": {"type": "accounts", "id": "acc-1"}},
    "category": {"data": {"type": "categories", "id": "groceries"}},
    "tags": {"data": [{"type": "tags", "id": "weekly"}]}
  }
}`, id)
}

func txPage(ids []string, next string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = txResource(id)
	}
	link := "null"
	if next != "" {
		link = fmt.Sprintf("%q", next)
	}
	return fmt.Sprintf(`{"data": [%s], "links": {"prev": null, "next": %s}}`, strings.Join(parts, ","), link)
}

func newTestClient(t *testing.T, srv *httptest.Server, maxTx int) *Client {
	t.Helper()
	return NewClient(Config{
		Token:           "test-token",
		BaseURL:         srv.URL,
		Timeout:         2 * time.Second,
		PageSize:        2,
		MaxTransactions: maxTx,
	}, logging.NewMockLogger())
}

func TestFetchAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, accountsDoc)
	}))
	defer srv.Close()

	accounts, err := newTestClient(t, srv, 10).FetchAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "acc-1", accounts[0].ID)
	assert.Equal(t, "Spending", accounts[0].Name)
	assert.Equal(t, "AUD", accounts[0].Currency)
	assert.True(t, decimal.RequireFromString("4325.78").Equal(accounts[0].Balance))
	assert.Equal(t, "Savings Account", accounts[1].Name, "falls back to the name attribute")
	assert.Equal(t, "SAVER", accounts[1].AccountType)
}

func TestFetchCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		_, _ = fmt.Fprint(w, categoriesDoc)
	}))
	defer srv.Close()

	categories, err := newTestClient(t, srv, 10).FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "", categories[0].ParentID)
	assert.Equal(t, "Groceries", categories[1].Name)
	assert.Equal(t, "food-and-drink", categories[1].ParentID)
}

func TestFetchTransactions_FollowsNextLinks(t *testing.T) {
	var srv *httptest.Server
	requests := 0
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Query().Get("page[after]") {
		case "":
			assert.Equal(t, "2", r.URL.Query().Get("page[size]"))
			_, _ = fmt.Fprint(w, txPage([]string{"tx-1", "tx-2"}, srv.URL+"/transactions?page[size]=2&page[after]=p2"))
		case "p2":
			_, _ = fmt.Fprint(w, txPage([]string{"tx-3"}, ""))
		default:
			t.Errorf("unexpected page %q", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	txs, err := newTestClient(t, srv, 500).FetchTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, 2, requests)

	tx := txs[0]
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "Coles", tx.Description)
	assert.Equal(t, "", tx.Message)
	assert.Equal(t, "COLES 123", tx.RawText)
	assert.Equal(t, "AUD", tx.Currency)
	assert.True(t, decimal.RequireFromString("-85.24").Equal(tx.Amount))
	require.NotNil(t, tx.CreatedAt)
	assert.Nil(t, tx.SettledAt)
	assert.Equal(t, "acc-1", tx.AccountID)
	assert.Equal(t, "groceries", tx.CategoryID)
	assert.Equal(t, []string{"weekly"}, tx.Tags)
	assert.Equal(t, "", tx.TransactionType)
}

func TestFetchTransactions_StopsAtCap(t *testing.T) {
	var srv *httptest.Server
	requests := 0
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := requests
		ids := []string{fmt.Sprintf("tx-%d-a", page), fmt.Sprintf("tx-%d-b", page)}
		_, _ = fmt.Fprint(w, txPage(ids, fmt.Sprintf("%s/transactions?page[after]=%d", srv.URL, page)))
	}))
	defer srv.Close()

	txs, err := newTestClient(t, srv, 3).FetchTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	assert.Equal(t, 2, requests, "no page is requested once the cap is reached")
}

func TestFetchTransactions_CancelledContextDiscardsPages(t *testing.T) {
	var srv *httptest.Server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page[after]") == "" {
			_, _ = fmt.Fprint(w, txPage([]string{"tx-1", "tx-2"}, srv.URL+"/transactions?page[after]=p2"))
			cancel()
			return
		}
		_, _ = fmt.Fprint(w, txPage([]string{"tx-3"}, ""))
	}))
	defer srv.Close()

	txs, err := newTestClient(t, srv, 500).FetchTransactions(ctx)
	require.Error(t, err)
	assert.Nil(t, txs)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetch_StatusErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"errors":[{"status":"401","title":"Not Authorized","detail":"The request was not authenticated"}]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 10).FetchAccounts(context.Background())
	require.Error(t, err)

	var fetchErr *dataerror.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ResourceAccounts, fetchErr.Resource)
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "Not Authorized: The request was not authenticated")
}

func TestFetch_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"unexpected": true}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 10).FetchCategories(context.Background())
	require.Error(t, err)
	var fetchErr *dataerror.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "missing data array")
}

func TestDecodeTransactions_BadAmount(t *testing.T) {
	doc := `{"data":[{"type":"transactions","id":"tx-x","attributes":{"description":"x",
	  "amount":{"currencyCode":"AUD","value":"abc","valueInBaseUnits":0},
	  "createdAt":"2025-06-01T12:00:00+10:00"}}]}`

	_, _, err := DecodeTransactions(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx-x")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{Token: "t"}, nil)
	assert.Equal(t, "https://api.up.com.au/api/v1", c.baseURL)
	assert.Equal(t, 100, c.pageSize)
	assert.Equal(t, 500, c.maxTransactions)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
}

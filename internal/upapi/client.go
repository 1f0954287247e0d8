// Package upapi is a client for the Up Bank REST API. It fetches accounts,
// transactions and categories and converts the JSON:API documents into raw
// models.
package upapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"
)

// Resource names used in errors and logs.
const (
	ResourceAccounts     = "accounts"
	ResourceTransactions = "transactions"
	ResourceCategories   = "categories"
)

const maxErrorBody = 4096

// Config configures a Client.
type Config struct {
	Token           string
	BaseURL         string
	Timeout         time.Duration
	PageSize        int
	MaxTransactions int
}

// Client fetches data from the Up API. It is safe for concurrent use.
type Client struct {
	baseURL         string
	token           string
	pageSize        int
	maxTransactions int
	httpClient      *http.Client
	logger          logging.Logger
}

// NewClient creates a Client. Zero values in cfg fall back to the API
// defaults: 10s timeout, 100 per page, 500 transactions.
func NewClient(cfg Config, logger logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.up.com.au/api/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxTransactions <= 0 {
		cfg.MaxTransactions = 500
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		token:           cfg.Token,
		pageSize:        cfg.PageSize,
		maxTransactions: cfg.MaxTransactions,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		logger:          logger.WithField(logging.FieldSource, "upapi"),
	}
}

// Name identifies the source in logs.
func (c *Client) Name() string {
	return "upapi"
}

// FetchAccounts returns every account.
func (c *Client) FetchAccounts(ctx context.Context) ([]models.RawAccount, error) {
	endpoint := c.baseURL + "/accounts"
	body, err := c.get(ctx, ResourceAccounts, endpoint)
	if err != nil {
		return nil, err
	}
	accounts, err := DecodeAccounts(bytes.NewReader(body))
	if err != nil {
		return nil, &dataerror.FetchError{Resource: ResourceAccounts, URL: endpoint, Err: err}
	}
	return accounts, nil
}

// FetchCategories returns the category taxonomy.
func (c *Client) FetchCategories(ctx context.Context) ([]models.RawCategory, error) {
	endpoint := c.baseURL + "/categories"
	body, err := c.get(ctx, ResourceCategories, endpoint)
	if err != nil {
		return nil, err
	}
	categories, err := DecodeCategories(bytes.NewReader(body))
	if err != nil {
		return nil, &dataerror.FetchError{Resource: ResourceCategories, URL: endpoint, Err: err}
	}
	return categories, nil
}

// FetchTransactions follows pagination links sequentially until the last
// page or the configured cap. Any failure, including cancellation, discards
// the pages already fetched.
func (c *Client) FetchTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	query := url.Values{}
	query.Set("page[size]", strconv.Itoa(c.pageSize))
	next := c.baseURL + "/transactions?" + query.Encode()

	all := make([]models.RawTransaction, 0, c.pageSize)
	page := 0
	for next != "" && len(all) < c.maxTransactions {
		page++
		endpoint := next
		body, err := c.get(ctx, ResourceTransactions, endpoint)
		if err != nil {
			return nil, err
		}
		txs, link, err := DecodeTransactions(bytes.NewReader(body))
		if err != nil {
			return nil, &dataerror.FetchError{Resource: ResourceTransactions, URL: endpoint, Err: err}
		}
		all = append(all, txs...)
		next = link

		c.logger.Debug("Fetched transaction page",
			logging.F(logging.FieldPage, page),
			logging.F(logging.FieldCount, len(txs)),
			logging.F("total", len(all)))
	}

	if len(all) > c.maxTransactions {
		all = all[:c.maxTransactions]
	}
	return all, nil
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, resource, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &dataerror.FetchError{Resource: resource, URL: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &dataerror.FetchError{Resource: resource, URL: endpoint, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WithError(cerr).Debug("Failed to close response body")
		}
	}()

	c.logger.Debug("Up API request",
		logging.F(logging.FieldResource, resource),
		logging.F(logging.FieldURL, endpoint),
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &dataerror.FetchError{
			Resource:   resource,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        apiError(resp.Status, body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &dataerror.FetchError{Resource: resource, URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// apiError extracts the first JSON:API error object, if any.
func apiError(status string, body []byte) error {
	var payload struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		e := payload.Errors[0]
		if e.Detail != "" {
			return fmt.Errorf("%s: %s", e.Title, e.Detail)
		}
		return errors.New(e.Title)
	}
	return errors.New(status)
}

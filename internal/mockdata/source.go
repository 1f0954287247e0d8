// Package mockdata serves a fixed Up-format dataset used when no API token is
// configured or the live API cannot be reached.
package mockdata

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	"fjacquet/up-budget/internal/models"
	"fjacquet/up-budget/internal/upapi"
)

//go:embed data/*.json
var documents embed.FS

// Source returns the embedded dataset. Every call decodes a fresh copy, so
// callers may mutate what they receive.
type Source struct{}

// NewSource creates a mock Source.
func NewSource() *Source {
	return &Source{}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "mock"
}

// FetchAccounts returns the mock accounts.
func (s *Source) FetchAccounts(ctx context.Context) ([]models.RawAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := read("accounts.json")
	if err != nil {
		return nil, err
	}
	return upapi.DecodeAccounts(bytes.NewReader(raw))
}

// FetchTransactions returns the mock transactions.
func (s *Source) FetchTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := read("transactions.json")
	if err != nil {
		return nil, err
	}
	txs, _, err := upapi.DecodeTransactions(bytes.NewReader(raw))
	return txs, err
}

// FetchCategories returns the mock categories.
func (s *Source) FetchCategories(ctx context.Context) ([]models.RawCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := read("categories.json")
	if err != nil {
		return nil, err
	}
	return upapi.DecodeCategories(bytes.NewReader(raw))
}

func read(name string) ([]byte, error) {
	raw, err := documents.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read mock %s: %w", name, err)
	}
	return raw, nil
}

package models

import "github.com/shopspring/decimal"

// RawAccount is an account snapshot as returned by the banking provider.
// It is the source of truth for balances.
type RawAccount struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Balance     decimal.Decimal `json:"balance" yaml:"balance"`
	Currency    string          `json:"currency" yaml:"currency"`
	AccountType string          `json:"account_type" yaml:"account_type"`
}

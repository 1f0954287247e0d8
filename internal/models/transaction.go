package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a provider transaction before normalization. Optional
// string fields use "" for absent; optional timestamps use nil.
type RawTransaction struct {
	ID              string
	Description     string
	Message         string
	Amount          decimal.Decimal // negative = debit, positive = credit
	Currency        string
	RawText         string
	CreatedAt       *time.Time
	SettledAt       *time.Time
	AccountID       string
	CategoryID      string
	Tags            []string
	TransactionType string
}

// IsTransfer reports whether the transaction belongs to the reserved
// transfer category.
func (t RawTransaction) IsTransfer() bool {
	return t.CategoryID == CategoryIDTransfer
}

// CanonicalTransaction is the normalized, filtered transaction every
// aggregate is computed from.
type CanonicalTransaction struct {
	ID              string          `json:"id" yaml:"id"`
	Date            time.Time       `json:"date" yaml:"date"`
	Description     string          `json:"description" yaml:"description"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	Category        string          `json:"category" yaml:"category"`
	AccountID       string          `json:"account_id" yaml:"account_id"`
	RawText         string          `json:"raw_text" yaml:"raw_text"`
	Tags            []string        `json:"tags" yaml:"tags"`
	TransactionType string          `json:"transaction_type" yaml:"transaction_type"`
	Message         string          `json:"message,omitempty" yaml:"message,omitempty"`
	Month           string          `json:"month" yaml:"month"`
}

// IsExpense reports whether money left the account.
func (t CanonicalTransaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsSalary reports whether the transaction counts as income.
func (t CanonicalTransaction) IsSalary() bool {
	return t.TransactionType == TransactionTypeSalary
}

// IsInternalMovement reports whether the transaction is a transfer or a
// round-up, both of which are excluded from expense-by-category totals.
func (t CanonicalTransaction) IsInternalMovement() bool {
	return t.TransactionType == TransactionTypeTransfer || t.TransactionType == TransactionTypeRoundUp
}

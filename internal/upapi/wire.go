package upapi

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"fjacquet/up-budget/internal/models"

	"github.com/shopspring/decimal"
)

// Up speaks JSON:API: every response is a document with a data array and
// optional pagination links.

type document struct {
	Data  []resource `json:"data"`
	Links struct {
		Prev *string `json:"prev"`
		Next *string `json:"next"`
	} `json:"links"`
}

type resource struct {
	Type          string          `json:"type"`
	ID            string          `json:"id"`
	Attributes    json.RawMessage `json:"attributes"`
	Relationships relationships   `json:"relationships"`
}

type relationships struct {
	Account  *relationship     `json:"account"`
	Category *relationship     `json:"category"`
	Parent   *relationship     `json:"parent"`
	Tags     *listRelationship `json:"tags"`
}

type relationship struct {
	Data *resourceIdentifier `json:"data"`
}

type listRelationship struct {
	Data []resourceIdentifier `json:"data"`
}

type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (r *relationship) id() string {
	if r == nil || r.Data == nil {
		return ""
	}
	return r.Data.ID
}

type money struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`
	ValueInBaseUnits int64  `json:"valueInBaseUnits"`
}

func (m money) decimal() (decimal.Decimal, error) {
	if m.Value == "" {
		return decimal.New(m.ValueInBaseUnits, -2), nil
	}
	return decimal.NewFromString(m.Value)
}

type accountAttributes struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	Balance     money  `json:"balance"`
}

type transactionAttributes struct {
	Status          string     `json:"status"`
	RawText         *string    `json:"rawText"`
	Description     string     `json:"description"`
	Message         *string    `json:"message"`
	Amount          money      `json:"amount"`
	CreatedAt       *time.Time `json:"createdAt"`
	SettledAt       *time.Time `json:"settledAt"`
	TransactionType *string    `json:"transactionType"`
}

type categoryAttributes struct {
	Name string `json:"name"`
}

func decodeDocument(r io.Reader) (*document, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JSON:API document: %w", err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("decode JSON:API document: missing data array")
	}
	return &doc, nil
}

func (d *document) next() string {
	if d.Links.Next == nil {
		return ""
	}
	return *d.Links.Next
}

// DecodeAccounts reads an accounts document.
func DecodeAccounts(r io.Reader) ([]models.RawAccount, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	return toAccounts(doc.Data)
}

// DecodeCategories reads a categories document.
func DecodeCategories(r io.Reader) ([]models.RawCategory, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	return toCategories(doc.Data)
}

// DecodeTransactions reads one transactions document and returns its records
// and the next page link ("" on the last page).
func DecodeTransactions(r io.Reader) ([]models.RawTransaction, string, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, "", err
	}
	txs, err := toTransactions(doc.Data)
	if err != nil {
		return nil, "", err
	}
	return txs, doc.next(), nil
}

func toAccounts(data []resource) ([]models.RawAccount, error) {
	accounts := make([]models.RawAccount, 0, len(data))
	for _, res := range data {
		var attrs accountAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("account %s: %w", res.ID, err)
		}
		balance, err := attrs.Balance.decimal()
		if err != nil {
			return nil, fmt.Errorf("account %s: balance %q: %w", res.ID, attrs.Balance.Value, err)
		}
		name := attrs.DisplayName
		if name == "" {
			name = attrs.Name
		}
		accounts = append(accounts, models.RawAccount{
			ID:          res.ID,
			Name:        name,
			Balance:     balance,
			Currency:    attrs.Balance.CurrencyCode,
			AccountType: attrs.AccountType,
		})
	}
	return accounts, nil
}

func toCategories(data []resource) ([]models.RawCategory, error) {
	categories := make([]models.RawCategory, 0, len(data))
	for _, res := range data {
		var attrs categoryAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("category %s: %w", res.ID, err)
		}
		categories = append(categories, models.RawCategory{
			ID:       res.ID,
			Name:     attrs.Name,
			ParentID: res.Relationships.Parent.id(),
		})
	}
	return categories, nil
}

func toTransactions(data []resource) ([]models.RawTransaction, error) {
	txs := make([]models.RawTransaction, 0, len(data))
	for _, res := range data {
		var attrs transactionAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", res.ID, err)
		}
		amount, err := attrs.Amount.decimal()
		if err != nil {
			return nil, fmt.Errorf("transaction %s: amount %q: %w", res.ID, attrs.Amount.Value, err)
		}

		tags := []string{}
		if res.Relationships.Tags != nil {
			for _, tag := range res.Relationships.Tags.Data {
				tags = append(tags, tag.ID)
			}
		}

		txs = append(txs, models.RawTransaction{
			ID:              res.ID,
			Description:     attrs.Description,
			Message:         deref(attrs.Message),
			Amount:          amount,
			Currency:        attrs.Amount.CurrencyCode,
			RawText:         deref(attrs.RawText),
			CreatedAt:       attrs.CreatedAt,
			SettledAt:       attrs.SettledAt,
			AccountID:       res.Relationships.Account.id(),
			CategoryID:      res.Relationships.Category.id(),
			Tags:            tags,
			TransactionType: deref(attrs.TransactionType),
		})
	}
	return txs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

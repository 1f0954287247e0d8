// Package currencyutils parses user-entered money amounts.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank input.
var ErrEmptyAmount = errors.New("amount is empty")

var (
	currencyMarks = regexp.MustCompile(`(?i)^(aud|a\$|\$)|(aud)$`)
	groupedDigits = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// StandardizeAmount strips currency marks, spaces and thousands separators
// from amounts such as "$1,234.56", "AUD 20" or "-A$5".
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	s = strings.TrimSpace(currencyMarks.ReplaceAllString(s, ""))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "'", "")
	if negative {
		s = "-" + s
	}
	if groupedDigits.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// ParseAmount parses a user-entered amount. Comma grouping is accepted only
// in groups of three so "1,5" is rejected rather than read as 15.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	amount, err := decimal.NewFromString(StandardizeAmount(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

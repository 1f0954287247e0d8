package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"12.50", "12.50"},
		{" $12.50 ", "12.50"},
		{"$1,234.56", "1234.56"},
		{"AUD 20", "20"},
		{"20 AUD", "20"},
		{"A$5", "5"},
		{"-$7.25", "-7.25"},
		{"1 000", "1000"},
		{"1,5", "1,5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StandardizeAmount(tt.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("$4,850.00")
	require.NoError(t, err)
	assert.Equal(t, "4850", amount.String())

	amount, err = ParseAmount("-78.5")
	require.NoError(t, err)
	assert.Equal(t, "-78.5", amount.String())

	_, err = ParseAmount("   ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("1,5")
	assert.Error(t, err)

	_, err = ParseAmount("ten dollars")
	assert.Error(t, err)
}

package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perth(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation(DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("Australia/Perth")
	require.NoError(t, err)
	assert.Equal(t, "Australia/Perth", loc.String())

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestMonthKey(t *testing.T) {
	loc := perth(t)
	// 2023-06-30 20:00 UTC is already July 1st in Perth (UTC+8).
	instant := time.Date(2023, time.June, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2023-06", MonthKey(instant, nil))
	assert.Equal(t, "2023-07", MonthKey(instant, loc))
}

func TestStartOfWeek(t *testing.T) {
	loc := perth(t)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2023, 6, 12, 9, 30, 0, 0, loc), time.Date(2023, 6, 12, 0, 0, 0, 0, loc)},
		{"wednesday", time.Date(2023, 6, 14, 23, 59, 0, 0, loc), time.Date(2023, 6, 12, 0, 0, 0, 0, loc)},
		{"sunday", time.Date(2023, 6, 18, 1, 0, 0, 0, loc), time.Date(2023, 6, 12, 0, 0, 0, 0, loc)},
		{"across month", time.Date(2023, 7, 1, 12, 0, 0, 0, loc), time.Date(2023, 6, 26, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(StartOfWeek(tt.in)), "got %s", StartOfWeek(tt.in))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2023, 6, 14, 17, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestParseDate(t *testing.T) {
	loc := perth(t)
	tests := []struct {
		name        string
		in          string
		ok          bool
		wantDay     int
		wantMonth   time.Month
		expectedFmt string
	}{
		{"ISO", "2023-06-15", true, 15, time.June, DateLayoutISO},
		{"full timestamp", "2023-06-15 10:30:00", true, 15, time.June, DateLayoutFull},
		{"RFC3339", "2023-06-15T10:00:00+08:00", true, 15, time.June, time.RFC3339},
		{"australian", "15/06/2023", true, 15, time.June, DateLayoutAustralian},
		{"month name", "  15   Jun 2023 ", true, 15, time.June, DateLayoutWithMonth},
		{"empty", "", false, 0, 0, ""},
		{"garbage", "next tuesday", false, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := ParseDate(tt.in, loc)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFmt, format)
			assert.Equal(t, tt.wantDay, got.Day())
			assert.Equal(t, tt.wantMonth, got.Month())
		})
	}
}

func TestParseDate_UsesLocation(t *testing.T) {
	loc := perth(t)
	got, _, err := ParseDate("2023-06-15", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())

	got, _, err = ParseDate("2023-06-15", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}

func TestCompareMonthKeys(t *testing.T) {
	assert.Equal(t, -1, CompareMonthKeys("2023-05", "2023-06"))
	assert.Equal(t, 1, CompareMonthKeys("2024-01", "2023-12"))
	assert.Equal(t, 0, CompareMonthKeys("2023-06", "2023-06"))
}

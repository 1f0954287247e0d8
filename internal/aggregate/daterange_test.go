package aggregate

import (
	"testing"
	"time"

	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_String(t *testing.T) {
	r := DateRange{
		Start: time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 6, 19, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2023-06-12_2023-06-19", r.String())
	assert.Equal(t, "", DateRange{}.String())
	assert.True(t, DateRange{}.IsZero())
}

func TestToday_And_ThisWeek(t *testing.T) {
	perth, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	// Wednesday 14 June 2023, 23:30 UTC is Thursday 15 June 07:30 in Perth.
	now := time.Date(2023, time.June, 14, 23, 30, 0, 0, time.UTC)

	today := Today(now, perth)
	assert.True(t, time.Date(2023, 6, 15, 0, 0, 0, 0, perth).Equal(today.Start))
	assert.True(t, time.Date(2023, 6, 16, 0, 0, 0, 0, perth).Equal(today.End))

	week := ThisWeek(now, perth)
	assert.True(t, time.Date(2023, 6, 12, 0, 0, 0, 0, perth).Equal(week.Start))
	assert.True(t, time.Date(2023, 6, 19, 0, 0, 0, 0, perth).Equal(week.End))
}

func TestFilterByRange(t *testing.T) {
	perth, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	at := func(id string, tm time.Time) models.CanonicalTransaction {
		return models.CanonicalTransaction{ID: id, Date: tm}
	}
	table := []models.CanonicalTransaction{
		at("sunday-before", time.Date(2023, 6, 11, 23, 59, 0, 0, perth)),
		at("monday", time.Date(2023, 6, 12, 0, 0, 0, 0, perth)),
		// 16:30 UTC Thursday is 00:30 Friday in Perth.
		at("friday-utc", time.Date(2023, 6, 15, 16, 30, 0, 0, time.UTC)),
		at("next-monday", time.Date(2023, 6, 19, 0, 0, 0, 0, perth)),
	}
	now := time.Date(2023, 6, 16, 9, 0, 0, 0, perth)

	week := FilterByRange(table, ThisWeek(now, perth))
	require.Len(t, week, 2)
	assert.Equal(t, "monday", week[0].ID)
	assert.Equal(t, "friday-utc", week[1].ID)

	today := FilterByRange(table, Today(now, perth))
	require.Len(t, today, 1)
	assert.Equal(t, "friday-utc", today[0].ID)

	assert.NotNil(t, FilterByRange(nil, Today(now, perth)))
}

func TestSpan(t *testing.T) {
	perth, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	assert.True(t, Span(nil, perth).IsZero())

	table := []models.CanonicalTransaction{
		{ID: "b", Date: time.Date(2023, 6, 20, 12, 0, 0, 0, time.UTC)},
		// 17:00 UTC on 3 June is 01:00 on 4 June in Perth.
		{ID: "a", Date: time.Date(2023, 6, 3, 17, 0, 0, 0, time.UTC)},
		{ID: "c", Date: time.Date(2023, 6, 10, 9, 0, 0, 0, time.UTC)},
	}
	span := Span(table, perth)
	assert.Equal(t, "2023-06-04_2023-06-21", span.String())
	assert.True(t, span.Contains(table[0].Date))
	assert.True(t, span.Contains(table[1].Date))
}

func TestDetectDuplicates(t *testing.T) {
	logger := logging.NewMockLogger()
	day := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	table := []models.CanonicalTransaction{
		{ID: "1", Date: day, Amount: d("-85.24"), Description: "Coles Supermarket"},
		{ID: "2", Date: day.Add(3 * time.Hour), Amount: d("-85.24"), Description: " coles supermarket"},
		{ID: "3", Date: day, Amount: d("-85.25"), Description: "Coles Supermarket"},
		{ID: "4", Date: day.AddDate(0, 0, 1), Amount: d("-85.24"), Description: "Coles Supermarket"},
	}

	pairs := DetectDuplicates(table, logger)

	require.Len(t, pairs, 1)
	assert.Equal(t, "1", pairs[0].First.ID)
	assert.Equal(t, "2", pairs[0].Second.ID)
	assert.Len(t, table, 4, "duplicates are reported, not removed")
	assert.True(t, logger.HasEntry("WARN", "Potential duplicate transaction"))
	assert.True(t, logger.HasEntry("WARN", "Found potential duplicate transactions"))
}

func TestDetectDuplicates_NoneAndNilLogger(t *testing.T) {
	assert.Empty(t, DetectDuplicates(nil, nil))
	table := []models.CanonicalTransaction{
		tx("a", "2023-06", "Groceries", "-1", ""),
		tx("b", "2023-06", "Groceries", "-2", ""),
	}
	assert.Empty(t, DetectDuplicates(table, nil))
}

package aggregate

import (
	"fmt"
	"time"

	"fjacquet/up-budget/internal/dateutils"
	"fjacquet/up-budget/internal/models"
)

// DateRange is a half-open interval [Start, End).
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// IsZero reports whether either bound is unset.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() || dr.End.IsZero()
}

// Contains reports whether t falls inside the range.
func (dr DateRange) Contains(t time.Time) bool {
	return !t.Before(dr.Start) && t.Before(dr.End)
}

// Today returns the calendar day containing now, as observed in loc.
func Today(now time.Time, loc *time.Location) DateRange {
	start := dateutils.StartOfDay(inLocation(now, loc))
	return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// ThisWeek returns the Monday-to-Sunday week containing now, as observed in loc.
func ThisWeek(now time.Time, loc *time.Location) DateRange {
	start := dateutils.StartOfWeek(inLocation(now, loc))
	return DateRange{Start: start, End: start.AddDate(0, 0, 7)}
}

// FilterByRange returns the transactions dated inside r, in table order.
func FilterByRange(table []models.CanonicalTransaction, r DateRange) []models.CanonicalTransaction {
	out := make([]models.CanonicalTransaction, 0)
	for _, tx := range table {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// Span returns the whole days, as observed in loc, covering every
// transaction date. Empty input yields a zero range.
func Span(table []models.CanonicalTransaction, loc *time.Location) DateRange {
	if len(table) == 0 {
		return DateRange{}
	}

	first := table[0].Date
	last := table[0].Date
	for _, tx := range table {
		if tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return DateRange{
		Start: dateutils.StartOfDay(inLocation(first, loc)),
		End:   dateutils.StartOfDay(inLocation(last, loc)).AddDate(0, 0, 1),
	}
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

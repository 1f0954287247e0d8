// Package dateutils provides the calendar helpers used for month bucketing and
// the day/week views: month keys, period starts and timezone loading.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted for user-entered dates.
const (
	DateLayoutISO        = "2006-01-02"
	DateLayoutFull       = "2006-01-02 15:04:05"
	DateLayoutAustralian = "02/01/2006"
	DateLayoutWithMonth  = "2 Jan 2006"
	MonthKeyLayout       = "2006-01"
)

// DefaultTimezone is the reporting timezone used when none is configured.
const DefaultTimezone = "Australia/Perth"

// CommonFormats is the ordered list of layouts tried by ParseDate.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	DateLayoutAustralian,
	DateLayoutWithMonth,
	"2 January 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// LoadLocation resolves an IANA timezone name. An empty name yields UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// MonthKey returns the "YYYY-MM" bucket of t as observed in loc.
// A nil loc uses t's own location.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(MonthKeyLayout)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts each of CommonFormats in order and interprets
// zone-less layouts in loc. It returns the parsed time and the matching layout.
func ParseDate(dateStr string, loc *time.Location) (time.Time, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	dateStr = CleanDateString(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %q", dateStr)
}

// CompareMonthKeys orders two month keys chronologically.
func CompareMonthKeys(a, b string) int {
	return strings.Compare(a, b)
}

// Package dateutil parses the loosely formatted dates found in spreadsheets
// and stores them in one canonical layout.
package dateutil

import (
	"strings"
	"time"
)

// DateLayout is the canonical stored form of a calendar date.
const DateLayout = "2006-01-02"

// Layouts are tried in order; month-first slash dates win over day-first.
var layouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// Parse returns the date in s, or false when no layout matches.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize rewrites s as YYYY-MM-DD when it parses.
func Normalize(s string) (string, bool) {
	t, ok := Parse(s)
	if !ok {
		return s, false
	}
	return t.Format(DateLayout), true
}

// Today is the calendar date of now in the canonical layout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth is midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

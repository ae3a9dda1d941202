package core

import (
	"strconv"
	"strings"
	"time"
)

// MonthKey returns the YYYY-MM prefix for the given instant.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PrevMonthKey returns the YYYY-MM prefix for the calendar month before the
// given instant, rolling the year over at January.
func PrevMonthKey(now time.Time) string {
	first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01")
}

// InMonth reports whether the date string falls in the month identified by
// key (a YYYY-MM prefix). This is a plain prefix comparison, not a date-range
// check: a malformed date sharing the prefix is classified into the month.
func InMonth(date, key string) bool {
	return strings.HasPrefix(date, key)
}

// InYear reports whether the date string's calendar year equals year.
// Unparseable dates belong to no year.
func InYear(date string, year int) bool {
	if len(date) < 4 {
		return false
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return false
	}
	return y == year
}

// WithinMonths reports whether the date parses to an instant no earlier than
// now minus n calendar months. Unparseable dates fall outside every window.
func WithinMonths(date string, now time.Time, n int) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return !d.Before(now.AddDate(0, -n, 0))
}

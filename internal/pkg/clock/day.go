package clock

import (
	"errors"
	"strings"
	"time"
)

// All calendar-day arithmetic in the service goes through these helpers.
// A "day" is always the UTC calendar day; callers never truncate times themselves.

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD or RFC 3339")

// StartOfDay returns midnight UTC of the calendar day t falls on once converted to UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the half-open [start, end) interval covering t's UTC day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// YearWindow returns [Jan 1 of year, Jan 1 of year+1) in UTC.
func YearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// ParseDay accepts a bare date or an RFC 3339 timestamp and returns the UTC day it names.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return StartOfDay(t), nil
}

func FormatDay(t time.Time) string {
	return StartOfDay(t).Format(DateLayout)
}

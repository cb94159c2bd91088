package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day wire format used by every date column
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
// Dates are compared as strings; the zero-padded layout keeps lexical and chronological order equal.
type Date string

// ParseDate validates s and returns it as a Date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	// 2025-1-5 のような非正規形を弾く
	if t.Format(DateLayout) != s {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	return Date(t.Format(DateLayout))
}

// Today returns the current calendar day in loc
func Today(loc *time.Location) Date {
	return DateOf(time.Now(), loc)
}

// NewDate builds a Date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout))
}

// Valid reports whether d is a well-formed calendar day
func (d Date) Valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}

// Time returns midnight UTC of d. Only use it for calendar arithmetic.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Day returns the day of month, or 0 when d is malformed
func (d Date) Day() int {
	if !d.Valid() {
		return 0
	}
	return d.Time().Day()
}

// Year returns the year, or 0 when d is malformed
func (d Date) Year() int {
	if !d.Valid() {
		return 0
	}
	return d.Time().Year()
}

// AddDays shifts d by n days
func (d Date) AddDays(n int) Date {
	return Date(d.Time().AddDate(0, 0, n).Format(DateLayout))
}

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// Between reports from <= d <= to
func (d Date) Between(from, to Date) bool {
	return from <= d && d <= to
}

func (d Date) String() string {
	return string(d)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package engine

import (
	"fmt"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// CalendarDate is a date without time of day or zone. Recency arithmetic is
// done on CalendarDate values only, never on raw timestamps.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf drops the time-of-day of t, keeping its wall-clock date.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the whole number of days from other to d. It works on day
// numbers so spans longer than a time.Duration can hold stay exact.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	return int(d.dayNumber() - other.dayNumber())
}

// dayNumber counts days since the Unix epoch. Midnight UTC is always a whole
// multiple of secondsPerDay, so the division is exact on both sides of 1970.
func (d CalendarDate) dayNumber() int64 {
	return d.Time().Unix() / secondsPerDay
}

// Before reports whether d is an earlier day than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is a later day than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Time().After(other.Time())
}

// IsZero reports whether d is unset.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// String formats d as YYYY-MM-DD, or "" when unset.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// MarshalText encodes d as YYYY-MM-DD. An unset date encodes as empty text.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses YYYY-MM-DD. Empty text decodes to the zero date.
func (d *CalendarDate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

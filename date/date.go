package date

import (
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// CompactFormat is the YYMMDD layout used by ACH date fields.
const CompactFormat = "060102"

const Day = 24 * time.Hour

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime truncates t to its calendar day, in t's own location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// IsWeekend reports whether d falls on a Saturday or a Sunday.
func (d Date) IsWeekend() bool {
	w := d.Weekday()
	return w == time.Saturday || w == time.Sunday
}

// AddBusinessDays moves n weekdays forward (or backward when n is negative).
// Bank holidays are not known to this package.
func (d Date) AddBusinessDays(n int) Date {
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for n > 0 {
		d = d.Add(step)
		if !d.IsWeekend() {
			n--
		}
	}
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Compact formats the date as YYMMDD.
func (d Date) Compact() string { return d.time().Format(CompactFormat) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	// We use a slightly more permisive format for read, to support 2025-7-1 instead of 2025-07-01
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// ParseCompact parses a YYMMDD date. Two digit years are mapped by the
// time package rules (69-99 to the 1900s, 00-68 to the 2000s).
func ParseCompact(str string) (Date, error) {
	if len(str) != len(CompactFormat) {
		return Date{}, fmt.Errorf("invalid date %q want format YYMMDD", str)
	}
	on, err := time.Parse(CompactFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format YYMMDD: %w", str, err)
	}
	return New(on.Date()), nil
}

// Clock provides the current instant. Builders resolve automatic dates
// against it at render time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// System is the wall clock.
var System Clock = ClockFunc(time.Now)

// Fixed returns a Clock always reporting t.
func Fixed(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

// Today returns the current date according to c.
func Today(c Clock) Date { return FromTime(c.Now()) }

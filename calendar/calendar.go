/*
Package calendar provides the date primitives shared by every calculator.

PURPOSE:
  Payroll, leave and depreciation all reason in whole calendar days and
  calendar months. This package owns that vocabulary so the calculators
  never touch raw time arithmetic.

KEY CONCEPTS:
  - Calendar date: a time.Time normalized to midnight UTC
  - Period: an inclusive [Start, End] range of calendar dates (period.go)
  - Month boundaries: first/last day of a year+month, leap years included

CONVENTIONS:
  All functions normalize their inputs with Day() first, so callers may pass
  timestamps with a clock component or a non-UTC location.

SEE ALSO:
  - period.go: Period type and pay-period helpers
  - payroll/loan.go: uses AddMonthsClamped for installment dates
*/
package calendar

import (
	"time"
)

// DateLayout is the wire format for calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// =============================================================================
// CONSTRUCTION & NORMALIZATION
// =============================================================================

// Date returns the calendar date for year, month, day at midnight UTC.
// Out-of-range values normalize the way time.Date does.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day strips the clock and location from t, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// MustParseDate is ParseDate for literals known to be valid. Panics otherwise.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a calendar date as YYYY-MM-DD. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Day(t).Format(DateLayout)
}

// FormatDateString reformats a date string into YYYY-MM-DD.
// Anything that is not a YYYY-MM-DD or RFC3339 value yields "".
func FormatDateString(s string) string {
	if t, err := ParseDate(s); err == nil {
		return FormatDate(t)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FormatDate(t)
	}
	return ""
}

// =============================================================================
// MONTH BOUNDARIES
// =============================================================================

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartOfMonth(year int, month time.Month) time.Time { return Date(year, month, 1) }
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, DaysInMonth(year, month))
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return StartOfMonth(t.Year(), t.Month())
}

// MonthEnd returns the last day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return EndOfMonth(t.Year(), t.Month())
}

// =============================================================================
// ARITHMETIC
// =============================================================================

// DaysBetween returns the number of whole days from 'from' to 'to'.
// Negative when 'to' is before 'from'.
func DaysBetween(from, to time.Time) int {
	return int((Day(to).Unix() - Day(from).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// InclusiveDays counts the calendar days in [from, to], both ends included.
// Returns 0 when 'to' is before 'from'.
func InclusiveDays(from, to time.Time) int {
	n := DaysBetween(from, to)
	if n < 0 {
		return 0
	}
	return n + 1
}

// AddMonthsClamped advances t by n months (n may be negative). When the
// target month is shorter than t's day-of-month, the result is the target
// month's last day: Jan 31 + 1 month is Feb 28 (or 29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	t = Day(t)
	index := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(index, 12)
	month := time.Month(index - floorDiv(index, 12)*12 + 1)

	day := t.Day()
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

// MonthsBetween returns the number of calendar months from the month of
// 'from' to the month of 'to'. Days are ignored.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// =============================================================================
// COMPARISON
// =============================================================================

func Before(a, b time.Time) bool        { return Day(a).Before(Day(b)) }
func After(a, b time.Time) bool         { return Day(a).After(Day(b)) }
func SameDay(a, b time.Time) bool       { return Day(a).Equal(Day(b)) }
func BeforeOrEqual(a, b time.Time) bool { return !After(a, b) }
func AfterOrEqual(a, b time.Time) bool  { return !Before(a, b) }

// MaxDate returns the later of two calendar dates.
func MaxDate(a, b time.Time) time.Time {
	if After(a, b) {
		return Day(a)
	}
	return Day(b)
}

// MinDate returns the earlier of two calendar dates.
func MinDate(a, b time.Time) time.Time {
	if Before(a, b) {
		return Day(a)
	}
	return Day(b)
}

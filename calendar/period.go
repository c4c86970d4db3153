package calendar

import "time"

// =============================================================================
// PERIOD - Inclusive date range, the unit of payroll processing
// =============================================================================

// Period is an inclusive [Start, End] range of calendar dates.
//
// A pay period is always a calendar month:
//   - January 2025: Jan 1 - Jan 31
//   - February 2024: Feb 1 - Feb 29
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds a period from two dates, normalizing both.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: Day(start), End: Day(end)}
}

// MonthPeriod returns the pay period for year+month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// PeriodOf returns the month period containing t.
func PeriodOf(t time.Time) Period {
	return MonthPeriod(t.Year(), t.Month())
}

// IsValid reports whether End is not before Start.
func (p Period) IsValid() bool {
	return !Before(p.End, p.Start)
}

// Contains returns true if t is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return AfterOrEqual(t, p.Start) && BeforeOrEqual(t, p.End)
}

// ContainsPeriod returns true if other lies entirely inside p.
func (p Period) ContainsPeriod(other Period) bool {
	return p.Contains(other.Start) && p.Contains(other.End)
}

// Overlaps returns true if the two periods share at least one day.
// Touching endpoints count as overlap.
func (p Period) Overlaps(other Period) bool {
	return BeforeOrEqual(p.Start, other.End) && BeforeOrEqual(other.Start, p.End)
}

// Intersect clips other to p. ok is false when they share no day.
func (p Period) Intersect(other Period) (Period, bool) {
	clipped := Period{Start: MaxDate(p.Start, other.Start), End: MinDate(p.End, other.End)}
	if !clipped.IsValid() {
		return Period{}, false
	}
	return clipped, true
}

// Days returns the number of calendar days in the period, inclusive.
func (p Period) Days() int {
	return InclusiveDays(p.Start, p.End)
}

// Dates returns every day in the period in order.
func (p Period) Dates() []time.Time {
	var days []time.Time
	for current := Day(p.Start); BeforeOrEqual(current, p.End); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// NextMonth returns the month period following p's start month.
func (p Period) NextMonth() Period {
	return PeriodOf(AddMonthsClamped(MonthStart(p.Start), 1))
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + FormatDate(p.Start) + ", " + FormatDate(p.End) + "]"
}

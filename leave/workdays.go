package leave

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
)

var half = decimal.New(5, -1)

// =============================================================================
// WEEKEND - Qatar convention: Friday and Saturday
// =============================================================================

// IsWeekend reports whether date falls on a Friday or Saturday.
func IsWeekend(date time.Time) bool {
	wd := calendar.Day(date).Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// IsWorkingDay is Sunday through Thursday.
func IsWorkingDay(date time.Time) bool {
	return !IsWeekend(date)
}

// =============================================================================
// WORKING DAYS
// =============================================================================

// CalculateWorkingDays returns the leave days a request over [start, end]
// consumes.
//
//   FULL_DAY:         every non-weekend date in the range, inclusive
//   HALF_DAY_AM / PM: 0.5 when start == end and that date is a working day,
//                     otherwise 0
//
// An empty requestType means FULL_DAY. end before start yields 0.
func CalculateWorkingDays(start, end time.Time, requestType RequestType) decimal.Decimal {
	return CountWorkingDays(start, end, requestType, nil, "")
}

// CountWorkingDays is CalculateWorkingDays that also skips public holidays
// from cal for the tenant. A nil cal behaves as no holidays. Holidays are
// loaded once per calendar year the range touches.
func CountWorkingDays(start, end time.Time, requestType RequestType, cal HolidayCalendar, tenantID string) decimal.Decimal {
	start, end = calendar.Day(start), calendar.Day(end)
	if calendar.Before(end, start) {
		return decimal.Zero
	}

	holidays := make(map[time.Time]bool)
	if cal != nil {
		for year := start.Year(); year <= end.Year(); year++ {
			for _, h := range cal.Holidays(tenantID, year) {
				holidays[calendar.Day(h.Date)] = true
			}
		}
	}
	working := func(d time.Time) bool {
		return !IsWeekend(d) && !holidays[d]
	}

	if requestType.IsHalfDay() {
		if calendar.SameDay(start, end) && working(start) {
			return half
		}
		return decimal.Zero
	}

	count := int64(0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if working(d) {
			count++
		}
	}
	return decimal.NewFromInt(count)
}

// MaxRangeDays bounds the calendar days a single request or working-day
// count may span.
const MaxRangeDays = 366

// WithinMaxRange reports whether [start, end] spans at most MaxRangeDays.
func WithinMaxRange(start, end time.Time) bool {
	return calendar.InclusiveDays(start, end) <= MaxRangeDays
}

// =============================================================================
// HOLIDAY CALENDAR - Tenant public holidays
// =============================================================================

// Holiday is a public holiday that does not consume leave.
type Holiday struct {
	TenantID  string // empty = applies to every tenant
	Date      time.Time
	Name      string
	Recurring bool // same month/day every year
}

// HolidayCalendar answers holiday lookups for working-day counting.
type HolidayCalendar interface {
	IsHoliday(tenantID string, date time.Time) bool
	Holidays(tenantID string, year int) []Holiday
}

// StaticCalendar is an in-memory HolidayCalendar. Safe for concurrent use.
type StaticCalendar struct {
	mu       sync.RWMutex
	holidays []Holiday
}

// NewStaticCalendar returns a calendar seeded with holidays.
func NewStaticCalendar(holidays ...Holiday) *StaticCalendar {
	c := &StaticCalendar{}
	for _, h := range holidays {
		c.Add(h)
	}
	return c
}

// QatarNationalHolidays returns the fixed-date Qatar public holidays.
// Eid holidays follow the lunar calendar and are added per year.
func QatarNationalHolidays() []Holiday {
	return []Holiday{
		{Date: calendar.Date(2000, time.December, 18), Name: "National Day", Recurring: true},
	}
}

// Add registers a holiday.
func (c *StaticCalendar) Add(h Holiday) {
	h.Date = calendar.Day(h.Date)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays = append(c.holidays, h)
}

func (c *StaticCalendar) IsHoliday(tenantID string, date time.Time) bool {
	date = calendar.Day(date)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.holidays {
		if h.TenantID != "" && h.TenantID != tenantID {
			continue
		}
		if h.matches(date) {
			return true
		}
	}
	return false
}

// Holidays lists the holidays falling in year for the tenant, ordered by date.
// Recurring holidays are projected onto year.
func (c *StaticCalendar) Holidays(tenantID string, year int) []Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []Holiday
	for _, h := range c.holidays {
		if h.TenantID != "" && h.TenantID != tenantID {
			continue
		}
		switch {
		case h.Recurring:
			projected := h
			projected.Date = calendar.Date(year, h.Date.Month(), h.Date.Day())
			if projected.Date.Month() != h.Date.Month() {
				continue // Feb 29 in a non-leap year
			}
			result = append(result, projected)
		case h.Date.Year() == year:
			result = append(result, h)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (h Holiday) matches(date time.Time) bool {
	if h.Recurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Equal(date)
}

package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// BALANCE - Composite of entitlement, usage and adjustments
// =============================================================================

// Balance is a member's leave position for one leave type and year.
//
//	remaining = entitlement + carriedForward + adjustment - used - pending
//	available = entitlement + carriedForward + adjustment - used
//
// Adjustment may be negative.
type Balance struct {
	Entitlement    decimal.Decimal
	Used           decimal.Decimal
	Pending        decimal.Decimal
	CarriedForward decimal.Decimal
	Adjustment     decimal.Decimal
}

// NewBalance normalizes each component with money.ToDecimal. Components may
// be numbers, numeric strings or decimal values; anything else counts as 0.
func NewBalance(entitlement, used, pending, carriedForward, adjustment any) Balance {
	return Balance{
		Entitlement:    money.ToDecimal(entitlement),
		Used:           money.ToDecimal(used),
		Pending:        money.ToDecimal(pending),
		CarriedForward: money.ToDecimal(carriedForward),
		Adjustment:     money.ToDecimal(adjustment),
	}
}

// Remaining subtracts both used and pending days.
func (b Balance) Remaining() decimal.Decimal {
	return b.Available().Sub(b.Pending)
}

// Available ignores pending requests.
func (b Balance) Available() decimal.Decimal {
	return b.Entitlement.Add(b.CarriedForward).Add(b.Adjustment).Sub(b.Used)
}

// CanCover reports whether days fit in the remaining balance.
func (b Balance) CanCover(days decimal.Decimal) bool {
	return b.Remaining().GreaterThanOrEqual(days)
}

// CalculateRemainingBalance normalizes its arguments and returns
// entitlement + carriedForward + adjustment - used - pending.
func CalculateRemainingBalance(entitlement, used, pending, carriedForward, adjustment any) decimal.Decimal {
	return NewBalance(entitlement, used, pending, carriedForward, adjustment).Remaining()
}

// CalculateAvailableBalance is CalculateRemainingBalance without pending.
func CalculateAvailableBalance(entitlement, used, carriedForward, adjustment any) decimal.Decimal {
	return NewBalance(entitlement, used, nil, carriedForward, adjustment).Available()
}

// =============================================================================
// OVERLAP
// =============================================================================

// DatesOverlap reports whether [startA, endA] and [startB, endB] share a day.
// Touching ranges overlap.
func DatesOverlap(startA, endA, startB, endB time.Time) bool {
	return calendar.BeforeOrEqual(startA, endB) && calendar.BeforeOrEqual(startB, endA)
}

// FindOverlapping returns the active (pending or approved) requests of
// candidates that overlap [start, end].
func FindOverlapping(candidates []Request, start, end time.Time) []Request {
	var result []Request
	for _, r := range candidates {
		if r.Status != StatusPending && r.Status != StatusApproved {
			continue
		}
		if DatesOverlap(r.StartDate, r.EndDate, start, end) {
			result = append(result, r)
		}
	}
	return result
}

// =============================================================================
// ENTITLEMENT - Qatar Labor Law annual leave
// =============================================================================

const (
	annualDaysUnderFiveYears = 21
	annualDaysFromFiveYears  = 28
)

// AnnualEntitlementDays returns the yearly annual-leave entitlement for a
// member who joined on joinDate, as of asOf: 3 weeks under 5 years of
// service, 4 weeks from 5 years. No entitlement before the join date.
func AnnualEntitlementDays(joinDate, asOf time.Time) decimal.Decimal {
	if calendar.Before(asOf, joinDate) {
		return decimal.Zero
	}
	if ServiceYears(joinDate, asOf) >= 5 {
		return decimal.NewFromInt(annualDaysFromFiveYears)
	}
	return decimal.NewFromInt(annualDaysUnderFiveYears)
}

// ServiceYears counts complete years between joinDate and asOf.
func ServiceYears(joinDate, asOf time.Time) int {
	if calendar.Before(asOf, joinDate) {
		return 0
	}
	joinDate, asOf = calendar.Day(joinDate), calendar.Day(asOf)
	years := asOf.Year() - joinDate.Year()
	if calendar.Before(asOf, calendar.AddMonthsClamped(joinDate, years*12)) {
		years--
	}
	return years
}

/*
Package leave models leave requests and the day arithmetic around them.

PURPOSE:
  Working-day counting under the Qatar Friday/Saturday weekend, leave balance
  composition, date-range overlap, and the leave request shape the payroll
  deduction engine reads.

KEY CONCEPTS IN THIS FILE (types.go):
  - Status: request workflow state (only APPROVED affects payroll)
  - Type: a leave type; IsPaid=false makes it deductible
  - RequestType: full day or a half day (AM/PM)
  - Request: one leave request with its trusted TotalDays

TOTAL DAYS:
  Request.TotalDays is computed once when the request is filed (half days
  included) and trusted afterwards. It is never re-derived from the dates.

SEE ALSO:
  - workdays.go: CalculateWorkingDays, HolidayCalendar
  - balance.go: remaining / available balance
  - payroll/deduction.go: consumes approved unpaid requests
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// =============================================================================
// REQUEST TYPE
// =============================================================================

type RequestType string

const (
	FullDay   RequestType = "FULL_DAY"
	HalfDayAM RequestType = "HALF_DAY_AM"
	HalfDayPM RequestType = "HALF_DAY_PM"
)

// IsHalfDay reports whether t books half a day.
func (t RequestType) IsHalfDay() bool {
	return t == HalfDayAM || t == HalfDayPM
}

// ParseRequestType maps an input value to a RequestType. Empty means FULL_DAY.
func ParseRequestType(s string) (RequestType, bool) {
	switch RequestType(s) {
	case "", FullDay:
		return FullDay, true
	case HalfDayAM:
		return HalfDayAM, true
	case HalfDayPM:
		return HalfDayPM, true
	}
	return "", false
}

// =============================================================================
// LEAVE TYPE & REQUEST
// =============================================================================

// Type is a configured leave type (Annual, Sick, Unpaid...).
type Type struct {
	ID     string
	Name   string
	IsPaid bool
}

// Request is a leave request as stored by the leave workflow.
type Request struct {
	ID            string
	RequestNumber string
	MemberID      string
	TenantID      string
	Status        Status

	// Inclusive calendar dates.
	StartDate time.Time
	EndDate   time.Time

	TotalDays   decimal.Decimal
	LeaveType   Type
	RequestType RequestType

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Period is the request's inclusive date range.
func (r Request) Period() calendar.Period {
	return calendar.NewPeriod(r.StartDate, r.EndDate)
}

// IsDeductible reports whether the request reduces salary: approved and unpaid.
func (r Request) IsDeductible() bool {
	return r.Status == StatusApproved && !r.LeaveType.IsPaid
}

// Overlaps reports whether the request touches p.
func (r Request) Overlaps(p calendar.Period) bool {
	return DatesOverlap(r.StartDate, r.EndDate, p.Start, p.End)
}

// FullyWithin reports whether the whole request lies inside p.
func (r Request) FullyWithin(p calendar.Period) bool {
	return p.ContainsPeriod(r.Period())
}

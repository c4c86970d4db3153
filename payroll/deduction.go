/*
Package payroll turns leave records and salary figures into pay-period
line items.

PURPOSE:
  Computes unpaid-leave salary deductions for a pay period, plus the numeric
  utilities payroll runs need: daily rate, loan end dates and installment
  schedules, reference numbers, billing-cycle cost normalization, gratuity
  and payslip assembly.

KEY CONCEPTS IN THIS FILE (deduction.go):
  LeaveFinder:          collaborator returning approved unpaid leaves for a period
  DeductionCalculator:  queries the finder and prices each leave
  UnpaidLeaveDeduction: one deduction line for a payslip

DAY-COUNT POLICY:
  A leave entirely inside the pay period uses its stored TotalDays, so half
  days survive. A leave that crosses a period boundary counts the inclusive
  calendar days of the part inside the period:

    Leave Dec 28 - Jan 3 (TotalDays 7), January payroll:
      effective range Jan 1 - Jan 3  ->  3 days

  Half-day information is not apportioned across the split.

SEE ALSO:
  - rate.go: DailyRate (gross / 30)
  - leave/types.go: Request
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// COLLABORATOR
// =============================================================================

// LeaveFinder returns APPROVED requests of unpaid leave types for the member
// whose date range overlaps period. The order is the finder's.
type LeaveFinder interface {
	FindApprovedUnpaidLeaves(ctx context.Context, tenantID, memberID string, period calendar.Period) ([]leave.Request, error)
}

// =============================================================================
// DEDUCTION
// =============================================================================

// UnpaidLeaveDeduction is the salary deduction for one leave in one period.
type UnpaidLeaveDeduction struct {
	LeaveRequestID  string
	RequestNumber   string
	LeaveTypeName   string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       decimal.Decimal // days attributable to the period
	DailyRate       decimal.Decimal
	DeductionAmount decimal.Decimal
}

// DeductionCalculator prices unpaid leave for pay periods.
type DeductionCalculator struct {
	Leaves LeaveFinder
}

// NewDeductionCalculator returns a calculator reading leaves from finder.
func NewDeductionCalculator(finder LeaveFinder) *DeductionCalculator {
	return &DeductionCalculator{Leaves: finder}
}

// CalculateUnpaidLeaveDeductions returns one deduction per approved unpaid
// leave overlapping year+month, in the finder's order.
func (c *DeductionCalculator) CalculateUnpaidLeaveDeductions(
	ctx context.Context,
	memberID string,
	year int,
	month time.Month,
	dailySalary decimal.Decimal,
	tenantID string,
) ([]UnpaidLeaveDeduction, error) {
	period := calendar.MonthPeriod(year, month)
	leaves, err := c.find(ctx, tenantID, memberID, period)
	if err != nil {
		return nil, err
	}
	return DeductionsForPeriod(leaves, period, dailySalary), nil
}

// UnpaidLeaveDaysInPeriod sums the unpaid days attributable to year+month.
func (c *DeductionCalculator) UnpaidLeaveDaysInPeriod(
	ctx context.Context,
	memberID string,
	year int,
	month time.Month,
	tenantID string,
) (decimal.Decimal, error) {
	period := calendar.MonthPeriod(year, month)
	leaves, err := c.find(ctx, tenantID, memberID, period)
	if err != nil {
		return decimal.Zero, err
	}
	return DaysInPeriod(leaves, period), nil
}

// HasUnpaidLeaveInPeriod reports whether any unpaid days fall in year+month.
func (c *DeductionCalculator) HasUnpaidLeaveInPeriod(
	ctx context.Context,
	memberID string,
	year int,
	month time.Month,
	tenantID string,
) (bool, error) {
	days, err := c.UnpaidLeaveDaysInPeriod(ctx, memberID, year, month, tenantID)
	if err != nil {
		return false, err
	}
	return days.IsPositive(), nil
}

func (c *DeductionCalculator) find(ctx context.Context, tenantID, memberID string, period calendar.Period) ([]leave.Request, error) {
	leaves, err := c.Leaves.FindApprovedUnpaidLeaves(ctx, tenantID, memberID, period)
	if err != nil {
		return nil, fmt.Errorf("find unpaid leaves for %s in %s: %w", memberID, period, err)
	}
	return leaves, nil
}

// =============================================================================
// PURE CALCULATION - Over already fetched leaves
// =============================================================================

// DeductionsForPeriod prices leaves against period. Leaves that do not touch
// the period are skipped; the input order is kept.
func DeductionsForPeriod(leaves []leave.Request, period calendar.Period, dailyRate decimal.Decimal) []UnpaidLeaveDeduction {
	var deductions []UnpaidLeaveDeduction
	for _, l := range leaves {
		days, ok := daysAttributable(l, period)
		if !ok {
			continue
		}
		deductions = append(deductions, UnpaidLeaveDeduction{
			LeaveRequestID:  l.ID,
			RequestNumber:   l.RequestNumber,
			LeaveTypeName:   l.LeaveType.Name,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
			TotalDays:       days,
			DailyRate:       dailyRate,
			DeductionAmount: money.Mul(days, dailyRate),
		})
	}
	return deductions
}

// DaysInPeriod sums the days of leaves attributable to period.
func DaysInPeriod(leaves []leave.Request, period calendar.Period) decimal.Decimal {
	total := decimal.Zero
	for _, l := range leaves {
		if days, ok := daysAttributable(l, period); ok {
			total = total.Add(days)
		}
	}
	return total
}

// TotalDeduction sums the deduction amounts.
func TotalDeduction(deductions []UnpaidLeaveDeduction) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deductions {
		total = total.Add(d.DeductionAmount)
	}
	return money.Round(total)
}

func daysAttributable(l leave.Request, period calendar.Period) (decimal.Decimal, bool) {
	effective, ok := period.Intersect(l.Period())
	if !ok {
		return decimal.Zero, false
	}
	if l.FullyWithin(period) {
		return l.TotalDays, true
	}
	return decimal.NewFromInt(int64(effective.Days())), true
}

package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// LOANS - Interest-free salary advances repaid by payroll deduction
// =============================================================================

// CalculateLoanEndDate returns the due date of the last installment when the
// first falls on start: start + (installments - 1) months, clamped to the
// last day of the target month.
//
//	2024-01-31, 2 installments -> 2024-02-29
//	2025-01-31, 2 installments -> 2025-02-28
//
// installments < 1 is treated as 1.
func CalculateLoanEndDate(start time.Time, installments int) time.Time {
	if installments < 1 {
		installments = 1
	}
	return calendar.AddMonthsClamped(start, installments-1)
}

// InstallmentAmount is the regular monthly installment: round(principal / n, 2).
func InstallmentAmount(principal decimal.Decimal, installments int) decimal.Decimal {
	if installments < 1 {
		installments = 1
	}
	return money.Div(principal, decimal.NewFromInt(int64(installments)))
}

// Installment is one scheduled loan repayment.
type Installment struct {
	Number    int
	DueDate   time.Time
	Amount    decimal.Decimal
	Remaining decimal.Decimal // principal outstanding after this installment
}

// LoanSchedule splits principal into equal monthly installments starting at
// start. The last installment absorbs rounding so the amounts sum to the
// principal. Due dates are clamped like CalculateLoanEndDate, always from
// start, so a loan starting on the 31st returns to the 31st when it can.
func LoanSchedule(principal decimal.Decimal, installments int, start time.Time) []Installment {
	if !principal.IsPositive() {
		return nil
	}
	if installments < 1 {
		installments = 1
	}

	amount := InstallmentAmount(principal, installments)
	remaining := principal
	schedule := make([]Installment, 0, installments)

	for n := 1; n <= installments; n++ {
		pay := amount
		if n == installments || pay.GreaterThan(remaining) {
			pay = remaining
		}
		remaining = remaining.Sub(pay)
		schedule = append(schedule, Installment{
			Number:    n,
			DueDate:   calendar.AddMonthsClamped(start, n-1),
			Amount:    pay,
			Remaining: remaining,
		})
	}
	return schedule
}

// InstallmentDue returns the installment of schedule falling in period.
func InstallmentDue(schedule []Installment, period calendar.Period) (Installment, bool) {
	for _, inst := range schedule {
		if period.Contains(inst.DueDate) {
			return inst, true
		}
	}
	return Installment{}, false
}

package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// PAYSLIP - Line items for one member and pay period
// =============================================================================

type LineKind string

const (
	LineEarning   LineKind = "EARNING"
	LineDeduction LineKind = "DEDUCTION"
)

// Line codes.
const (
	CodeBasic       = "BASIC"
	CodeAllowance   = "ALLOWANCE"
	CodeUnpaidLeave = "UNPAID_LEAVE"
	CodeLoan        = "LOAN"
)

// PayslipLine is one earning or deduction on a payslip. Amount is positive
// for both kinds.
type PayslipLine struct {
	Kind        LineKind
	Code        string
	Description string
	Reference   string
	Amount      decimal.Decimal
}

// Payslip holds the line items of one pay period.
type Payslip struct {
	Number   string
	MemberID string
	TenantID string
	Period   calendar.Period
	Lines    []PayslipLine
}

// NewPayslip starts a payslip with the basic salary line.
func NewPayslip(number, tenantID, memberID string, period calendar.Period, basic decimal.Decimal) *Payslip {
	p := &Payslip{Number: number, MemberID: memberID, TenantID: tenantID, Period: period}
	p.AddEarning(CodeBasic, "Basic salary", "", basic)
	return p
}

// AddEarning appends an earning line. Zero amounts are dropped.
func (p *Payslip) AddEarning(code, description, reference string, amount decimal.Decimal) {
	p.add(LineEarning, code, description, reference, amount)
}

// AddDeduction appends a deduction line. Zero amounts are dropped.
func (p *Payslip) AddDeduction(code, description, reference string, amount decimal.Decimal) {
	p.add(LineDeduction, code, description, reference, amount)
}

func (p *Payslip) add(kind LineKind, code, description, reference string, amount decimal.Decimal) {
	amount = money.Round(amount.Abs())
	if amount.IsZero() {
		return
	}
	p.Lines = append(p.Lines, PayslipLine{
		Kind:        kind,
		Code:        code,
		Description: description,
		Reference:   reference,
		Amount:      amount,
	})
}

// AddUnpaidLeave appends one deduction line per unpaid leave.
func (p *Payslip) AddUnpaidLeave(deductions []UnpaidLeaveDeduction) {
	for _, d := range deductions {
		p.AddDeduction(CodeUnpaidLeave, d.LeaveTypeName+" ("+d.TotalDays.String()+" days)", d.RequestNumber, d.DeductionAmount)
	}
}

// AddLoanInstallment appends the installment of a loan due in the payslip period.
func (p *Payslip) AddLoanInstallment(loanReference string, schedule []Installment) {
	if inst, ok := InstallmentDue(schedule, p.Period); ok {
		p.AddDeduction(CodeLoan, "Loan installment", loanReference, inst.Amount)
	}
}

// Gross is the sum of earnings.
func (p *Payslip) Gross() decimal.Decimal {
	return p.total(LineEarning)
}

// TotalDeductions is the sum of deductions.
func (p *Payslip) TotalDeductions() decimal.Decimal {
	return p.total(LineDeduction)
}

// Net is gross minus deductions, never below zero.
func (p *Payslip) Net() decimal.Decimal {
	return money.Max0(money.Sub(p.Gross(), p.TotalDeductions()))
}

func (p *Payslip) total(kind LineKind) decimal.Decimal {
	var amounts []decimal.Decimal
	for _, l := range p.Lines {
		if l.Kind == kind {
			amounts = append(amounts, l.Amount)
		}
	}
	return money.Add(amounts...)
}

package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// END-OF-SERVICE GRATUITY - Qatar Labor Law, Article 54
// =============================================================================

// GratuityDaysPerYear is the minimum: three weeks of basic wage per year.
const GratuityDaysPerYear = 21

const daysPerServiceYear = 365

// Gratuity is an end-of-service benefit computation.
type Gratuity struct {
	ServiceDays  int
	ServiceYears decimal.Decimal // fractional, 4 places
	DailyWage    decimal.Decimal
	Amount       decimal.Decimal
}

// CalculateGratuity computes the end-of-service gratuity of a member with
// basicMonthly wage who served from joinDate to endDate (inclusive).
//
//	amount = basic / 30 × 21 × serviceDays / 365
//
// Service under one year earns nothing.
func CalculateGratuity(basicMonthly decimal.Decimal, joinDate, endDate time.Time) Gratuity {
	days := calendar.InclusiveDays(joinDate, endDate)
	g := Gratuity{
		ServiceDays:  days,
		ServiceYears: decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(daysPerServiceYear)).Round(4),
		DailyWage:    DailyRate(basicMonthly),
		Amount:       decimal.Zero,
	}
	if days < daysPerServiceYear || !basicMonthly.IsPositive() {
		return g
	}

	perYear := basicMonthly.Div(decimal.NewFromInt(MonthDays)).Mul(decimal.NewFromInt(GratuityDaysPerYear))
	g.Amount = money.Round(perYear.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(daysPerServiceYear)))
	return g
}

package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/money"
)

// MonthDays is the Qatar Labor Law month used for daily wages, regardless of
// the calendar month length.
const MonthDays = 30

// DailyRate returns round(grossMonthly / 30, 2).
func DailyRate(grossMonthly decimal.Decimal) decimal.Decimal {
	return money.Div(grossMonthly, decimal.NewFromInt(MonthDays))
}

package payroll

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// BILLING CYCLES - Subscription and supplier cost normalization
// =============================================================================

type BillingCycle string

const (
	BillingWeekly     BillingCycle = "WEEKLY"
	BillingMonthly    BillingCycle = "MONTHLY"
	BillingQuarterly  BillingCycle = "QUARTERLY"
	BillingSemiAnnual BillingCycle = "SEMI_ANNUAL"
	BillingYearly     BillingCycle = "YEARLY"
	BillingOneTime    BillingCycle = "ONE_TIME"
)

// ParseBillingCycle accepts any case; ANNUAL is an alias of YEARLY.
func ParseBillingCycle(s string) (BillingCycle, bool) {
	c := BillingCycle(strings.ToUpper(strings.TrimSpace(s)))
	if c == "ANNUAL" {
		c = BillingYearly
	}
	if _, ok := cyclesPerYear[c]; ok {
		return c, true
	}
	return "", false
}

// Occurrences per year. ONE_TIME does not recur.
var cyclesPerYear = map[BillingCycle]int64{
	BillingWeekly:     52,
	BillingMonthly:    12,
	BillingQuarterly:  4,
	BillingSemiAnnual: 2,
	BillingYearly:     1,
	BillingOneTime:    0,
}

// IsRecurring reports whether c repeats.
func (c BillingCycle) IsRecurring() bool {
	return cyclesPerYear[c] > 0
}

// AnnualCost is cost × occurrences per year. Non-recurring or unknown
// cycles yield 0.
func AnnualCost(cost decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	return money.Mul(cost, decimal.NewFromInt(cyclesPerYear[cycle]))
}

// MonthlyCost is the monthly equivalent of cost, rounded once.
func MonthlyCost(cost decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	perYear := cyclesPerYear[cycle]
	if perYear == 0 {
		return decimal.Zero
	}
	if cycle == BillingMonthly {
		return money.Round(cost)
	}
	return money.Div(cost.Mul(decimal.NewFromInt(perYear)), decimal.NewFromInt(12))
}

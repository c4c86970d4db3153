package depreciation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// MaxSchedulePeriods bounds a schedule at 50 years of months.
const MaxSchedulePeriods = 600

// Epsilon is the remaining balance under which an asset counts as fully
// depreciated. Half a cent: anything smaller cannot be posted.
var Epsilon = decimal.New(5, -3)

// =============================================================================
// MONTHLY CALCULATION
// =============================================================================

// CalculateMonthlyDepreciation returns the depreciation for the month
// containing calculationDate.
//
// ok is false when there is nothing to recognize:
//   - acquisition cost <= 0, useful life <= 0, or salvage >= cost
//   - the calculation month precedes the start month
//   - the asset is already fully depreciated
//
// Rules:
//  1. base = round(depreciable / usefulLifeMonths, 2)
//  2. start month, start day != 1: base * (daysInMonth - day + 1) / daysInMonth
//  3. capped at the remaining balance; the period that reaches it is final
func CalculateMonthlyDepreciation(in Input, calculationDate time.Time) (PeriodResult, bool) {
	if !in.valid() {
		return PeriodResult{}, false
	}

	month := calendar.MonthStart(calculationDate)
	startMonth := calendar.MonthStart(in.DepreciationStartDate)
	if month.Before(startMonth) {
		return PeriodResult{}, false
	}

	depreciable := in.DepreciableAmount()
	if in.AccumulatedDepreciation.GreaterThanOrEqual(depreciable) {
		return PeriodResult{}, false
	}
	remaining := depreciable.Sub(in.AccumulatedDepreciation)
	if remaining.LessThan(Epsilon) {
		return PeriodResult{}, false
	}

	factor := proRataFactor(in.DepreciationStartDate, month)
	amount := baseMonthlyAmount(in)
	if !factor.Equal(decimal.NewFromInt(1)) {
		amount = money.Round(amount.Mul(factor))
	}

	fully := false
	if amount.GreaterThanOrEqual(remaining) || remaining.Sub(amount).LessThan(Epsilon) {
		amount = remaining
		fully = true
	}

	accumulated := in.AccumulatedDepreciation.Add(amount)
	return PeriodResult{
		PeriodStart:          month,
		PeriodEnd:            calendar.MonthEnd(month),
		MonthlyAmount:        amount,
		NewAccumulatedAmount: accumulated,
		NewNetBookValue:      in.AcquisitionCost.Sub(accumulated),
		ProRataFactor:        factor,
		IsFullyDepreciated:   fully,
	}, true
}

func (in Input) valid() bool {
	return in.AcquisitionCost.IsPositive() &&
		in.UsefulLifeMonths > 0 &&
		in.SalvageValue.LessThan(in.AcquisitionCost)
}

func baseMonthlyAmount(in Input) decimal.Decimal {
	if in.UsefulLifeMonths <= 0 {
		return decimal.Zero
	}
	return money.Div(in.DepreciableAmount(), decimal.NewFromInt(int64(in.UsefulLifeMonths)))
}

// proRataFactor is 1 except in the start month when service began after the 1st.
func proRataFactor(start, month time.Time) decimal.Decimal {
	one := decimal.NewFromInt(1)
	start = calendar.Day(start)
	if start.Day() == 1 || !calendar.MonthStart(start).Equal(month) {
		return one
	}
	total := calendar.DaysInMonth(start.Year(), start.Month())
	remaining := total - start.Day() + 1
	return decimal.NewFromInt(int64(remaining)).Div(decimal.NewFromInt(int64(total)))
}

// =============================================================================
// SCHEDULE
// =============================================================================

// GenerateDepreciationSchedule walks month by month from the start month,
// carrying accumulated depreciation forward, until the asset is fully
// depreciated or MaxSchedulePeriods is reached.
//
// The sum of MonthlyAmount over a complete schedule equals cost - salvage,
// and the last entry's NewNetBookValue equals the salvage value.
func GenerateDepreciationSchedule(in Input) []PeriodResult {
	return ScheduleFrom(in, in.DepreciationStartDate)
}

// ScheduleFrom returns the remaining schedule starting at the month of 'from',
// for an asset whose accumulated depreciation is already posted up to the
// month before.
func ScheduleFrom(in Input, from time.Time) []PeriodResult {
	var schedule []PeriodResult
	current := in
	date := calendar.MonthStart(from)
	if date.Before(calendar.MonthStart(in.DepreciationStartDate)) {
		date = calendar.MonthStart(in.DepreciationStartDate)
	}

	for len(schedule) < MaxSchedulePeriods {
		result, ok := CalculateMonthlyDepreciation(current, date)
		if !ok {
			break
		}
		schedule = append(schedule, result)
		if result.IsFullyDepreciated {
			break
		}
		current.AccumulatedDepreciation = result.NewAccumulatedAmount
		date = calendar.AddMonthsClamped(date, 1)
	}
	return schedule
}

// =============================================================================
// SUMMARY
// =============================================================================

// CalculateDepreciationSummary projects the asset's current standing.
// It does not modify in.
func CalculateDepreciationSummary(in Input) Summary {
	depreciable := in.DepreciableAmount()
	monthly := baseMonthlyAmount(in)
	remaining := in.RemainingDepreciable()

	summary := Summary{
		DepreciableAmount:   depreciable,
		MonthlyDepreciation: monthly,
		AnnualDepreciation:  money.Round(monthly.Mul(decimal.NewFromInt(12))),
		NetBookValue:        in.NetBookValue(),
		IsFullyDepreciated:  remaining.LessThan(Epsilon),
	}

	if monthly.IsPositive() && !summary.IsFullyDepreciated {
		summary.RemainingMonths = int(remaining.Div(monthly).Ceil().IntPart())
	}

	if depreciable.IsPositive() {
		pct := in.AccumulatedDepreciation.Div(depreciable).Mul(money.Hundred()).Round(0).IntPart()
		switch {
		case pct < 0:
			pct = 0
		case pct > 100:
			pct = 100
		}
		summary.PercentDepreciated = int(pct)
	}

	return summary
}

/*
Package depreciation computes straight-line monthly depreciation for assets.

PURPOSE:
  Given an asset's acquisition cost, salvage value, useful life and start
  date, produce the depreciation expense of a month, the full schedule, and a
  point-in-time summary for asset ledgers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Input: per-asset figures at calculation time
  - PeriodResult: one month of depreciation (immutable value)
  - Summary: projection of where the asset stands today
  - Asset / Entry: the persisted shapes an asset ledger stores

STATE:
  None. AccumulatedDepreciation flows in through Input and out through
  PeriodResult.NewAccumulatedAmount; the caller persists it.

SEE ALSO:
  - calculator.go: the calculation rules (pro-rata, capping, schedule)
  - category.go: Qatar Tax Authority depreciation categories
*/
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATION VALUES
// =============================================================================

// Input holds what the calculator needs to know about one asset.
type Input struct {
	AcquisitionCost         decimal.Decimal
	SalvageValue            decimal.Decimal
	UsefulLifeMonths        int
	DepreciationStartDate   time.Time
	AccumulatedDepreciation decimal.Decimal
}

// DepreciableAmount is cost minus salvage.
func (in Input) DepreciableAmount() decimal.Decimal {
	return in.AcquisitionCost.Sub(in.SalvageValue)
}

// RemainingDepreciable is what is left to depreciate, never negative.
func (in Input) RemainingDepreciable() decimal.Decimal {
	remaining := in.DepreciableAmount().Sub(in.AccumulatedDepreciation)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// NetBookValue is cost minus accumulated depreciation.
func (in Input) NetBookValue() decimal.Decimal {
	return in.AcquisitionCost.Sub(in.AccumulatedDepreciation)
}

// PeriodResult is the depreciation recognized for one calendar month.
type PeriodResult struct {
	PeriodStart          time.Time
	PeriodEnd            time.Time
	MonthlyAmount        decimal.Decimal
	NewAccumulatedAmount decimal.Decimal
	NewNetBookValue      decimal.Decimal
	ProRataFactor        decimal.Decimal
	IsFullyDepreciated   bool
}

// Summary is a snapshot of an asset's depreciation state.
type Summary struct {
	DepreciableAmount   decimal.Decimal
	MonthlyDepreciation decimal.Decimal
	AnnualDepreciation  decimal.Decimal
	NetBookValue        decimal.Decimal
	RemainingMonths     int
	PercentDepreciated  int
	IsFullyDepreciated  bool
}

// =============================================================================
// PERSISTED SHAPES
// =============================================================================

// Asset is the stored record an asset ledger keeps per asset.
type Asset struct {
	ID                      string
	TenantID                string
	Name                    string
	CategoryCode            CategoryCode
	AcquisitionCost         decimal.Decimal
	SalvageValue            decimal.Decimal
	UsefulLifeMonths        int
	DepreciationStartDate   time.Time
	AccumulatedDepreciation decimal.Decimal

	// LastPeriodEnd is the end of the most recent posted month; zero when
	// nothing has been posted yet.
	LastPeriodEnd time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input builds the calculator input from the stored figures.
func (a Asset) Input() Input {
	return Input{
		AcquisitionCost:         a.AcquisitionCost,
		SalvageValue:            a.SalvageValue,
		UsefulLifeMonths:        a.UsefulLifeMonths,
		DepreciationStartDate:   a.DepreciationStartDate,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}
}

// Entry is one posted month in an asset's depreciation ledger.
// At most one entry exists per (AssetID, PeriodStart).
type Entry struct {
	ID                 string
	AssetID            string
	TenantID           string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Amount             decimal.Decimal
	AccumulatedAfter   decimal.Decimal
	NetBookValueAfter  decimal.Decimal
	ProRataFactor      decimal.Decimal
	IsFullyDepreciated bool
	PostedAt           time.Time
}

// NewEntry turns a calculated period into a ledger entry for the asset.
func NewEntry(id string, a Asset, r PeriodResult, postedAt time.Time) Entry {
	return Entry{
		ID:                 id,
		AssetID:            a.ID,
		TenantID:           a.TenantID,
		PeriodStart:        r.PeriodStart,
		PeriodEnd:          r.PeriodEnd,
		Amount:             r.MonthlyAmount,
		AccumulatedAfter:   r.NewAccumulatedAmount,
		NetBookValueAfter:  r.NewNetBookValue,
		ProRataFactor:      r.ProRataFactor,
		IsFullyDepreciated: r.IsFullyDepreciated,
		PostedAt:           postedAt,
	}
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
	"github.com/warp/payroll-engine/store/sqlite"
)

func d(s string) time.Time { return calendar.MustParseDate(s) }

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func unpaidRequest(id, start, end, days string) leave.Request {
	return leave.Request{
		ID:            id,
		RequestNumber: "LR-2025-" + id,
		MemberID:      "emp-1",
		TenantID:      "acme",
		Status:        leave.StatusApproved,
		StartDate:     d(start),
		EndDate:       d(end),
		TotalDays:     decimal.RequireFromString(days),
		LeaveType:     leave.Type{ID: "unpaid"},
	}
}

// =============================================================================
// LEAVE
// =============================================================================

func TestSQLite_LeaveRequestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave", IsPaid: false}))

	r := unpaidRequest("00001", "2025-01-15", "2025-01-15", "0.5")
	r.RequestType = leave.HalfDayPM
	require.NoError(t, s.SaveLeaveRequest(ctx, r))

	got, err := s.GetLeaveRequest(ctx, "00001")
	require.NoError(t, err)
	assert.Equal(t, d("2025-01-15"), got.StartDate)
	assert.True(t, got.TotalDays.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, leave.HalfDayPM, got.RequestType)
	assert.Equal(t, "Unpaid Leave", got.LeaveType.Name)
	assert.False(t, got.LeaveType.IsPaid)

	_, err = s.GetLeaveRequest(ctx, "missing")
	assert.True(t, store.IsNotFound(err))
}

func TestSQLite_SaveLeaveRequest_RequiresLeaveType(t *testing.T) {
	err := newStore(t).SaveLeaveRequest(context.Background(), unpaidRequest("x", "2025-01-01", "2025-01-01", "1"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLite_FindApprovedUnpaidLeaves(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave"}))
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "annual", Name: "Annual Leave", IsPaid: true}))

	paid := unpaidRequest("00003", "2025-01-08", "2025-01-09", "2")
	paid.LeaveType.ID = "annual"
	pending := unpaidRequest("00004", "2025-01-12", "2025-01-12", "1")
	pending.Status = leave.StatusPending

	for _, r := range []leave.Request{
		unpaidRequest("00002", "2025-01-20", "2025-01-22", "3"),
		unpaidRequest("00001", "2024-12-28", "2025-01-03", "7"),
		paid,
		pending,
		unpaidRequest("00005", "2025-02-01", "2025-02-02", "2"),
	} {
		require.NoError(t, s.SaveLeaveRequest(ctx, r))
	}

	got, err := s.FindApprovedUnpaidLeaves(ctx, "acme", "emp-1", calendar.MonthPeriod(2025, time.January))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "00001", got[0].ID, "ordered by start date")
	assert.Equal(t, "00002", got[1].ID)

	// The store plugs straight into the deduction engine
	calc := payroll.NewDeductionCalculator(s)
	days, err := calc.UnpaidLeaveDaysInPeriod(ctx, "emp-1", 2025, time.January, "acme")
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(6)), "3 (Jan 1-3) + 3, got %s", days)

	// Turning the type paid removes its requests from payroll
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave", IsPaid: true}))
	got, err = s.FindApprovedUnpaidLeaves(ctx, "acme", "emp-1", calendar.MonthPeriod(2025, time.January))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_SaveLeaveRequest_Updates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave"}))

	r := unpaidRequest("00001", "2025-03-01", "2025-03-02", "2")
	r.Status = leave.StatusPending
	require.NoError(t, s.SaveLeaveRequest(ctx, r))

	r.Status = leave.StatusCancelled
	require.NoError(t, s.SaveLeaveRequest(ctx, r))

	list, err := s.ListLeaveRequests(ctx, "acme", "emp-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, leave.StatusCancelled, list[0].Status)
}

func TestSQLite_CreateLeaveRequest_RejectsOverlapWithoutGap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave"}))

	fresh := func(id, start, end string, status leave.Status) leave.Request {
		r := unpaidRequest(id, start, end, "1")
		r.RequestNumber = ""
		r.Status = status
		return r
	}

	first, err := s.CreateLeaveRequest(ctx, fresh("a", "2025-01-05", "2025-01-09", leave.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, "LR-2025-00001", first.RequestNumber)

	// WHEN: a pending request covers Jan 9
	_, err = s.CreateLeaveRequest(ctx, fresh("b", "2025-01-09", "2025-01-12", leave.StatusPending))

	// THEN: rejected, nothing stored, no number consumed
	var overlap *store.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, []string{"LR-2025-00001"}, overlap.Overlapping)
	assert.True(t, store.IsConflict(err))
	_, err = s.GetLeaveRequest(ctx, "b")
	assert.True(t, store.IsNotFound(err))

	next, err := s.CreateLeaveRequest(ctx, fresh("c", "2025-01-12", "2025-01-13", leave.StatusPending))
	require.NoError(t, err)
	assert.Equal(t, "LR-2025-00002", next.RequestNumber)

	stored, err := s.GetLeaveRequest(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "LR-2025-00002", stored.RequestNumber)
}

func TestSQLite_SaveLeaveRequest_ReactivationChecksOverlap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave"}))

	// GIVEN: 00001 cancelled, 00002 approved on the same dates
	old := unpaidRequest("00001", "2025-01-05", "2025-01-09", "5")
	old.Status = leave.StatusCancelled
	require.NoError(t, s.SaveLeaveRequest(ctx, old))
	require.NoError(t, s.SaveLeaveRequest(ctx, unpaidRequest("00002", "2025-01-05", "2025-01-09", "5")))

	// WHEN: 00001 is approved again
	old.Status = leave.StatusApproved
	err := s.SaveLeaveRequest(ctx, old)

	// THEN
	assert.ErrorIs(t, err, store.ErrOverlappingLeave)
	got, err := s.FindApprovedUnpaidLeaves(ctx, "acme", "emp-1", calendar.MonthPeriod(2025, time.January))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "00002", got[0].ID)
}

func TestSQLite_SaveLeaveRequest_MemberChange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "unpaid", Name: "Unpaid Leave"}))

	r := unpaidRequest("00001", "2025-01-05", "2025-01-09", "5")
	require.NoError(t, s.SaveLeaveRequest(ctx, r))
	r.MemberID = "emp-2"
	require.NoError(t, s.SaveLeaveRequest(ctx, r))

	old, err := s.ListLeaveRequests(ctx, "acme", "emp-1")
	require.NoError(t, err)
	assert.Empty(t, old)
	moved, err := s.ListLeaveRequests(ctx, "acme", "emp-2")
	require.NoError(t, err)
	require.Len(t, moved, 1)
}

func TestSQLite_NextRequestNumber(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, want := range []string{"LR-2025-00001", "LR-2025-00002", "LR-2025-00003"} {
		got, err := s.NextRequestNumber(ctx, "acme", 2025)
		require.NoError(t, err)
		assert.Equal(t, want, got, "call %d", i)
	}

	got, err := s.NextRequestNumber(ctx, "acme", 2026)
	require.NoError(t, err)
	assert.Equal(t, "LR-2026-00001", got)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestSQLite_Holidays(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveHoliday(ctx, leave.Holiday{Date: d("2000-12-18"), Name: "National Day", Recurring: true}))
	require.NoError(t, s.SaveHoliday(ctx, leave.Holiday{Date: d("2025-03-30"), Name: "Eid al-Fitr"}))
	require.NoError(t, s.SaveHoliday(ctx, leave.Holiday{TenantID: "acme", Date: d("2025-12-21"), Name: "Company day"}))

	assert.True(t, s.IsHoliday("globex", d("2031-12-18")))
	assert.True(t, s.IsHoliday("globex", d("2025-03-30")))
	assert.False(t, s.IsHoliday("globex", d("2026-03-30")))
	assert.False(t, s.IsHoliday("globex", d("2025-12-21")))
	assert.True(t, s.IsHoliday("acme", d("2025-12-21")))

	got := s.Holidays("acme", 2025)
	require.Len(t, got, 3)
	assert.Equal(t, "Eid al-Fitr", got[0].Name)
	assert.Equal(t, d("2025-12-18"), got[1].Date)
	assert.Equal(t, "Company day", got[2].Name)

	// The store is a holiday calendar for working-day counting
	days := leave.CountWorkingDays(d("2025-12-14"), d("2025-12-25"), leave.FullDay, s, "acme")
	assert.True(t, days.Equal(decimal.NewFromInt(8)), "got %s", days)
}

// =============================================================================
// ASSETS
// =============================================================================

func laptop() depreciation.Asset {
	return depreciation.Asset{
		ID:                    "asset-1",
		TenantID:              "acme",
		Name:                  "Laptop",
		CategoryCode:          depreciation.CategoryITEquipment,
		AcquisitionCost:       decimal.NewFromInt(6000),
		SalvageValue:          decimal.NewFromInt(600),
		UsefulLifeMonths:      60,
		DepreciationStartDate: d("2025-01-15"),
	}
}

func TestSQLite_AssetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveAsset(ctx, laptop()))

	got, err := s.GetAsset(ctx, "asset-1")
	require.NoError(t, err)
	assert.Equal(t, depreciation.CategoryITEquipment, got.CategoryCode)
	assert.True(t, got.SalvageValue.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, d("2025-01-15"), got.DepreciationStartDate)
	assert.True(t, got.LastPeriodEnd.IsZero())
	assert.True(t, got.AccumulatedDepreciation.IsZero())

	list, err := s.ListAssets(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.ListAssets(ctx, "globex")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.GetAsset(ctx, "missing")
	assert.True(t, store.IsNotFound(err))

	assert.ErrorIs(t, s.SaveAsset(ctx, depreciation.Asset{ID: "x"}), store.ErrInvalidRecord)
}

func TestSQLite_PostDepreciation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	asset := laptop()
	require.NoError(t, s.SaveAsset(ctx, asset))

	// GIVEN: the first two months of the schedule
	schedule := depreciation.GenerateDepreciationSchedule(asset.Input())
	require.GreaterOrEqual(t, len(schedule), 2)

	jan := depreciation.NewEntry("e-jan", asset, schedule[0], d("2025-02-01"))
	feb := depreciation.NewEntry("e-feb", asset, schedule[1], d("2025-03-01"))

	// WHEN: posted in order
	require.NoError(t, s.PostDepreciation(ctx, jan))
	require.NoError(t, s.PostDepreciation(ctx, feb))

	// THEN: the asset carries the accumulated total
	got, err := s.GetAsset(ctx, "asset-1")
	require.NoError(t, err)
	assert.True(t, got.AccumulatedDepreciation.Equal(schedule[1].NewAccumulatedAmount),
		"accumulated %s", got.AccumulatedDepreciation)
	assert.Equal(t, d("2025-02-28"), got.LastPeriodEnd)

	// AND: reposting January is rejected as a duplicate
	err = s.PostDepreciation(ctx, jan)
	var dup *store.DuplicatePostingError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "asset-1", dup.AssetID)

	entries, err := s.ListEntries(ctx, "asset-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e-jan", entries[0].ID)
	assert.True(t, entries[0].Amount.Equal(schedule[0].MonthlyAmount))
	assert.True(t, entries[0].ProRataFactor.Equal(schedule[0].ProRataFactor))

	// Re-saving master data keeps posting state
	asset.Name = "Laptop 14\""
	require.NoError(t, s.SaveAsset(ctx, asset))
	got, _ = s.GetAsset(ctx, "asset-1")
	assert.Equal(t, "Laptop 14\"", got.Name)
	assert.Equal(t, d("2025-02-28"), got.LastPeriodEnd)
}

func TestSQLite_PostDepreciation_UnknownAsset(t *testing.T) {
	err := newStore(t).PostDepreciation(context.Background(), depreciation.Entry{ID: "e", AssetID: "ghost"})
	assert.True(t, store.IsNotFound(err))
}

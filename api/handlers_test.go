/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Stateless calculators (depreciation, balance, working days, loans, costs)
- Asset registration and lookup
- Leave request filing, overlap rejection, and payroll deductions
- Payslip assembly
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/store/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	s := memory.New()
	h := NewHandler(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Now = func() time.Time { return calendar.MustParseDate("2025-04-10") }
	h.Scheduler = NewDepreciationScheduler(s, h.Logger)
	h.Scheduler.Now = h.Now

	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return srv, s
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(data)
		}
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

// =============================================================================
// STATELESS CALCULATORS
// =============================================================================

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListCategories(t *testing.T) {
	srv, _ := newTestServer(t)
	var cats []CategoryDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/depreciation/categories", nil, &cats))
	require.Len(t, cats, 6)
	assert.Equal(t, "BUILDINGS", cats[0].Code)
	assert.Equal(t, 300, cats[0].UsefulLifeMonths)
	assert.True(t, cats[5].CustomLife)
}

func TestCalculateDepreciation_ProRata(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN: 1000/month, starting on the 15th of a 31-day month
	body := `{
		"acquisition_cost": 37000,
		"salvage_value": "1000",
		"useful_life_months": 36,
		"depreciation_start_date": "2025-01-15",
		"calculation_date": "2025-01-31"
	}`

	// WHEN
	var resp CalculateDepreciationResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/depreciation/calculate", body, &resp))

	// THEN: 17 of 31 days
	require.NotNil(t, resp.Result)
	assertDecimal(t, "548.39", resp.Result.MonthlyAmount)
	assert.Equal(t, "2025-01-01", resp.Result.PeriodStart)
	assert.Equal(t, "2025-01-31", resp.Result.PeriodEnd)
}

func TestCalculateDepreciation_NothingDue(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{
		"acquisition_cost": 37000,
		"salvage_value": 1000,
		"useful_life_months": 36,
		"depreciation_start_date": "2025-01-15",
		"calculation_date": "2024-12-31"
	}`
	var resp CalculateDepreciationResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/depreciation/calculate", body, &resp))
	assert.Nil(t, resp.Result)
}

func TestCalculateDepreciation_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	var e ErrorResponse
	status := doJSON(t, "POST", srv.URL+"/api/depreciation/calculate",
		`{"acquisition_cost": 100, "depreciation_start_date": "15/01/2025"}`, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Details, "depreciation_start_date")
	assert.Contains(t, e.Details, "calculation_date")

	status = doJSON(t, "POST", srv.URL+"/api/depreciation/calculate", `{not json`, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", e.Error)
}

func TestGenerateSchedule(t *testing.T) {
	srv, _ := newTestServer(t)
	body := map[string]any{
		"acquisition_cost":        10000,
		"salvage_value":           1000,
		"useful_life_months":      36,
		"depreciation_start_date": "2025-03-15",
	}
	var resp ScheduleResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/depreciation/schedule", body, &resp))

	assert.Equal(t, 37, resp.Count)
	assert.Len(t, resp.Periods, 37)
	assertDecimal(t, "9000", resp.TotalDepreciation)
	last := resp.Periods[len(resp.Periods)-1]
	assert.True(t, last.IsFullyDepreciated)
	assertDecimal(t, "1000", last.NewNetBookValue)
}

func TestSummarize(t *testing.T) {
	srv, _ := newTestServer(t)
	body := map[string]any{
		"acquisition_cost":         37000,
		"salvage_value":            1000,
		"useful_life_months":       36,
		"depreciation_start_date":  "2025-01-01",
		"accumulated_depreciation": 9000,
	}
	var s SummaryDTO
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/depreciation/summary", body, &s))

	assertDecimal(t, "36000", s.DepreciableAmount)
	assertDecimal(t, "1000", s.MonthlyDepreciation)
	assertDecimal(t, "12000", s.AnnualDepreciation)
	assertDecimal(t, "28000", s.NetBookValue)
	assert.Equal(t, 27, s.RemainingMonths)
	assert.Equal(t, 25, s.PercentDepreciated)
	assert.False(t, s.IsFullyDepreciated)
}

func TestCountWorkingDays(t *testing.T) {
	srv, s := newTestServer(t)

	tests := []struct {
		name string
		body WorkingDaysRequest
		want string
	}{
		{"Sunday to Thursday", WorkingDaysRequest{StartDate: "2025-01-05", EndDate: "2025-01-09"}, "5"},
		{"full week", WorkingDaysRequest{StartDate: "2025-01-05", EndDate: "2025-01-11"}, "5"},
		{"half day", WorkingDaysRequest{StartDate: "2025-01-06", EndDate: "2025-01-06", RequestType: "HALF_DAY_AM"}, "0.5"},
		{"half day on Friday", WorkingDaysRequest{StartDate: "2025-01-10", EndDate: "2025-01-10", RequestType: "HALF_DAY_PM"}, "0"},
		{"reversed", WorkingDaysRequest{StartDate: "2025-01-09", EndDate: "2025-01-05"}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp WorkingDaysResponse
			require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/leave/working-days", tt.body, &resp))
			assertDecimal(t, tt.want, resp.WorkingDays)
		})
	}

	t.Run("tenant holiday", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/holidays",
			CreateHolidayRequest{TenantID: "acme", Date: "2025-01-07", Name: "Company day"}, nil))
		assert.True(t, s.IsHoliday("acme", calendar.MustParseDate("2025-01-07")))

		var resp WorkingDaysResponse
		doJSON(t, "POST", srv.URL+"/api/leave/working-days",
			WorkingDaysRequest{TenantID: "acme", StartDate: "2025-01-05", EndDate: "2025-01-09"}, &resp)
		assertDecimal(t, "4", resp.WorkingDays)
	})

	t.Run("range longer than a year", func(t *testing.T) {
		var resp ErrorResponse
		status := doJSON(t, "POST", srv.URL+"/api/leave/working-days",
			WorkingDaysRequest{StartDate: "1925-01-01", EndDate: "2025-01-01"}, &resp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Date range exceeds 366 days", resp.Error)
	})

	t.Run("bad request type", func(t *testing.T) {
		status := doJSON(t, "POST", srv.URL+"/api/leave/working-days",
			WorkingDaysRequest{StartDate: "2025-01-05", EndDate: "2025-01-09", RequestType: "QUARTER_DAY"}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCalculateBalance_MixedShapes(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN: components as numbers, strings and null
	body := `{"entitlement": 21, "used": "2.5", "pending": 3, "carried_forward": 5.5, "adjustment": null}`

	var resp BalanceResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/leave/balance", body, &resp))

	assertDecimal(t, "21", resp.Remaining)
	assertDecimal(t, "24", resp.Available)
	assertDecimal(t, "0", resp.Adjustment)
}

func TestGetEntitlement(t *testing.T) {
	srv, _ := newTestServer(t)
	var resp map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, "GET",
		srv.URL+"/api/leave/entitlement?join_date=2019-06-01&as_of=2025-01-01", nil, &resp))
	assert.Equal(t, float64(5), resp["service_years"])
	assert.Equal(t, "28", resp["annual_days"])

	// as_of defaults to the handler clock (2025-04-10)
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/leave/entitlement?join_date=2024-01-01", nil, &resp))
	assert.Equal(t, "21", resp["annual_days"])

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "GET", srv.URL+"/api/leave/entitlement", nil, nil))
}

func TestLoanSchedule(t *testing.T) {
	srv, _ := newTestServer(t)
	var resp LoanScheduleResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/loans/schedule",
		LoanRequest{Principal: dec("1000"), Installments: 3, StartDate: "2024-01-31"}, &resp))

	assert.Regexp(t, `^LN-20240131-[0-9A-F]{8}$`, resp.Reference)
	assert.Equal(t, "2024-03-31", resp.EndDate)
	assertDecimal(t, "333.33", resp.InstallmentAmount)
	require.Len(t, resp.Installments, 3)
	assert.Equal(t, "2024-02-29", resp.Installments[1].DueDate)
	assertDecimal(t, "333.34", resp.Installments[2].Amount)
	assertDecimal(t, "0", resp.Installments[2].Remaining)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/loans/schedule",
		LoanRequest{Principal: dec("0"), Installments: 3, StartDate: "2024-01-31"}, nil))
}

func TestNormalizeCost(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp CostResponse
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/costs/normalize",
		CostRequest{Cost: dec("300"), BillingCycle: "quarterly"}, &resp))
	assert.Equal(t, "QUARTERLY", resp.BillingCycle)
	assert.True(t, resp.Recurring)
	assertDecimal(t, "100", resp.MonthlyCost)
	assertDecimal(t, "1200", resp.AnnualCost)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/costs/normalize",
		CostRequest{Cost: dec("300"), BillingCycle: "FORTNIGHTLY"}, nil))
}

func TestCalculateGratuity(t *testing.T) {
	srv, _ := newTestServer(t)
	var g GratuityDTO
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/payroll/gratuity",
		GratuityRequest{BasicSalary: dec("9000"), JoinDate: "2020-01-01", EndDate: "2024-12-31"}, &g))
	assert.Equal(t, 1827, g.ServiceDays)
	assertDecimal(t, "31534.52", g.Amount)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/payroll/gratuity",
		GratuityRequest{BasicSalary: dec("9000"), JoinDate: "2024-12-31", EndDate: "2020-01-01"}, nil))
}

// =============================================================================
// ASSETS
// =============================================================================

func TestCreateAsset_UsesCategoryLife(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN: an IT asset without an explicit life
	req := CreateAssetRequest{
		TenantID:              "acme",
		Name:                  "Laptop",
		CategoryCode:          "it_equipment",
		AcquisitionCost:       dec("6000"),
		SalvageValue:          dec("600"),
		DepreciationStartDate: "2025-01-15",
	}

	// WHEN
	var created AssetDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/assets", req, &created))

	// THEN: the category's 5-year life applies
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "IT_EQUIPMENT", created.CategoryCode)
	assert.Equal(t, 60, created.UsefulLifeMonths)
	assertDecimal(t, "90", created.Summary.MonthlyDepreciation)
	assert.Empty(t, created.LastPeriodEnd)

	var got AssetDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/assets/"+created.ID, nil, &got))
	assert.Equal(t, "Laptop", got.Name)

	var schedule ScheduleResponse
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/assets/"+created.ID+"/schedule", nil, &schedule))
	assertDecimal(t, "5400", schedule.TotalDepreciation)
}

func TestCreateAsset_Rejects(t *testing.T) {
	srv, _ := newTestServer(t)
	base := CreateAssetRequest{
		TenantID:              "acme",
		Name:                  "Thing",
		CategoryCode:          "FURNITURE",
		AcquisitionCost:       dec("1000"),
		DepreciationStartDate: "2025-01-01",
	}

	unknown := base
	unknown.CategoryCode = "SPACESHIPS"
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/assets", unknown, nil))

	customLife := base
	customLife.CategoryCode = "INTANGIBLES"
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/assets", customLife, nil))

	tooMuchSalvage := base
	tooMuchSalvage.SalvageValue = dec("1500")
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/assets", tooMuchSalvage, nil))

	missingName := base
	missingName.Name = ""
	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/assets", missingName, nil))
}

func TestGetAsset_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	var e ErrorResponse
	assert.Equal(t, http.StatusNotFound, doJSON(t, "GET", srv.URL+"/api/assets/ghost", nil, &e))
	assert.Equal(t, http.StatusNotFound, doJSON(t, "GET", srv.URL+"/api/assets/ghost/entries", nil, nil))
}

func TestRunDepreciation_PostsCompletedMonths(t *testing.T) {
	srv, _ := newTestServer(t)

	var created AssetDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/assets", CreateAssetRequest{
		ID:                    "laptop-1",
		TenantID:              "acme",
		Name:                  "Laptop",
		CategoryCode:          "IT_EQUIPMENT",
		AcquisitionCost:       dec("6000"),
		SalvageValue:          dec("600"),
		DepreciationStartDate: "2025-01-15",
	}, &created))

	// Clock is 2025-04-10: January to March are complete
	var summary RunSummary
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/depreciation/run", nil, &summary))
	assert.Equal(t, 3, summary.Posted)

	var entries []EntryDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/assets/laptop-1/entries", nil, &entries))
	require.Len(t, entries, 3)
	assertDecimal(t, "49.35", entries[0].Amount)
	assert.Equal(t, "2025-03-31", entries[2].PeriodEnd)

	var asset AssetDTO
	doJSON(t, "GET", srv.URL+"/api/assets/laptop-1", nil, &asset)
	assertDecimal(t, "229.35", asset.AccumulatedDepreciation)
	assert.Equal(t, "2025-03-31", asset.LastPeriodEnd)

	// The remaining schedule starts in April
	var schedule ScheduleResponse
	doJSON(t, "GET", srv.URL+"/api/assets/laptop-1/schedule", nil, &schedule)
	require.NotEmpty(t, schedule.Periods)
	assert.Equal(t, "2025-04-01", schedule.Periods[0].PeriodStart)
	assertDecimal(t, "5170.65", schedule.TotalDepreciation)
}

// =============================================================================
// LEAVE REQUESTS & PAYROLL
// =============================================================================

func seedUnpaidLeave(t *testing.T, srv *httptest.Server) LeaveRequestDTO {
	t.Helper()
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/leave/types",
		CreateLeaveTypeRequest{ID: "unpaid", Name: "Unpaid Leave"}, nil))

	var created LeaveRequestDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/leave/requests", CreateLeaveRequestRequest{
		TenantID:    "acme",
		MemberID:    "emp-1",
		LeaveTypeID: "unpaid",
		StartDate:   "2025-01-05",
		EndDate:     "2025-01-09",
		Status:      "APPROVED",
	}, &created))
	return created
}

func TestCreateLeaveRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	created := seedUnpaidLeave(t, srv)
	assert.Equal(t, "LR-2025-00001", created.RequestNumber)
	assertDecimal(t, "5", created.TotalDays)
	assert.Equal(t, "FULL_DAY", created.RequestType)
	assert.Equal(t, "APPROVED", created.Status)
	assert.Equal(t, "Unpaid Leave", created.LeaveType.Name)

	var got LeaveRequestDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/leave/requests/"+created.ID, nil, &got))
	assert.Equal(t, created.RequestNumber, got.RequestNumber)

	var list []LeaveRequestDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/leave/requests?tenant_id=acme&member_id=emp-1", nil, &list))
	assert.Len(t, list, 1)
}

func TestCreateLeaveRequest_Rejects(t *testing.T) {
	srv, _ := newTestServer(t)
	seedUnpaidLeave(t, srv)

	base := CreateLeaveRequestRequest{TenantID: "acme", MemberID: "emp-1", LeaveTypeID: "unpaid"}

	tests := []struct {
		name   string
		start  string
		end    string
		typeID string
		want   int
	}{
		{"overlapping", "2025-01-08", "2025-01-12", "unpaid", http.StatusConflict},
		{"reversed", "2025-02-10", "2025-02-01", "unpaid", http.StatusBadRequest},
		{"weekend only", "2025-02-07", "2025-02-08", "unpaid", http.StatusBadRequest},
		{"unknown type", "2025-02-10", "2025-02-11", "sabbatical", http.StatusNotFound},
		{"longer than a year", "2025-02-01", "2026-03-01", "unpaid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.StartDate, req.EndDate, req.LeaveTypeID = tt.start, tt.end, tt.typeID
			assert.Equal(t, tt.want, doJSON(t, "POST", srv.URL+"/api/leave/requests", req, nil))
		})
	}

	t.Run("overlap names the existing request", func(t *testing.T) {
		req := base
		req.StartDate, req.EndDate = "2025-01-09", "2025-01-09"
		var resp ErrorResponse
		require.Equal(t, http.StatusConflict, doJSON(t, "POST", srv.URL+"/api/leave/requests", req, &resp))
		assert.Equal(t, "Leave request overlaps existing requests", resp.Error)
		assert.Equal(t, "overlaps LR-2025-00001", resp.Details)
	})

	t.Run("rejections consume no number", func(t *testing.T) {
		req := base
		req.StartDate, req.EndDate = "2025-02-10", "2025-02-11"
		var created LeaveRequestDTO
		require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/leave/requests", req, &created))
		assert.Equal(t, "LR-2025-00002", created.RequestNumber)
	})
}

func TestUpdateLeaveStatus_CancelFreesDates(t *testing.T) {
	srv, _ := newTestServer(t)
	created := seedUnpaidLeave(t, srv)

	var updated LeaveRequestDTO
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/leave/requests/"+created.ID+"/status",
		UpdateLeaveStatusRequest{Status: "CANCELLED"}, &updated))
	assert.Equal(t, "CANCELLED", updated.Status)

	// Cancelled requests no longer block the dates
	var again LeaveRequestDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/leave/requests", CreateLeaveRequestRequest{
		TenantID: "acme", MemberID: "emp-1", LeaveTypeID: "unpaid",
		StartDate: "2025-01-06", EndDate: "2025-01-06",
	}, &again))
	assert.Equal(t, "LR-2025-00002", again.RequestNumber)
	assert.Equal(t, "PENDING", again.Status)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/leave/requests/"+created.ID+"/status",
		UpdateLeaveStatusRequest{Status: "ARCHIVED"}, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, "POST", srv.URL+"/api/leave/requests/ghost/status",
		UpdateLeaveStatusRequest{Status: "APPROVED"}, nil))
}

func TestUpdateLeaveStatus_ReapprovalOverlapIsConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	created := seedUnpaidLeave(t, srv)

	// GIVEN: Jan 5-9 cancelled, then filed again as approved
	require.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/leave/requests/"+created.ID+"/status",
		UpdateLeaveStatusRequest{Status: "CANCELLED"}, nil))
	var refiled LeaveRequestDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/leave/requests", CreateLeaveRequestRequest{
		TenantID: "acme", MemberID: "emp-1", LeaveTypeID: "unpaid",
		StartDate: "2025-01-05", EndDate: "2025-01-09", Status: "APPROVED",
	}, &refiled))

	// WHEN: the cancelled request is approved again
	var resp ErrorResponse
	status := doJSON(t, "POST", srv.URL+"/api/leave/requests/"+created.ID+"/status",
		UpdateLeaveStatusRequest{Status: "APPROVED"}, &resp)

	// THEN: rejected, and January is deducted once
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "overlaps "+refiled.RequestNumber, resp.Details)

	var got LeaveRequestDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/leave/requests/"+created.ID, nil, &got))
	assert.Equal(t, "CANCELLED", got.Status)

	var deductions DeductionsResponse
	require.Equal(t, http.StatusOK, doJSON(t, "GET",
		srv.URL+"/api/payroll/deductions?tenant_id=acme&member_id=emp-1&year=2025&month=1&gross_salary=3000", nil, &deductions))
	require.Len(t, deductions.Deductions, 1)
	assertDecimal(t, "5", deductions.TotalDays)
	assertDecimal(t, "500", deductions.TotalDeduction)

	// Moving it to another inactive status is still allowed
	assert.Equal(t, http.StatusOK, doJSON(t, "POST", srv.URL+"/api/leave/requests/"+created.ID+"/status",
		UpdateLeaveStatusRequest{Status: "REJECTED"}, nil))
}

func TestGetDeductions(t *testing.T) {
	srv, _ := newTestServer(t)
	seedUnpaidLeave(t, srv)

	// GIVEN: 5 approved unpaid days in January and a 3000 salary (100/day)
	var resp DeductionsResponse
	require.Equal(t, http.StatusOK, doJSON(t, "GET",
		srv.URL+"/api/payroll/deductions?tenant_id=acme&member_id=emp-1&year=2025&month=1&gross_salary=3000", nil, &resp))

	// THEN
	assertDecimal(t, "100", resp.DailyRate)
	assertDecimal(t, "5", resp.TotalDays)
	assertDecimal(t, "500", resp.TotalDeduction)
	require.Len(t, resp.Deductions, 1)
	assert.Equal(t, "LR-2025-00001", resp.Deductions[0].RequestNumber)
	assert.Equal(t, "2025-01-01", resp.PeriodStart)
	assert.Equal(t, "2025-01-31", resp.PeriodEnd)

	// February has nothing
	require.Equal(t, http.StatusOK, doJSON(t, "GET",
		srv.URL+"/api/payroll/deductions?tenant_id=acme&member_id=emp-1&year=2025&month=2&gross_salary=3000", nil, &resp))
	assert.Empty(t, resp.Deductions)
	assertDecimal(t, "0", resp.TotalDeduction)
}

func TestGetDeductions_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, q := range []string{
		"tenant_id=acme&member_id=emp-1&year=2025&month=13&gross_salary=3000",
		"tenant_id=acme&member_id=emp-1&year=2025&month=x&gross_salary=3000",
		"tenant_id=acme&member_id=emp-1&year=2025&month=1",
		"member_id=emp-1&year=2025&month=1&gross_salary=3000",
	} {
		assert.Equal(t, http.StatusBadRequest,
			doJSON(t, "GET", srv.URL+"/api/payroll/deductions?"+q, nil, nil), q)
	}
}

func TestCreatePayslip(t *testing.T) {
	srv, _ := newTestServer(t)
	seedUnpaidLeave(t, srv)

	// GIVEN: basic 3000, an allowance, 5 unpaid days and a loan
	req := PayslipRequest{
		TenantID:    "acme",
		MemberID:    "emp-1",
		Year:        2025,
		Month:       1,
		BasicSalary: dec("3000"),
		Allowances:  []AllowanceDTO{{Description: "Housing", Amount: dec("500")}},
		Loans:       []PayslipLoan{{Reference: "LN-2025-00001", Principal: dec("1000"), Installments: 3, StartDate: "2025-01-01"}},
	}

	// WHEN
	var slip PayslipDTO
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/payroll/payslips", req, &slip))

	// THEN: 3500 - 500 - 333.33
	assert.Regexp(t, `^PS-20250131-`, slip.Number)
	assertDecimal(t, "3500", slip.Gross)
	assertDecimal(t, "833.33", slip.TotalDeductions)
	assertDecimal(t, "2666.67", slip.Net)
	require.Len(t, slip.Lines, 4)
	assert.Equal(t, "BASIC", slip.Lines[0].Code)
	assert.Equal(t, "UNPAID_LEAVE", slip.Lines[2].Code)
	assert.Equal(t, "LOAN", slip.Lines[3].Code)
}

func TestListHolidays(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, doJSON(t, "POST", srv.URL+"/api/holidays",
		CreateHolidayRequest{Date: "2000-12-18", Name: "National Day", Recurring: true}, nil))

	var list []HolidayDTO
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/holidays?tenant_id=acme&year=2026", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2026-12-18", list[0].Date)

	// year defaults to the handler clock
	require.Equal(t, http.StatusOK, doJSON(t, "GET", srv.URL+"/api/holidays", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2025-12-18", list[0].Date)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, "POST", srv.URL+"/api/holidays",
		CreateHolidayRequest{Date: "2025-12-18"}, nil))
}

/*
handlers.go - HTTP API handlers for the payroll calculation engine

PURPOSE:
  Exposes the calculators (depreciation, leave, payroll, loans) and the
  stored records they work on via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calculator packages.

ENDPOINTS:
  Depreciation:
    GET    /api/depreciation/categories  Category table
    POST   /api/depreciation/calculate   One month for an input
    POST   /api/depreciation/schedule    Full schedule for an input
    POST   /api/depreciation/summary     Current standing for an input
    POST   /api/depreciation/run         Post every completed month now

  Assets:
    POST   /api/assets                   Register an asset
    GET    /api/assets/{id}              Asset with summary
    GET    /api/assets/{id}/schedule     Remaining schedule
    GET    /api/assets/{id}/entries      Posted months

  Leave:
    POST   /api/leave/working-days       Count working days
    POST   /api/leave/balance            Normalize a balance
    GET    /api/leave/entitlement        Annual entitlement for a join date
    POST   /api/leave/types              Register a leave type
    GET    /api/leave/requests           A member's requests
    POST   /api/leave/requests           File a request
    GET    /api/leave/requests/{id}      One request
    POST   /api/leave/requests/{id}/status  Approve, reject or cancel

  Holidays:
    GET    /api/holidays                 Holidays of a tenant and year
    POST   /api/holidays                 Add a holiday

  Payroll:
    GET    /api/payroll/deductions       Unpaid-leave deductions for a month
    POST   /api/payroll/payslips         Compute a payslip
    POST   /api/payroll/gratuity         End-of-service gratuity
    POST   /api/loans/schedule           Loan repayment plan
    POST   /api/costs/normalize          Monthly/annual cost of a billing cycle

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (overlapping request, duplicate posting)
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Automatic depreciation posting
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the API dependencies.
type Handler struct {
	Store      store.Store
	Deductions *payroll.DeductionCalculator
	Scheduler  *DepreciationScheduler // optional, enables /depreciation/run
	Logger     *slog.Logger
	Now        func() time.Time

	validate *validator.Validate
}

// NewHandler creates a handler over s.
func NewHandler(s store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:      s,
		Deductions: payroll.NewDeductionCalculator(s),
		Logger:     logger,
		Now:        time.Now,
		validate:   newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Health reports liveness and, when the store supports it, database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.Logger.Error("health check failed", slog.String("error", err.Error()))
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// DEPRECIATION HANDLERS
// =============================================================================

// ListCategories returns the depreciation category table.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := depreciation.Categories()
	dtos := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		dtos[i] = CategoryDTO{
			Code:             string(c.Code),
			Name:             c.Name,
			AnnualRate:       c.AnnualRate,
			UsefulLifeYears:  c.UsefulLifeYears,
			UsefulLifeMonths: c.UsefulLifeMonths(),
			CustomLife:       c.IsCustomLife(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CalculateDepreciation returns one month of depreciation, or a null result
// when nothing is due that month.
func (h *Handler) CalculateDepreciation(w http.ResponseWriter, r *http.Request) {
	var req CalculateDepreciationRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp := CalculateDepreciationResponse{}
	if result, ok := depreciation.CalculateMonthlyDepreciation(req.toInput(), parseDay(req.CalculationDate)); ok {
		dto := toPeriodResultDTO(result)
		resp.Result = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateSchedule returns the full schedule of an input.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req DepreciationInputDTO
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(depreciation.GenerateDepreciationSchedule(req.toInput())))
}

// Summarize returns the depreciation summary of an input.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req DepreciationInputDTO
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(depreciation.CalculateDepreciationSummary(req.toInput())))
}

// RunDepreciation posts every completed month for all assets immediately.
func (h *Handler) RunDepreciation(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Depreciation scheduler not configured", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.Scheduler.RunNow(r.Context()))
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// CreateAsset registers an asset.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if !h.decode(w, r, &req) {
		return
	}

	cat, ok := depreciation.CategoryByCode(req.CategoryCode)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown category_code", fmt.Errorf("category %q", req.CategoryCode))
		return
	}
	life := req.UsefulLifeMonths
	if life == 0 {
		life = cat.UsefulLifeMonths()
	}
	if life == 0 {
		writeError(w, http.StatusBadRequest, "useful_life_months is required for this category", nil)
		return
	}
	if req.AcquisitionCost.IsNegative() || req.SalvageValue.IsNegative() || req.SalvageValue.GreaterThan(req.AcquisitionCost) {
		writeError(w, http.StatusBadRequest, "salvage_value must be between 0 and acquisition_cost", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	now := h.Now().UTC()
	asset := depreciation.Asset{
		ID:                    req.ID,
		TenantID:              req.TenantID,
		Name:                  req.Name,
		CategoryCode:          cat.Code,
		AcquisitionCost:       req.AcquisitionCost,
		SalvageValue:          req.SalvageValue,
		UsefulLifeMonths:      life,
		DepreciationStartDate: parseDay(req.DepreciationStartDate),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := h.Store.SaveAsset(r.Context(), asset); err != nil {
		h.writeStoreError(w, "Failed to save asset", err)
		return
	}

	saved, err := h.Store.GetAsset(r.Context(), asset.ID)
	if err != nil {
		h.writeStoreError(w, "Failed to load asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(saved))
}

// GetAsset returns an asset with its current summary.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Store.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(asset))
}

// GetAssetSchedule returns the months not yet posted.
func (h *Handler) GetAssetSchedule(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Store.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(depreciation.ScheduleFrom(asset.Input(), nextPostingMonth(asset))))
}

// ListAssetEntries returns the posted depreciation months of an asset.
func (h *Handler) ListAssetEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetAsset(r.Context(), id); err != nil {
		h.writeStoreError(w, "Failed to get asset", err)
		return
	}
	entries, err := h.Store.ListEntries(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "Failed to list entries", err)
		return
	}
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// CountWorkingDays counts working days between two dates, inclusive.
func (h *Handler) CountWorkingDays(w http.ResponseWriter, r *http.Request) {
	var req WorkingDaysRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, end := parseDay(req.StartDate), parseDay(req.EndDate)
	if !leave.WithinMaxRange(start, end) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Date range exceeds %d days", leave.MaxRangeDays), nil)
		return
	}
	rt, _ := leave.ParseRequestType(req.RequestType)
	days := leave.CountWorkingDays(start, end, rt, h.Store, req.TenantID)
	writeJSON(w, http.StatusOK, WorkingDaysResponse{WorkingDays: days})
}

// CalculateBalance normalizes balance components and derives remaining and
// available days.
func (h *Handler) CalculateBalance(w http.ResponseWriter, r *http.Request) {
	var req BalanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	b := leave.NewBalance(req.Entitlement, req.Used, req.Pending, req.CarriedForward, req.Adjustment)
	writeJSON(w, http.StatusOK, BalanceResponse{
		Entitlement:    b.Entitlement,
		Used:           b.Used,
		Pending:        b.Pending,
		CarriedForward: b.CarriedForward,
		Adjustment:     b.Adjustment,
		Remaining:      b.Remaining(),
		Available:      b.Available(),
	})
}

// GetEntitlement returns the annual leave entitlement for join_date as of
// as_of (default today).
func (h *Handler) GetEntitlement(w http.ResponseWriter, r *http.Request) {
	join, err := calendar.ParseDate(r.URL.Query().Get("join_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid join_date format (use YYYY-MM-DD)", err)
		return
	}
	asOf := calendar.Day(h.Now())
	if s := r.URL.Query().Get("as_of"); s != "" {
		if asOf, err = calendar.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"join_date":     calendar.FormatDate(join),
		"as_of":         calendar.FormatDate(asOf),
		"service_years": leave.ServiceYears(join, asOf),
		"annual_days":   leave.AnnualEntitlementDays(join, asOf),
	})
}

// CreateLeaveType registers or updates a leave type.
func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	t := leave.Type{ID: req.ID, Name: req.Name, IsPaid: req.IsPaid}
	if err := h.Store.SaveLeaveType(r.Context(), t); err != nil {
		h.writeStoreError(w, "Failed to save leave type", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveTypeDTO(t))
}

// ListLeaveRequests returns a member's requests.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	memberID := r.URL.Query().Get("member_id")
	if tenantID == "" || memberID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and member_id are required", nil)
		return
	}
	requests, err := h.Store.ListLeaveRequests(r.Context(), tenantID, memberID)
	if err != nil {
		h.writeStoreError(w, "Failed to list leave requests", err)
		return
	}
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = toLeaveRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLeaveRequest returns one request.
func (h *Handler) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get leave request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// CreateLeaveRequest files a leave request. The days are counted on the
// tenant's holiday calendar. The store allocates the request number from the
// tenant's yearly sequence and rejects overlaps with 409.
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequestRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	start, end := parseDay(req.StartDate), parseDay(req.EndDate)
	if !checkRange(w, start, end) {
		return
	}

	leaveType, err := h.Store.GetLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		h.writeStoreError(w, "Failed to get leave type", err)
		return
	}

	rt, _ := leave.ParseRequestType(req.RequestType)
	days := leave.CountWorkingDays(start, end, rt, h.Store, req.TenantID)
	if !days.IsPositive() {
		writeError(w, http.StatusBadRequest, "Leave request covers no working days", nil)
		return
	}

	status := leave.StatusPending
	if req.Status != "" {
		status = leave.Status(req.Status)
	}
	now := h.Now().UTC()
	lr, err := h.Store.CreateLeaveRequest(ctx, leave.Request{
		ID:          uuid.NewString(),
		MemberID:    req.MemberID,
		TenantID:    req.TenantID,
		Status:      status,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   days,
		LeaveType:   leaveType,
		RequestType: rt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to save leave request", err)
		return
	}

	h.Logger.Info("leave request created",
		slog.String("request_number", lr.RequestNumber),
		slog.String("tenant_id", lr.TenantID),
		slog.String("member_id", lr.MemberID),
		slog.String("total_days", lr.TotalDays.String()))
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(lr))
}

// checkRange rejects a leave range that is reversed or too long.
func checkRange(w http.ResponseWriter, start, end time.Time) bool {
	switch {
	case calendar.Before(end, start):
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date", nil)
		return false
	case !leave.WithinMaxRange(start, end):
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Date range exceeds %d days", leave.MaxRangeDays), nil)
		return false
	}
	return true
}

// UpdateLeaveStatus moves a request to a new status. Moving it back to
// pending or approved fails with 409 when another active request of the
// member now covers its dates.
func (h *Handler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeaveStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	lr, err := h.Store.GetLeaveRequest(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Failed to get leave request", err)
		return
	}
	lr.Status = leave.Status(req.Status)
	lr.UpdatedAt = h.Now().UTC()
	if err := h.Store.SaveLeaveRequest(ctx, lr); err != nil {
		h.writeStoreError(w, "Failed to update leave request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(lr))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holidays of tenant_id in year (default this year).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}

	holidays := h.Store.Holidays(r.URL.Query().Get("tenant_id"), year)
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !h.decode(w, r, &req) {
		return
	}
	hol := leave.Holiday{TenantID: req.TenantID, Date: parseDay(req.Date), Name: req.Name, Recurring: req.Recurring}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		h.writeStoreError(w, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetDeductions prices a member's approved unpaid leave for one month.
func (h *Handler) GetDeductions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	gross, err := decimal.NewFromString(q.Get("gross_salary"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gross_salary", err)
		return
	}
	query := deductionQuery{
		TenantID:    q.Get("tenant_id"),
		MemberID:    q.Get("member_id"),
		Year:        year,
		Month:       month,
		GrossSalary: gross,
	}
	if err := h.validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", validationError(err))
		return
	}

	dailyRate := payroll.DailyRate(query.GrossSalary)
	deductions, err := h.Deductions.CalculateUnpaidLeaveDeductions(
		r.Context(), query.MemberID, query.Year, time.Month(query.Month), dailyRate, query.TenantID)
	if err != nil {
		h.writeStoreError(w, "Failed to calculate deductions", err)
		return
	}

	period := calendar.MonthPeriod(query.Year, time.Month(query.Month))
	resp := DeductionsResponse{
		PeriodStart:    calendar.FormatDate(period.Start),
		PeriodEnd:      calendar.FormatDate(period.End),
		DailyRate:      dailyRate,
		TotalDays:      decimal.Zero,
		TotalDeduction: payroll.TotalDeduction(deductions),
		Deductions:     make([]DeductionDTO, len(deductions)),
	}
	for i, d := range deductions {
		resp.Deductions[i] = toDeductionDTO(d)
		resp.TotalDays = resp.TotalDays.Add(d.TotalDays)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePayslip computes a payslip: basic and allowances, less unpaid leave
// and loan installments due in the month.
func (h *Handler) CreatePayslip(w http.ResponseWriter, r *http.Request) {
	var req PayslipRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BasicSalary.IsNegative() {
		writeError(w, http.StatusBadRequest, "basic_salary must not be negative", nil)
		return
	}

	month := time.Month(req.Month)
	period := calendar.MonthPeriod(req.Year, month)
	slip := payroll.NewPayslip(payroll.NewReferenceNumber(payroll.PrefixPayslip, period.End),
		req.TenantID, req.MemberID, period, req.BasicSalary)
	for _, a := range req.Allowances {
		slip.AddEarning(payroll.CodeAllowance, a.Description, "", a.Amount)
	}

	deductions, err := h.Deductions.CalculateUnpaidLeaveDeductions(
		r.Context(), req.MemberID, req.Year, month, payroll.DailyRate(req.BasicSalary), req.TenantID)
	if err != nil {
		h.writeStoreError(w, "Failed to calculate deductions", err)
		return
	}
	slip.AddUnpaidLeave(deductions)

	for _, l := range req.Loans {
		slip.AddLoanInstallment(l.Reference, payroll.LoanSchedule(l.Principal, l.Installments, parseDay(l.StartDate)))
	}
	writeJSON(w, http.StatusCreated, toPayslipDTO(slip))
}

// CalculateGratuity returns the end-of-service gratuity.
func (h *Handler) CalculateGratuity(w http.ResponseWriter, r *http.Request) {
	var req GratuityRequest
	if !h.decode(w, r, &req) {
		return
	}
	join, end := parseDay(req.JoinDate), parseDay(req.EndDate)
	if calendar.Before(end, join) {
		writeError(w, http.StatusBadRequest, "end_date must not be before join_date", nil)
		return
	}
	g := payroll.CalculateGratuity(req.BasicSalary, join, end)
	writeJSON(w, http.StatusOK, GratuityDTO{
		ServiceDays:  g.ServiceDays,
		ServiceYears: g.ServiceYears,
		DailyWage:    g.DailyWage,
		Amount:       g.Amount,
	})
}

// LoanSchedule returns the repayment plan of a loan.
func (h *Handler) LoanSchedule(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.Principal.IsPositive() {
		writeError(w, http.StatusBadRequest, "principal must be positive", nil)
		return
	}
	start := parseDay(req.StartDate)
	writeJSON(w, http.StatusOK, LoanScheduleResponse{
		Reference:         payroll.NewReferenceNumber(payroll.PrefixLoan, start),
		EndDate:           calendar.FormatDate(payroll.CalculateLoanEndDate(start, req.Installments)),
		InstallmentAmount: payroll.InstallmentAmount(req.Principal, req.Installments),
		Installments:      toInstallmentDTOs(payroll.LoanSchedule(req.Principal, req.Installments, start)),
	})
}

// NormalizeCost expresses a cost per month and per year.
func (h *Handler) NormalizeCost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if !h.decode(w, r, &req) {
		return
	}
	cycle, ok := payroll.ParseBillingCycle(req.BillingCycle)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown billing_cycle", fmt.Errorf("billing cycle %q", req.BillingCycle))
		return
	}
	writeJSON(w, http.StatusOK, CostResponse{
		BillingCycle: string(cycle),
		Recurring:    cycle.IsRecurring(),
		MonthlyCost:  payroll.MonthlyCost(req.Cost, cycle),
		AnnualCost:   payroll.AnnualCost(req.Cost, cycle),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into dst and validates it. On failure it writes
// a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", validationError(err))
		return false
	}
	return true
}

// validationError flattens validator errors into one readable error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// writeStoreError maps store errors to HTTP statuses. Unexpected errors are
// logged.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case store.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrOverlappingLeave):
		status = http.StatusConflict
		message = "Leave request overlaps existing requests"
	case store.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvalidRecord):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, slog.String("error", err.Error()))
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

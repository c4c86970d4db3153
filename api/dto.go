/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculators and stored records from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

MONEY AND DATES:
  Monetary and day amounts are decimals. They are accepted as JSON numbers
  or strings and always written as strings ("548.39"). Dates are
  "YYYY-MM-DD".

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  h.decode, which decodes the body and runs the validator before any
  calculation.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DEPRECIATION
// =============================================================================

// DepreciationInputDTO is the calculator input shared by the depreciation
// endpoints.
type DepreciationInputDTO struct {
	AcquisitionCost         decimal.Decimal `json:"acquisition_cost"`
	SalvageValue            decimal.Decimal `json:"salvage_value"`
	UsefulLifeMonths        int             `json:"useful_life_months" validate:"gte=0"`
	DepreciationStartDate   string          `json:"depreciation_start_date" validate:"required,datetime=2006-01-02"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
}

func (d DepreciationInputDTO) toInput() depreciation.Input {
	return depreciation.Input{
		AcquisitionCost:         d.AcquisitionCost,
		SalvageValue:            d.SalvageValue,
		UsefulLifeMonths:        d.UsefulLifeMonths,
		DepreciationStartDate:   parseDay(d.DepreciationStartDate),
		AccumulatedDepreciation: d.AccumulatedDepreciation,
	}
}

// CalculateDepreciationRequest asks for one month's depreciation.
type CalculateDepreciationRequest struct {
	DepreciationInputDTO
	CalculationDate string `json:"calculation_date" validate:"required,datetime=2006-01-02"`
}

// CalculateDepreciationResponse carries a nil Result when no depreciation
// applies for the month.
type CalculateDepreciationResponse struct {
	Result *PeriodResultDTO `json:"result"`
}

// PeriodResultDTO is one month of depreciation.
type PeriodResultDTO struct {
	PeriodStart          string          `json:"period_start"`
	PeriodEnd            string          `json:"period_end"`
	MonthlyAmount        decimal.Decimal `json:"monthly_amount"`
	NewAccumulatedAmount decimal.Decimal `json:"new_accumulated_amount"`
	NewNetBookValue      decimal.Decimal `json:"new_net_book_value"`
	ProRataFactor        decimal.Decimal `json:"pro_rata_factor"`
	IsFullyDepreciated   bool            `json:"is_fully_depreciated"`
}

// ScheduleResponse is a full or remaining depreciation schedule.
type ScheduleResponse struct {
	Periods           []PeriodResultDTO `json:"periods"`
	Count             int               `json:"count"`
	TotalDepreciation decimal.Decimal   `json:"total_depreciation"`
}

// SummaryDTO is an asset's depreciation standing.
type SummaryDTO struct {
	DepreciableAmount   decimal.Decimal `json:"depreciable_amount"`
	MonthlyDepreciation decimal.Decimal `json:"monthly_depreciation"`
	AnnualDepreciation  decimal.Decimal `json:"annual_depreciation"`
	NetBookValue        decimal.Decimal `json:"net_book_value"`
	RemainingMonths     int             `json:"remaining_months"`
	PercentDepreciated  int             `json:"percent_depreciated"`
	IsFullyDepreciated  bool            `json:"is_fully_depreciated"`
}

// CategoryDTO is one row of the category table.
type CategoryDTO struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	AnnualRate       int    `json:"annual_rate"`
	UsefulLifeYears  int    `json:"useful_life_years"`
	UsefulLifeMonths int    `json:"useful_life_months"`
	CustomLife       bool   `json:"custom_life"`
}

// CreateAssetRequest registers an asset. When UsefulLifeMonths is 0 the
// category's life is used.
type CreateAssetRequest struct {
	ID                    string          `json:"id"`
	TenantID              string          `json:"tenant_id" validate:"required"`
	Name                  string          `json:"name" validate:"required"`
	CategoryCode          string          `json:"category_code" validate:"required"`
	AcquisitionCost       decimal.Decimal `json:"acquisition_cost"`
	SalvageValue          decimal.Decimal `json:"salvage_value"`
	UsefulLifeMonths      int             `json:"useful_life_months" validate:"gte=0,lte=600"`
	DepreciationStartDate string          `json:"depreciation_start_date" validate:"required,datetime=2006-01-02"`
}

// AssetDTO is a stored asset with its current summary.
type AssetDTO struct {
	ID                      string          `json:"id"`
	TenantID                string          `json:"tenant_id"`
	Name                    string          `json:"name"`
	CategoryCode            string          `json:"category_code"`
	AcquisitionCost         decimal.Decimal `json:"acquisition_cost"`
	SalvageValue            decimal.Decimal `json:"salvage_value"`
	UsefulLifeMonths        int             `json:"useful_life_months"`
	DepreciationStartDate   string          `json:"depreciation_start_date"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	LastPeriodEnd           string          `json:"last_period_end,omitempty"`
	Summary                 SummaryDTO      `json:"summary"`
}

// EntryDTO is one posted depreciation month.
type EntryDTO struct {
	ID                 string          `json:"id"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	Amount             decimal.Decimal `json:"amount"`
	AccumulatedAfter   decimal.Decimal `json:"accumulated_after"`
	NetBookValueAfter  decimal.Decimal `json:"net_book_value_after"`
	ProRataFactor      decimal.Decimal `json:"pro_rata_factor"`
	IsFullyDepreciated bool            `json:"is_fully_depreciated"`
	PostedAt           string          `json:"posted_at"`
}

// =============================================================================
// LEAVE
// =============================================================================

// WorkingDaysRequest counts working days in a date range.
type WorkingDaysRequest struct {
	TenantID    string `json:"tenant_id"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	RequestType string `json:"request_type" validate:"omitempty,oneof=FULL_DAY HALF_DAY_AM HALF_DAY_PM"`
}

// WorkingDaysResponse is the count for a WorkingDaysRequest.
type WorkingDaysResponse struct {
	WorkingDays decimal.Decimal `json:"working_days"`
}

// BalanceRequest carries balance components in whatever numeric shape the
// client has: numbers, numeric strings or nulls.
type BalanceRequest struct {
	Entitlement    any `json:"entitlement"`
	Used           any `json:"used"`
	Pending        any `json:"pending"`
	CarriedForward any `json:"carried_forward"`
	Adjustment     any `json:"adjustment"`
}

// BalanceResponse is the normalized balance.
type BalanceResponse struct {
	Entitlement    decimal.Decimal `json:"entitlement"`
	Used           decimal.Decimal `json:"used"`
	Pending        decimal.Decimal `json:"pending"`
	CarriedForward decimal.Decimal `json:"carried_forward"`
	Adjustment     decimal.Decimal `json:"adjustment"`
	Remaining      decimal.Decimal `json:"remaining"`
	Available      decimal.Decimal `json:"available"`
}

// CreateLeaveTypeRequest registers a leave type.
type CreateLeaveTypeRequest struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	IsPaid bool   `json:"is_paid"`
}

// LeaveTypeDTO is a leave type in responses.
type LeaveTypeDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsPaid bool   `json:"is_paid"`
}

// CreateLeaveRequestRequest files a leave request. TotalDays is computed
// from the working-day calendar.
type CreateLeaveRequestRequest struct {
	TenantID    string `json:"tenant_id" validate:"required"`
	MemberID    string `json:"member_id" validate:"required"`
	LeaveTypeID string `json:"leave_type_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	RequestType string `json:"request_type" validate:"omitempty,oneof=FULL_DAY HALF_DAY_AM HALF_DAY_PM"`
	Status      string `json:"status" validate:"omitempty,oneof=PENDING APPROVED"`
}

// UpdateLeaveStatusRequest moves a request to a new status.
type UpdateLeaveStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED CANCELLED"`
}

// LeaveRequestDTO is a leave request in responses.
type LeaveRequestDTO struct {
	ID            string          `json:"id"`
	RequestNumber string          `json:"request_number"`
	TenantID      string          `json:"tenant_id"`
	MemberID      string          `json:"member_id"`
	Status        string          `json:"status"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	TotalDays     decimal.Decimal `json:"total_days"`
	RequestType   string          `json:"request_type"`
	LeaveType     LeaveTypeDTO    `json:"leave_type"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

// CreateHolidayRequest adds a holiday. An empty TenantID applies to all
// tenants.
type CreateHolidayRequest struct {
	TenantID  string `json:"tenant_id"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required"`
	Recurring bool   `json:"recurring"`
}

// HolidayDTO is a holiday in responses.
type HolidayDTO struct {
	TenantID  string `json:"tenant_id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// deductionQuery is the validated form of the deductions query string.
type deductionQuery struct {
	TenantID    string `validate:"required"`
	MemberID    string `validate:"required"`
	Year        int    `validate:"gte=1900,lte=9999"`
	Month       int    `validate:"gte=1,lte=12"`
	GrossSalary decimal.Decimal
}

// DeductionDTO is one leave's deduction.
type DeductionDTO struct {
	LeaveRequestID  string          `json:"leave_request_id"`
	RequestNumber   string          `json:"request_number"`
	LeaveTypeName   string          `json:"leave_type_name"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TotalDays       decimal.Decimal `json:"total_days"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
}

// DeductionsResponse lists a member's unpaid-leave deductions in a month.
type DeductionsResponse struct {
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	TotalDays      decimal.Decimal `json:"total_days"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	Deductions     []DeductionDTO  `json:"deductions"`
}

// LoanRequest describes a loan to schedule. Installments below 1 count as 1.
type LoanRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments" validate:"gte=0,lte=600"`
	StartDate    string          `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// InstallmentDTO is one loan installment.
type InstallmentDTO struct {
	Number    int             `json:"number"`
	DueDate   string          `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// LoanScheduleResponse is the repayment plan for a LoanRequest.
type LoanScheduleResponse struct {
	Reference         string           `json:"reference"`
	EndDate           string           `json:"end_date"`
	InstallmentAmount decimal.Decimal  `json:"installment_amount"`
	Installments      []InstallmentDTO `json:"installments"`
}

// CostRequest normalizes a recurring cost.
type CostRequest struct {
	Cost         decimal.Decimal `json:"cost"`
	BillingCycle string          `json:"billing_cycle" validate:"required"`
}

// CostResponse is a cost expressed per month and per year.
type CostResponse struct {
	BillingCycle string          `json:"billing_cycle"`
	Recurring    bool            `json:"recurring"`
	MonthlyCost  decimal.Decimal `json:"monthly_cost"`
	AnnualCost   decimal.Decimal `json:"annual_cost"`
}

// GratuityRequest asks for an end-of-service gratuity.
type GratuityRequest struct {
	BasicSalary decimal.Decimal `json:"basic_salary"`
	JoinDate    string          `json:"join_date" validate:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// GratuityDTO is a computed gratuity.
type GratuityDTO struct {
	ServiceDays  int             `json:"service_days"`
	ServiceYears decimal.Decimal `json:"service_years"`
	DailyWage    decimal.Decimal `json:"daily_wage"`
	Amount       decimal.Decimal `json:"amount"`
}

// PayslipRequest builds a payslip for one member and month.
type PayslipRequest struct {
	TenantID    string          `json:"tenant_id" validate:"required"`
	MemberID    string          `json:"member_id" validate:"required"`
	Year        int             `json:"year" validate:"gte=1900,lte=9999"`
	Month       int             `json:"month" validate:"gte=1,lte=12"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Allowances  []AllowanceDTO  `json:"allowances" validate:"dive"`
	Loans       []PayslipLoan   `json:"loans" validate:"dive"`
}

// AllowanceDTO is an extra earning on a payslip.
type AllowanceDTO struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// PayslipLoan is an active loan whose installment may fall in the month.
type PayslipLoan struct {
	Reference    string          `json:"reference" validate:"required"`
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments" validate:"gte=0,lte=600"`
	StartDate    string          `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// PayslipLineDTO is one payslip line.
type PayslipLineDTO struct {
	Kind        string          `json:"kind"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// PayslipDTO is a computed payslip.
type PayslipDTO struct {
	Number          string           `json:"number"`
	TenantID        string           `json:"tenant_id"`
	MemberID        string           `json:"member_id"`
	PeriodStart     string           `json:"period_start"`
	PeriodEnd       string           `json:"period_end"`
	Lines           []PayslipLineDTO `json:"lines"`
	Gross           decimal.Decimal  `json:"gross"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	Net             decimal.Decimal  `json:"net"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// parseDay parses a date already checked by the validator.
func parseDay(s string) time.Time {
	t, _ := calendar.ParseDate(s)
	return t
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return calendar.FormatDate(t)
}

func toPeriodResultDTO(r depreciation.PeriodResult) PeriodResultDTO {
	return PeriodResultDTO{
		PeriodStart:          calendar.FormatDate(r.PeriodStart),
		PeriodEnd:            calendar.FormatDate(r.PeriodEnd),
		MonthlyAmount:        r.MonthlyAmount,
		NewAccumulatedAmount: r.NewAccumulatedAmount,
		NewNetBookValue:      r.NewNetBookValue,
		ProRataFactor:        r.ProRataFactor,
		IsFullyDepreciated:   r.IsFullyDepreciated,
	}
}

func toScheduleResponse(schedule []depreciation.PeriodResult) ScheduleResponse {
	resp := ScheduleResponse{
		Periods:           make([]PeriodResultDTO, len(schedule)),
		Count:             len(schedule),
		TotalDepreciation: decimal.Zero,
	}
	for i, r := range schedule {
		resp.Periods[i] = toPeriodResultDTO(r)
		resp.TotalDepreciation = resp.TotalDepreciation.Add(r.MonthlyAmount)
	}
	return resp
}

func toSummaryDTO(s depreciation.Summary) SummaryDTO {
	return SummaryDTO{
		DepreciableAmount:   s.DepreciableAmount,
		MonthlyDepreciation: s.MonthlyDepreciation,
		AnnualDepreciation:  s.AnnualDepreciation,
		NetBookValue:        s.NetBookValue,
		RemainingMonths:     s.RemainingMonths,
		PercentDepreciated:  s.PercentDepreciated,
		IsFullyDepreciated:  s.IsFullyDepreciated,
	}
}

func toAssetDTO(a depreciation.Asset) AssetDTO {
	return AssetDTO{
		ID:                      a.ID,
		TenantID:                a.TenantID,
		Name:                    a.Name,
		CategoryCode:            string(a.CategoryCode),
		AcquisitionCost:         a.AcquisitionCost,
		SalvageValue:            a.SalvageValue,
		UsefulLifeMonths:        a.UsefulLifeMonths,
		DepreciationStartDate:   calendar.FormatDate(a.DepreciationStartDate),
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		LastPeriodEnd:           formatOptionalDate(a.LastPeriodEnd),
		Summary:                 toSummaryDTO(depreciation.CalculateDepreciationSummary(a.Input())),
	}
}

func toEntryDTO(e depreciation.Entry) EntryDTO {
	return EntryDTO{
		ID:                 e.ID,
		PeriodStart:        calendar.FormatDate(e.PeriodStart),
		PeriodEnd:          calendar.FormatDate(e.PeriodEnd),
		Amount:             e.Amount,
		AccumulatedAfter:   e.AccumulatedAfter,
		NetBookValueAfter:  e.NetBookValueAfter,
		ProRataFactor:      e.ProRataFactor,
		IsFullyDepreciated: e.IsFullyDepreciated,
		PostedAt:           e.PostedAt.Format(time.RFC3339),
	}
}

func toLeaveTypeDTO(t leave.Type) LeaveTypeDTO {
	return LeaveTypeDTO{ID: t.ID, Name: t.Name, IsPaid: t.IsPaid}
}

func toLeaveRequestDTO(r leave.Request) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		TenantID:      r.TenantID,
		MemberID:      r.MemberID,
		Status:        string(r.Status),
		StartDate:     calendar.FormatDate(r.StartDate),
		EndDate:       calendar.FormatDate(r.EndDate),
		TotalDays:     r.TotalDays,
		RequestType:   string(r.RequestType),
		LeaveType:     toLeaveTypeDTO(r.LeaveType),
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toHolidayDTO(h leave.Holiday) HolidayDTO {
	return HolidayDTO{
		TenantID:  h.TenantID,
		Date:      calendar.FormatDate(h.Date),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

func toDeductionDTO(d payroll.UnpaidLeaveDeduction) DeductionDTO {
	return DeductionDTO{
		LeaveRequestID:  d.LeaveRequestID,
		RequestNumber:   d.RequestNumber,
		LeaveTypeName:   d.LeaveTypeName,
		StartDate:       calendar.FormatDate(d.StartDate),
		EndDate:         calendar.FormatDate(d.EndDate),
		TotalDays:       d.TotalDays,
		DailyRate:       d.DailyRate,
		DeductionAmount: d.DeductionAmount,
	}
}

func toInstallmentDTOs(schedule []payroll.Installment) []InstallmentDTO {
	dtos := make([]InstallmentDTO, len(schedule))
	for i, in := range schedule {
		dtos[i] = InstallmentDTO{
			Number:    in.Number,
			DueDate:   calendar.FormatDate(in.DueDate),
			Amount:    in.Amount,
			Remaining: in.Remaining,
		}
	}
	return dtos
}

func toPayslipDTO(p *payroll.Payslip) PayslipDTO {
	dto := PayslipDTO{
		Number:          p.Number,
		TenantID:        p.TenantID,
		MemberID:        p.MemberID,
		PeriodStart:     calendar.FormatDate(p.Period.Start),
		PeriodEnd:       calendar.FormatDate(p.Period.End),
		Lines:           make([]PayslipLineDTO, len(p.Lines)),
		Gross:           p.Gross(),
		TotalDeductions: p.TotalDeductions(),
		Net:             p.Net(),
	}
	for i, l := range p.Lines {
		dto.Lines[i] = PayslipLineDTO{
			Kind:        string(l.Kind),
			Code:        l.Code,
			Description: l.Description,
			Reference:   l.Reference,
			Amount:      l.Amount,
		}
	}
	return dto
}

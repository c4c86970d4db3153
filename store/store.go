/*
Package store defines the persistence contracts around the calculators.

PURPOSE:
  The calculators never touch storage. This package names what the adapters
  (HTTP handlers, the depreciation scheduler) need from a database: leave
  requests for the deduction engine, holidays for working-day counting, and
  an asset ledger for monthly depreciation postings.

KEY INTERFACES:
  LeaveStore:   leave types, requests, request numbering; satisfies
                payroll.LeaveFinder
  HolidayStore: tenant holidays; satisfies leave.HolidayCalendar
  AssetStore:   assets and their append-only depreciation entries
  Store:        all of the above

POSTING CONTRACT:
  PostDepreciation writes the entry and advances the asset's accumulated
  depreciation in one step. A period is posted at most once per asset:

    PostDepreciation(Jan) -> ok
    PostDepreciation(Jan) -> *DuplicatePostingError (errors.Is ErrAlreadyPosted)

LEAVE CONTRACT:
  A member never holds two active (pending or approved) requests covering
  the same day. Both save paths check this under the same lock or
  transaction as the write:

    CreateLeaveRequest(Jan 5-9)          -> LR-2025-00001
    CreateLeaveRequest(Jan 8-12)         -> *OverlapError (errors.Is ErrOverlappingLeave)
    CreateLeaveRequest(Jan 12-13)        -> LR-2025-00002, no gap

IMPLEMENTATIONS:
  - store/memory: maps behind a RWMutex, for tests and development
  - store/sqlite: SQLite via mattn/go-sqlite3

SEE ALSO:
  - payroll/deduction.go: LeaveFinder
  - api/scheduler.go: the posting loop
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPosted is returned when a depreciation period is posted twice,
	// or out of order, for the same asset.
	ErrAlreadyPosted = errors.New("depreciation period already posted")

	// ErrInvalidRecord is returned when a record is missing required fields.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrOverlappingLeave is returned when a pending or approved request
	// covers days another active request of the same member already covers.
	ErrOverlappingLeave = errors.New("leave request overlaps existing requests")
)

// DuplicatePostingError details a rejected depreciation posting.
type DuplicatePostingError struct {
	AssetID       string
	PeriodStart   time.Time
	LastPeriodEnd time.Time
}

func (e *DuplicatePostingError) Error() string {
	return fmt.Sprintf("asset %s: period %s already posted (last posted period ends %s)",
		e.AssetID, calendar.FormatDate(e.PeriodStart), calendar.FormatDate(e.LastPeriodEnd))
}

func (e *DuplicatePostingError) Unwrap() error {
	return ErrAlreadyPosted
}

// OverlapError details a leave request rejected for overlapping.
type OverlapError struct {
	RequestID   string
	Overlapping []string // request numbers, by start date
}

func (e *OverlapError) Error() string {
	return "overlaps " + strings.Join(e.Overlapping, ", ")
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlappingLeave
}

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a write rejected by current state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyPosted) || errors.Is(err, ErrOverlappingLeave)
}

// =============================================================================
// INTERFACES
// =============================================================================

// LeaveStore persists leave types and requests.
type LeaveStore interface {
	payroll.LeaveFinder

	SaveLeaveType(ctx context.Context, t leave.Type) error
	GetLeaveType(ctx context.Context, id string) (leave.Type, error)

	// SaveLeaveRequest inserts or updates a request. Its leave type must
	// exist. A pending or approved r that overlaps another active request of
	// the member fails with *OverlapError.
	SaveLeaveRequest(ctx context.Context, r leave.Request) error

	// CreateLeaveRequest assigns r the next request number of its start year
	// and saves it, in one step with the overlap check. A rejected request
	// consumes no number.
	CreateLeaveRequest(ctx context.Context, r leave.Request) (leave.Request, error)
	GetLeaveRequest(ctx context.Context, id string) (leave.Request, error)

	// ListLeaveRequests returns a member's requests ordered by start date.
	ListLeaveRequests(ctx context.Context, tenantID, memberID string) ([]leave.Request, error)

	// NextRequestNumber allocates the next "LR-YYYY-NNNNN" for tenant+year.
	NextRequestNumber(ctx context.Context, tenantID string, year int) (string, error)
}

// HolidayStore persists public holidays and answers calendar lookups.
type HolidayStore interface {
	leave.HolidayCalendar
	SaveHoliday(ctx context.Context, h leave.Holiday) error
}

// AssetStore persists assets and their depreciation ledger.
type AssetStore interface {
	SaveAsset(ctx context.Context, a depreciation.Asset) error
	GetAsset(ctx context.Context, id string) (depreciation.Asset, error)

	// ListAssets returns the tenant's assets, or every asset when tenantID is "".
	ListAssets(ctx context.Context, tenantID string) ([]depreciation.Asset, error)

	// PostDepreciation appends e and sets the asset's accumulated depreciation
	// to e.AccumulatedAfter. Atomic.
	PostDepreciation(ctx context.Context, e depreciation.Entry) error

	// ListEntries returns an asset's entries ordered by period.
	ListEntries(ctx context.Context, assetID string) ([]depreciation.Entry, error)
}

// Store is the full persistence surface.
type Store interface {
	LeaveStore
	HolidayStore
	AssetStore
	Close() error
}

// =============================================================================
// SHARED VALIDATION
// =============================================================================

// ValidateAsset checks the fields every store requires.
func ValidateAsset(a depreciation.Asset) error {
	if a.ID == "" || a.TenantID == "" {
		return fmt.Errorf("%w: asset id and tenant id are required", ErrInvalidRecord)
	}
	if a.DepreciationStartDate.IsZero() {
		return fmt.Errorf("%w: asset %s has no depreciation start date", ErrInvalidRecord, a.ID)
	}
	return nil
}

// ValidateLeaveRequest checks the fields every store requires.
func ValidateLeaveRequest(r leave.Request) error {
	if r.ID == "" || r.TenantID == "" || r.MemberID == "" {
		return fmt.Errorf("%w: leave request id, tenant id and member id are required", ErrInvalidRecord)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: leave request %s has status %q", ErrInvalidRecord, r.ID, r.Status)
	}
	if calendar.Before(r.EndDate, r.StartDate) {
		return fmt.Errorf("%w: leave request %s ends before it starts", ErrInvalidRecord, r.ID)
	}
	return nil
}

// CheckOverlap returns an *OverlapError when r is active and overlaps an
// active request in existing other than r itself.
func CheckOverlap(r leave.Request, existing []leave.Request) error {
	if r.Status != leave.StatusPending && r.Status != leave.StatusApproved {
		return nil
	}
	var numbers []string
	for _, o := range leave.FindOverlapping(existing, r.StartDate, r.EndDate) {
		if o.ID == r.ID {
			continue
		}
		if o.RequestNumber != "" {
			numbers = append(numbers, o.RequestNumber)
		} else {
			numbers = append(numbers, o.ID)
		}
	}
	if len(numbers) == 0 {
		return nil
	}
	return &OverlapError{RequestID: r.ID, Overlapping: numbers}
}

// CheckPosting rejects an entry at or before the asset's last posted period.
func CheckPosting(a depreciation.Asset, e depreciation.Entry) error {
	if !a.LastPeriodEnd.IsZero() && !calendar.After(e.PeriodStart, a.LastPeriodEnd) {
		return &DuplicatePostingError{AssetID: a.ID, PeriodStart: e.PeriodStart, LastPeriodEnd: a.LastPeriodEnd}
	}
	return nil
}

// ApplyPosting returns a with e posted.
func ApplyPosting(a depreciation.Asset, e depreciation.Entry) depreciation.Asset {
	a.AccumulatedDepreciation = e.AccumulatedAfter
	a.LastPeriodEnd = e.PeriodEnd
	a.UpdatedAt = e.PostedAt
	return a
}

// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu sync.RWMutex

	leaveTypes map[string]leave.Type
	requests   map[string]leave.Request
	byMember   map[memberKey][]string // request ids, ordered by start date
	sequences  map[sequenceKey]int

	assets  map[string]depreciation.Asset
	entries map[string][]depreciation.Entry // by asset, ordered by period

	holidays *leave.StaticCalendar
}

type memberKey struct {
	TenantID string
	MemberID string
}

type sequenceKey struct {
	TenantID string
	Year     int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		leaveTypes: make(map[string]leave.Type),
		requests:   make(map[string]leave.Request),
		byMember:   make(map[memberKey][]string),
		sequences:  make(map[sequenceKey]int),
		assets:     make(map[string]depreciation.Asset),
		entries:    make(map[string][]depreciation.Entry),
		holidays:   leave.NewStaticCalendar(),
	}
}

func (m *Store) Close() error { return nil }

// =============================================================================
// LEAVE
// =============================================================================

func (m *Store) SaveLeaveType(_ context.Context, t leave.Type) error {
	if t.ID == "" {
		return fmt.Errorf("%w: leave type id is required", store.ErrInvalidRecord)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveTypes[t.ID] = t
	return nil
}

func (m *Store) GetLeaveType(_ context.Context, id string) (leave.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.leaveTypes[id]
	if !ok {
		return leave.Type{}, fmt.Errorf("leave type %s: %w", id, store.ErrNotFound)
	}
	return t, nil
}

func (m *Store) SaveLeaveRequest(_ context.Context, r leave.Request) error {
	if err := store.ValidateLeaveRequest(r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.saveLeaveRequest(r)
	return err
}

func (m *Store) CreateLeaveRequest(_ context.Context, r leave.Request) (leave.Request, error) {
	if err := store.ValidateLeaveRequest(r); err != nil {
		return leave.Request{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := sequenceKey{TenantID: r.TenantID, Year: calendar.Day(r.StartDate).Year()}
	r.RequestNumber = payroll.FormatReferenceNumber(payroll.PrefixLeaveRequest, calendar.Date(k.Year, 1, 1), m.sequences[k]+1)
	saved, err := m.saveLeaveRequest(r)
	if err != nil {
		return leave.Request{}, err
	}
	m.sequences[k]++
	return saved, nil
}

// saveLeaveRequest writes a validated r. Callers hold m.mu.
func (m *Store) saveLeaveRequest(r leave.Request) (leave.Request, error) {
	r.StartDate, r.EndDate = calendar.Day(r.StartDate), calendar.Day(r.EndDate)

	t, ok := m.leaveTypes[r.LeaveType.ID]
	if !ok {
		return leave.Request{}, fmt.Errorf("leave type %s: %w", r.LeaveType.ID, store.ErrNotFound)
	}
	r.LeaveType = t

	k := memberKey{TenantID: r.TenantID, MemberID: r.MemberID}
	existing := make([]leave.Request, 0, len(m.byMember[k]))
	for _, id := range m.byMember[k] {
		existing = append(existing, m.requests[id])
	}
	if err := store.CheckOverlap(r, existing); err != nil {
		return leave.Request{}, err
	}

	// The request may be moving to another member
	if prev, ok := m.requests[r.ID]; ok {
		pk := memberKey{TenantID: prev.TenantID, MemberID: prev.MemberID}
		if pk != k {
			if ids := removeID(m.byMember[pk], r.ID); len(ids) > 0 {
				m.byMember[pk] = ids
			} else {
				delete(m.byMember, pk)
			}
		}
	}
	ids := removeID(m.byMember[k], r.ID)

	// Binary search for the insertion point, stable on equal start dates
	i := sort.Search(len(ids), func(i int) bool {
		return m.requests[ids[i]].StartDate.After(r.StartDate)
	})
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = r.ID

	m.byMember[k] = ids
	m.requests[r.ID] = r
	return r, nil
}

func (m *Store) GetLeaveRequest(_ context.Context, id string) (leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return leave.Request{}, fmt.Errorf("leave request %s: %w", id, store.ErrNotFound)
	}
	return m.withCurrentType(r), nil
}

func (m *Store) ListLeaveRequests(_ context.Context, tenantID, memberID string) ([]leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byMember[memberKey{TenantID: tenantID, MemberID: memberID}]
	result := make([]leave.Request, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.withCurrentType(m.requests[id]))
	}
	return result, nil
}

// FindApprovedUnpaidLeaves implements payroll.LeaveFinder, ordered by start date.
func (m *Store) FindApprovedUnpaidLeaves(_ context.Context, tenantID, memberID string, period calendar.Period) ([]leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []leave.Request
	for _, id := range m.byMember[memberKey{TenantID: tenantID, MemberID: memberID}] {
		r := m.withCurrentType(m.requests[id])
		if r.IsDeductible() && r.Overlaps(period) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Store) NextRequestNumber(_ context.Context, tenantID string, year int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := sequenceKey{TenantID: tenantID, Year: year}
	m.sequences[k]++
	return payroll.FormatReferenceNumber(payroll.PrefixLeaveRequest, calendar.Date(year, 1, 1), m.sequences[k]), nil
}

// withCurrentType refreshes the leave type a request points at.
func (m *Store) withCurrentType(r leave.Request) leave.Request {
	if t, ok := m.leaveTypes[r.LeaveType.ID]; ok {
		r.LeaveType = t
	}
	return r
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Store) SaveHoliday(_ context.Context, h leave.Holiday) error {
	if h.Date.IsZero() || h.Name == "" {
		return fmt.Errorf("%w: holiday date and name are required", store.ErrInvalidRecord)
	}
	m.holidays.Add(h)
	return nil
}

func (m *Store) IsHoliday(tenantID string, date time.Time) bool {
	return m.holidays.IsHoliday(tenantID, date)
}

func (m *Store) Holidays(tenantID string, year int) []leave.Holiday {
	return m.holidays.Holidays(tenantID, year)
}

// =============================================================================
// ASSETS
// =============================================================================

func (m *Store) SaveAsset(_ context.Context, a depreciation.Asset) error {
	if err := store.ValidateAsset(a); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.assets[a.ID]; ok {
		// Posting state is owned by PostDepreciation
		a.AccumulatedDepreciation = existing.AccumulatedDepreciation
		a.LastPeriodEnd = existing.LastPeriodEnd
		a.CreatedAt = existing.CreatedAt
	}
	m.assets[a.ID] = a
	return nil
}

func (m *Store) GetAsset(_ context.Context, id string) (depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return depreciation.Asset{}, fmt.Errorf("asset %s: %w", id, store.ErrNotFound)
	}
	return a, nil
}

func (m *Store) ListAssets(_ context.Context, tenantID string) ([]depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []depreciation.Asset
	for _, a := range m.assets {
		if tenantID == "" || a.TenantID == tenantID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Store) PostDepreciation(_ context.Context, e depreciation.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assets[e.AssetID]
	if !ok {
		return fmt.Errorf("asset %s: %w", e.AssetID, store.ErrNotFound)
	}
	if err := store.CheckPosting(a, e); err != nil {
		return err
	}

	m.entries[a.ID] = append(m.entries[a.ID], e)
	m.assets[a.ID] = store.ApplyPosting(a, e)
	return nil
}

func (m *Store) ListEntries(_ context.Context, assetID string) ([]depreciation.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]depreciation.Entry, len(m.entries[assetID]))
	copy(result, m.entries[assetID])
	return result, nil
}

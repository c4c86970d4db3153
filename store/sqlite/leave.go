package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// SaveLeaveType inserts or updates a leave type.
func (s *Store) SaveLeaveType(ctx context.Context, t leave.Type) error {
	if t.ID == "" {
		return fmt.Errorf("%w: leave type id is required", store.ErrInvalidRecord)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_types (id, name, is_paid)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_paid = excluded.is_paid
	`
	if _, err := s.db.ExecContext(ctx, query, t.ID, t.Name, t.IsPaid); err != nil {
		return fmt.Errorf("failed to save leave type: %w", err)
	}
	return nil
}

// GetLeaveType retrieves a leave type by ID.
func (s *Store) GetLeaveType(ctx context.Context, id string) (leave.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t leave.Type
	err := s.db.QueryRowContext(ctx, "SELECT id, name, is_paid FROM leave_types WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.IsPaid)
	if err != nil {
		return leave.Type{}, notFound("leave type", id, err)
	}
	return t, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

const requestColumns = `
	r.id, r.request_number, r.tenant_id, r.member_id, r.status, r.start_date, r.end_date,
	r.total_days, r.request_type, r.created_at, r.updated_at, t.id, t.name, t.is_paid
`

// SaveLeaveRequest inserts or updates a request. The leave type must exist
// and an active request must not overlap another active one of the member.
func (s *Store) SaveLeaveRequest(ctx context.Context, r leave.Request) error {
	if err := store.ValidateLeaveRequest(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveLeaveRequest(ctx, tx, r)
	})
}

// CreateLeaveRequest numbers and saves r in one transaction. A rejected
// request rolls the sequence back.
func (s *Store) CreateLeaveRequest(ctx context.Context, r leave.Request) (leave.Request, error) {
	if err := store.ValidateLeaveRequest(r); err != nil {
		return leave.Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		year := calendar.Day(r.StartDate).Year()
		next, err := nextSequence(ctx, tx, r.TenantID, year)
		if err != nil {
			return fmt.Errorf("failed to allocate request number: %w", err)
		}
		r.RequestNumber = payroll.FormatReferenceNumber(payroll.PrefixLeaveRequest, calendar.Date(year, 1, 1), next)
		return saveLeaveRequest(ctx, tx, r)
	})
	if err != nil {
		return leave.Request{}, err
	}
	return r, nil
}

func saveLeaveRequest(ctx context.Context, tx *sql.Tx, r leave.Request) error {
	if r.RequestType == "" {
		r.RequestType = leave.FullDay
	}

	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM leave_types WHERE id = ?", r.LeaveType.ID).Scan(&exists)
	if err != nil {
		return notFound("leave type", r.LeaveType.ID, err)
	}

	if err := checkOverlap(ctx, tx, r); err != nil {
		return err
	}

	query := `
		INSERT INTO leave_requests (id, request_number, tenant_id, member_id, status,
			start_date, end_date, total_days, leave_type_id, request_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			request_number = excluded.request_number,
			tenant_id = excluded.tenant_id,
			member_id = excluded.member_id,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			total_days = excluded.total_days,
			leave_type_id = excluded.leave_type_id,
			request_type = excluded.request_type,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		r.ID, nullString(r.RequestNumber), r.TenantID, r.MemberID, string(r.Status),
		formatDate(r.StartDate), formatDate(r.EndDate), r.TotalDays.String(),
		r.LeaveType.ID, string(r.RequestType),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: request number %s already used", store.ErrInvalidRecord, r.RequestNumber)
	}
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

// checkOverlap loads the member's active requests touching r's dates and
// applies store.CheckOverlap.
func checkOverlap(ctx context.Context, tx *sql.Tx, r leave.Request) error {
	if r.Status != leave.StatusPending && r.Status != leave.StatusApproved {
		return nil
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, COALESCE(request_number, ''), status, start_date, end_date
		FROM leave_requests
		WHERE tenant_id = ? AND member_id = ? AND id <> ?
		  AND status IN (?, ?)
		  AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC, id ASC
	`, r.TenantID, r.MemberID, r.ID,
		string(leave.StatusPending), string(leave.StatusApproved),
		formatDate(r.EndDate), formatDate(r.StartDate))
	if err != nil {
		return fmt.Errorf("failed to query overlapping requests: %w", err)
	}
	defer rows.Close()

	var existing []leave.Request
	for rows.Next() {
		var (
			o          leave.Request
			status     string
			start, end string
		)
		if err := rows.Scan(&o.ID, &o.RequestNumber, &status, &start, &end); err != nil {
			return fmt.Errorf("failed to scan overlapping request: %w", err)
		}
		o.Status = leave.Status(status)
		if o.StartDate, err = parseDate(start); err != nil {
			return err
		}
		if o.EndDate, err = parseDate(end); err != nil {
			return err
		}
		existing = append(existing, o)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return store.CheckOverlap(r, existing)
}

// GetLeaveRequest retrieves a request by ID.
func (s *Store) GetLeaveRequest(ctx context.Context, id string) (leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + requestColumns + `
		FROM leave_requests r JOIN leave_types t ON t.id = r.leave_type_id
		WHERE r.id = ?`

	r, err := scanRequest(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return leave.Request{}, notFound("leave request", id, err)
	}
	return r, nil
}

// ListLeaveRequests returns a member's requests ordered by start date.
func (s *Store) ListLeaveRequests(ctx context.Context, tenantID, memberID string) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + requestColumns + `
		FROM leave_requests r JOIN leave_types t ON t.id = r.leave_type_id
		WHERE r.tenant_id = ? AND r.member_id = ?
		ORDER BY r.start_date ASC, r.id ASC`

	return s.queryRequests(ctx, query, tenantID, memberID)
}

// FindApprovedUnpaidLeaves implements payroll.LeaveFinder.
// Results are ordered by start date.
func (s *Store) FindApprovedUnpaidLeaves(ctx context.Context, tenantID, memberID string, period calendar.Period) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + requestColumns + `
		FROM leave_requests r JOIN leave_types t ON t.id = r.leave_type_id
		WHERE r.tenant_id = ? AND r.member_id = ?
		  AND r.status = ?
		  AND t.is_paid = FALSE
		  AND r.start_date <= ? AND r.end_date >= ?
		ORDER BY r.start_date ASC, r.id ASC`

	return s.queryRequests(ctx, query,
		tenantID, memberID, string(leave.StatusApproved),
		formatDate(period.End), formatDate(period.Start),
	)
}

// NextRequestNumber allocates the next sequential request number.
func (s *Store) NextRequestNumber(ctx context.Context, tenantID string, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		next, err = nextSequence(ctx, tx, tenantID, year)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate request number: %w", err)
	}
	return payroll.FormatReferenceNumber(payroll.PrefixLeaveRequest, calendar.Date(year, 1, 1), next), nil
}

func nextSequence(ctx context.Context, tx *sql.Tx, tenantID string, year int) (int, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO request_sequences (tenant_id, year, last_value)
		VALUES (?, ?, 1)
		ON CONFLICT(tenant_id, year) DO UPDATE SET last_value = last_value + 1
	`, tenantID, year)
	if err != nil {
		return 0, err
	}
	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT last_value FROM request_sequences WHERE tenant_id = ? AND year = ?",
		tenantID, year,
	).Scan(&next)
	return next, err
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]leave.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (leave.Request, error) {
	var (
		r                    leave.Request
		number               sql.NullString
		status, requestType  string
		start, end, total    string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&r.ID, &number, &r.TenantID, &r.MemberID, &status, &start, &end,
		&total, &requestType, &createdAt, &updatedAt,
		&r.LeaveType.ID, &r.LeaveType.Name, &r.LeaveType.IsPaid,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan leave request: %w", err)
	}

	r.RequestNumber = number.String
	r.Status = leave.Status(status)
	r.RequestType = leave.RequestType(requestType)
	if r.StartDate, err = parseDate(start); err != nil {
		return r, err
	}
	if r.EndDate, err = parseDate(end); err != nil {
		return r, err
	}
	if r.TotalDays, err = parseDecimal(total); err != nil {
		return r, err
	}
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}

package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	if h.Date.IsZero() || h.Name == "" {
		return fmt.Errorf("%w: holiday date and name are required", store.ErrInvalidRecord)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (tenant_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`
	_, err := s.db.ExecContext(ctx, query, h.TenantID, formatDate(h.Date), h.Name, h.Recurring, formatTime(time.Time{}))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// Holidays returns the tenant's and global holidays in year, ordered by
// date. Recurring holidays are projected onto year.
func (s *Store) Holidays(tenantID string, year int) []leave.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT tenant_id, date, name, recurring
		FROM holidays
		WHERE (tenant_id = ? OR tenant_id = '')
		  AND (recurring = TRUE OR strftime('%Y', date) = ?)
		ORDER BY strftime('%m-%d', date) ASC, name ASC
	`

	rows, err := s.db.Query(query, tenantID, strconv.Itoa(year))
	if err != nil {
		return nil
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		var dateStr string
		if err := rows.Scan(&h.TenantID, &dateStr, &h.Name, &h.Recurring); err != nil {
			continue
		}
		t, err := calendar.ParseDate(dateStr)
		if err != nil {
			continue
		}
		if h.Recurring {
			projected := calendar.Date(year, t.Month(), t.Day())
			if projected.Month() != t.Month() {
				continue // Feb 29 in a non-leap year
			}
			t = projected
		}
		h.Date = t
		holidays = append(holidays, h)
	}
	return holidays
}

// IsHoliday checks if a date is a holiday for the given tenant.
func (s *Store) IsHoliday(tenantID string, date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (tenant_id = ? OR tenant_id = '')
		  AND (
			(recurring = FALSE AND date = ?)
			OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
		  )
	`

	var count int
	err := s.db.QueryRow(query, tenantID, formatDate(date), calendar.Day(date).Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

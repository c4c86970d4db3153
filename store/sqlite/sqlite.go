/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists leave types, leave requests, request-number sequences, holidays,
  assets and depreciation entries. The same SQL applies to PostgreSQL with
  minor dialect differences.

KEY TABLES:
  leave_types:          leave type catalog (is_paid drives deductions)
  leave_requests:       requests with trusted total_days
  request_sequences:    per tenant+year counter behind LR-YYYY-NNNNN
  holidays:             tenant holidays ('' tenant = every tenant)
  assets:               asset master data + posting state
  depreciation_entries: append-only monthly postings

NUMBERS AND DATES:
  Decimals are stored as TEXT (decimal.Decimal.String) so no float drift
  enters the database. Calendar dates are TEXT "YYYY-MM-DD", which sorts and
  compares correctly as strings; timestamps are RFC3339.

INDEXES:
  - idx_leave_requests_member_start: deduction lookups (hot path)
  - idx_depreciation_entries_period: UNIQUE(asset_id, period_start), the
    at-most-once posting guarantee

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to
  one connection, since each connection would otherwise get its own database.

USAGE:
  db, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()

  calc := payroll.NewDeductionCalculator(db)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		request_number TEXT,
		tenant_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_days TEXT NOT NULL,
		leave_type_id TEXT NOT NULL REFERENCES leave_types(id),
		request_type TEXT NOT NULL DEFAULT 'FULL_DAY',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Deduction lookups: member's requests in a date window
	CREATE INDEX IF NOT EXISTS idx_leave_requests_member_start
		ON leave_requests(tenant_id, member_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_requests_number
		ON leave_requests(tenant_id, request_number) WHERE request_number IS NOT NULL;

	CREATE TABLE IF NOT EXISTS request_sequences (
		tenant_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		last_value INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, year)
	);

	-- Holidays (tenant-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		tenant_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (tenant_id, date, name)
	);

	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category_code TEXT NOT NULL,
		acquisition_cost TEXT NOT NULL,
		salvage_value TEXT NOT NULL,
		useful_life_months INTEGER NOT NULL,
		depreciation_start_date TEXT NOT NULL,
		accumulated_depreciation TEXT NOT NULL DEFAULT '0',
		last_period_end TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_tenant
		ON assets(tenant_id);

	-- Depreciation ledger (append-only)
	CREATE TABLE IF NOT EXISTS depreciation_entries (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL REFERENCES assets(id),
		tenant_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		amount TEXT NOT NULL,
		accumulated_after TEXT NOT NULL,
		net_book_value_after TEXT NOT NULL,
		pro_rata_factor TEXT NOT NULL,
		is_fully_depreciated BOOLEAN NOT NULL DEFAULT FALSE,
		posted_at TEXT NOT NULL
	);

	-- CRITICAL: a period is posted at most once per asset
	CREATE UNIQUE INDEX IF NOT EXISTS idx_depreciation_entries_period
		ON depreciation_entries(asset_id, period_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a database transaction. Callers hold s.mu.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatDate(t time.Time) string {
	return calendar.FormatDate(t)
}

func nullDate(t time.Time) sql.NullString {
	return nullString(calendar.FormatDate(t))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored date %q: %w", s, err)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad stored decimal %q: %w", s, err)
	}
	return d, nil
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

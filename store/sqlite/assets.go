package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/depreciation"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// ASSET STORE
// =============================================================================

const assetColumns = `
	id, tenant_id, name, category_code, acquisition_cost, salvage_value,
	useful_life_months, depreciation_start_date, accumulated_depreciation,
	last_period_end, created_at, updated_at
`

// SaveAsset inserts or updates an asset's master data. Posting state
// (accumulated depreciation, last period) is only changed by PostDepreciation.
func (s *Store) SaveAsset(ctx context.Context, a depreciation.Asset) error {
	if err := store.ValidateAsset(a); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category_code = excluded.category_code,
			acquisition_cost = excluded.acquisition_cost,
			salvage_value = excluded.salvage_value,
			useful_life_months = excluded.useful_life_months,
			depreciation_start_date = excluded.depreciation_start_date,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.TenantID, a.Name, string(a.CategoryCode),
		a.AcquisitionCost.String(), a.SalvageValue.String(), a.UsefulLifeMonths,
		formatDate(a.DepreciationStartDate), a.AccumulatedDepreciation.String(),
		nullDate(a.LastPeriodEnd), formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// GetAsset retrieves an asset by ID.
func (s *Store) GetAsset(ctx context.Context, id string) (depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAsset(ctx, s.db, id)
}

func getAsset(ctx context.Context, db execer, id string) (depreciation.Asset, error) {
	row := db.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	a, err := scanAsset(row)
	if err != nil {
		return depreciation.Asset{}, notFound("asset", id, err)
	}
	return a, nil
}

// ListAssets returns the tenant's assets, or all assets for tenantID "".
func (s *Store) ListAssets(ctx context.Context, tenantID string) ([]depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + assetColumns + " FROM assets WHERE (? = '' OR tenant_id = ?) ORDER BY id ASC"
	rows, err := s.db.QueryContext(ctx, query, tenantID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []depreciation.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// PostDepreciation appends an entry and advances the asset atomically.
func (s *Store) PostDepreciation(ctx context.Context, e depreciation.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		a, err := getAsset(ctx, tx, e.AssetID)
		if err != nil {
			return err
		}
		if err := store.CheckPosting(a, e); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO depreciation_entries (id, asset_id, tenant_id, period_start, period_end,
				amount, accumulated_after, net_book_value_after, pro_rata_factor,
				is_fully_depreciated, posted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			e.ID, e.AssetID, e.TenantID, formatDate(e.PeriodStart), formatDate(e.PeriodEnd),
			e.Amount.String(), e.AccumulatedAfter.String(), e.NetBookValueAfter.String(),
			e.ProRataFactor.String(), e.IsFullyDepreciated, formatTime(e.PostedAt),
		)
		if isUniqueConstraintError(err) {
			return &store.DuplicatePostingError{AssetID: a.ID, PeriodStart: e.PeriodStart, LastPeriodEnd: a.LastPeriodEnd}
		}
		if err != nil {
			return fmt.Errorf("failed to insert depreciation entry: %w", err)
		}

		posted := store.ApplyPosting(a, e)
		_, err = tx.ExecContext(ctx, `
			UPDATE assets
			SET accumulated_depreciation = ?, last_period_end = ?, updated_at = ?
			WHERE id = ?
		`, posted.AccumulatedDepreciation.String(), nullDate(posted.LastPeriodEnd), formatTime(posted.UpdatedAt), a.ID)
		if err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return nil
	})
}

// ListEntries returns an asset's depreciation entries ordered by period.
func (s *Store) ListEntries(ctx context.Context, assetID string) ([]depreciation.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, tenant_id, period_start, period_end, amount, accumulated_after,
		       net_book_value_after, pro_rata_factor, is_fully_depreciated, posted_at
		FROM depreciation_entries
		WHERE asset_id = ?
		ORDER BY period_start ASC
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query depreciation entries: %w", err)
	}
	defer rows.Close()

	var entries []depreciation.Entry
	for rows.Next() {
		var (
			e                       depreciation.Entry
			start, end, postedAt    string
			amount, acc, nbv, ratio string
		)
		if err := rows.Scan(&e.ID, &e.AssetID, &e.TenantID, &start, &end, &amount, &acc,
			&nbv, &ratio, &e.IsFullyDepreciated, &postedAt); err != nil {
			return nil, fmt.Errorf("failed to scan depreciation entry: %w", err)
		}
		if e.PeriodStart, err = parseDate(start); err != nil {
			return nil, err
		}
		if e.PeriodEnd, err = parseDate(end); err != nil {
			return nil, err
		}
		if e.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if e.AccumulatedAfter, err = parseDecimal(acc); err != nil {
			return nil, err
		}
		if e.NetBookValueAfter, err = parseDecimal(nbv); err != nil {
			return nil, err
		}
		if e.ProRataFactor, err = parseDecimal(ratio); err != nil {
			return nil, err
		}
		e.PostedAt = parseTime(postedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanAsset(row scanner) (depreciation.Asset, error) {
	var (
		a                          depreciation.Asset
		category, start            string
		cost, salvage, accumulated string
		lastEnd                    sql.NullString
		createdAt, updatedAt       string
	)
	err := row.Scan(&a.ID, &a.TenantID, &a.Name, &category, &cost, &salvage,
		&a.UsefulLifeMonths, &start, &accumulated, &lastEnd, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("failed to scan asset: %w", err)
	}

	a.CategoryCode = depreciation.CategoryCode(category)
	if a.AcquisitionCost, err = parseDecimal(cost); err != nil {
		return a, err
	}
	if a.SalvageValue, err = parseDecimal(salvage); err != nil {
		return a, err
	}
	if a.AccumulatedDepreciation, err = parseDecimal(accumulated); err != nil {
		return a, err
	}
	if a.DepreciationStartDate, err = parseDate(start); err != nil {
		return a, err
	}
	if a.LastPeriodEnd, err = parseDate(lastEnd.String); err != nil {
		return a, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

// Package snapshot_repo provides the PostgreSQL implementation of the
// daily snapshot repository.
package snapshot_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
)

const snapshotsTable = "reg_daily_snapshots"

var snapshotColumns = []string{
	"product_id", "location_id", "day",
	"opening", "added", "sold", "closing",
	"manual", "updated_at",
}

// SnapshotRepo implements snapshot.Repository.
type SnapshotRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewSnapshotRepo creates a snapshot repository. audit may be nil.
func NewSnapshotRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *SnapshotRepo {
	return &SnapshotRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the snapshot for a key, or nil when no row exists.
func (r *SnapshotRepo) Get(ctx context.Context, productID, locationID id.ID, day time.Time) (*snapshot.DailySnapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{
			"product_id":  productID,
			"location_id": locationID,
			"day":         snapshot.Day(day),
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var snap snapshot.DailySnapshot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &snap, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// Create inserts a new snapshot row.
func (r *SnapshotRepo) Create(ctx context.Context, snap *snapshot.DailySnapshot) error {
	q := r.builder.Insert(snapshotsTable).
		Columns(snapshotColumns...).
		Values(
			snap.ProductID, snap.LocationID, snapshot.Day(snap.Day),
			snap.Opening, snap.Added, snap.Sold, snap.Closing,
			snap.Manual, snap.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("insert snapshot", snapshotsTable, err)
	}
	return nil
}

// CreateIfAbsent inserts a row, leaving any existing row for the same
// key untouched.
func (r *SnapshotRepo) CreateIfAbsent(ctx context.Context, snap *snapshot.DailySnapshot) (bool, error) {
	sql := `
		INSERT INTO reg_daily_snapshots
			(product_id, location_id, day, opening, added, sold, closing, manual, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (product_id, location_id, day) DO NOTHING
	`

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		snap.ProductID, snap.LocationID, snapshot.Day(snap.Day),
		snap.Opening, snap.Added, snap.Sold, snap.Closing,
		snap.Manual, snap.UpdatedAt)
	if err != nil {
		return false, postgres.MapError("insert snapshot", snapshotsTable, err)
	}
	return result.RowsAffected() == 1, nil
}

// Reconcile sets an existing row's closing to the corrected live count
// in a single statement. Increases are folded into added so the row
// arithmetic still holds; decreases only lower closing. A missing row
// is a no-op.
func (r *SnapshotRepo) Reconcile(ctx context.Context, productID, locationID id.ID, day time.Time, closing int64) error {
	sql := `
		UPDATE reg_daily_snapshots
		SET added      = added + GREATEST(0, $4 - closing),
		    closing    = $4,
		    updated_at = now()
		WHERE product_id = $1 AND location_id = $2 AND day = $3
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		productID, locationID, snapshot.Day(day), closing)
	if err != nil {
		return postgres.MapError("reconcile snapshot", snapshotsTable, err)
	}
	return nil
}

// AddSold adds to the sold counter and recomputes closing server-side,
// clamped at zero, in a single statement.
func (r *SnapshotRepo) AddSold(ctx context.Context, productID, locationID id.ID, day time.Time, cartons int64) error {
	sql := `
		UPDATE reg_daily_snapshots
		SET sold       = sold + $4,
		    closing    = GREATEST(0, opening + added - (sold + $4)),
		    updated_at = now()
		WHERE product_id = $1 AND location_id = $2 AND day = $3
	`

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		productID, locationID, snapshot.Day(day), cartons)
	if err != nil {
		return postgres.MapError("add sold", snapshotsTable, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("add sold: no snapshot row for %s/%s on %s",
			productID, locationID, snapshot.Day(day).Format(time.DateOnly))
	}
	return nil
}

// Override upserts a row verbatim with the manual flag set and mirrors
// the edit into the audit log when auditing is enabled.
func (r *SnapshotRepo) Override(ctx context.Context, snap *snapshot.DailySnapshot) error {
	sql := `
		INSERT INTO reg_daily_snapshots
			(product_id, location_id, day, opening, added, sold, closing, manual, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, now())
		ON CONFLICT (product_id, location_id, day)
		DO UPDATE SET
			opening    = EXCLUDED.opening,
			added      = EXCLUDED.added,
			sold       = EXCLUDED.sold,
			closing    = EXCLUDED.closing,
			manual     = true,
			updated_at = now()
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		snap.ProductID, snap.LocationID, snapshot.Day(snap.Day),
		snap.Opening, snap.Added, snap.Sold, snap.Closing)
	if err != nil {
		return postgres.MapError("override snapshot", snapshotsTable, err)
	}

	if r.audit != nil {
		err := r.audit.LogChange(ctx, "daily_snapshot", snap.ProductID, postgres.AuditActionOverride, map[string]any{
			"location_id": snap.LocationID.String(),
			"day":         snapshot.Day(snap.Day).Format(time.DateOnly),
			"opening":     snap.Opening,
			"added":       snap.Added,
			"sold":        snap.Sold,
			"closing":     snap.Closing,
		})
		if err != nil {
			return fmt.Errorf("audit override: %w", err)
		}
	}
	return nil
}

// ExistsForDay reports whether any snapshot row exists for a day.
func (r *SnapshotRepo) ExistsForDay(ctx context.Context, day time.Time) (bool, error) {
	q := r.builder.Select("1").
		From(snapshotsTable).
		Where(squirrel.Eq{"day": snapshot.Day(day)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists for day: %w", err)
	}
	return true, nil
}

// Range returns snapshots for a location over an inclusive date range.
func (r *SnapshotRepo) Range(ctx context.Context, locationID id.ID, from, to time.Time) ([]*snapshot.DailySnapshot, error) {
	q := r.builder.Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.GtOrEq{"day": snapshot.Day(from)}).
		Where(squirrel.LtOrEq{"day": snapshot.Day(to)}).
		OrderBy("day", "product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*snapshot.DailySnapshot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("range snapshots: %w", err)
	}
	return items, nil
}

// SoldOn sums cartons of a product sold at a location on a day from
// the sale lines.
func (r *SnapshotRepo) SoldOn(ctx context.Context, productID, locationID id.ID, day time.Time) (int64, error) {
	start := snapshot.Day(day)
	end := start.AddDate(0, 0, 1)

	sql := `
		SELECT COALESCE(SUM(si.cartons), 0)
		FROM doc_sale_items si
		JOIN doc_sales s ON s.id = si.sale_id
		WHERE si.product_id = $1
		  AND s.location_id = $2
		  AND s.created_at >= $3 AND s.created_at < $4
	`

	var sold int64
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, productID, locationID, start, end).Scan(&sold)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("sum sold on day: %w", err)
	}
	return sold, nil
}

// Ensure interface compliance.
var _ snapshot.Repository = (*SnapshotRepo)(nil)

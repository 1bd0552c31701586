// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger repository. All count mutations run server-side so
// concurrent writers cannot lose updates.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
)

const (
	stockEntriesTable = "reg_stock_entries"
	adjustmentsTable  = "reg_stock_adjustments"
)

var entryColumns = []string{"product_id", "location_id", "cartons", "updated_at"}

var adjustmentColumns = []string{
	"id", "product_id", "location_id",
	"previous_cartons", "new_cartons",
	"reason", "adjusted_by", "created_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a stock ledger repository. audit may be nil;
// adjustments are then recorded without an audit-log entry.
func NewStockRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetStock returns the current entry. A missing row reads as zero.
func (r *StockRepo) GetStock(ctx context.Context, productID, locationID id.ID) (*stock.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{
			"product_id":  productID,
			"location_id": locationID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry stock.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return &stock.Entry{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &entry, nil
}

// GetStockForUpdate returns the entry with a pessimistic row lock. A
// missing row reads as zero without a lock; the first write creates it.
func (r *StockRepo) GetStockForUpdate(ctx context.Context, productID, locationID id.ID) (*stock.Entry, error) {
	sql := `
		SELECT product_id, location_id, cartons, updated_at
		FROM reg_stock_entries
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`

	var entry stock.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, productID, locationID); err != nil {
		if pgxscan.NotFound(err) {
			return &stock.Entry{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &entry, nil
}

// SetStock upserts an absolute carton count.
func (r *StockRepo) SetStock(ctx context.Context, productID, locationID id.ID, cartons int64) error {
	if cartons < 0 {
		return fmt.Errorf("set stock: negative count %d", cartons)
	}

	sql := `
		INSERT INTO reg_stock_entries (product_id, location_id, cartons, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET cartons = EXCLUDED.cartons, updated_at = now()
	`

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, productID, locationID, cartons); err != nil {
		return postgres.MapError("set stock", stockEntriesTable, err)
	}
	return nil
}

// Decrement reduces the count atomically, clamping at zero, and
// returns the resulting count. The arithmetic runs server-side in one
// statement, so concurrent decrements never lose updates. A missing
// row is created at zero.
func (r *StockRepo) Decrement(ctx context.Context, productID, locationID id.ID, by int64) (int64, error) {
	if by < 0 {
		return 0, fmt.Errorf("decrement: negative amount %d", by)
	}

	sql := `
		INSERT INTO reg_stock_entries (product_id, location_id, cartons, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET
			cartons    = GREATEST(0, reg_stock_entries.cartons - $3),
			updated_at = now()
		RETURNING cartons
	`

	var remaining int64
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, productID, locationID, by).Scan(&remaining)
	if err != nil {
		return 0, postgres.MapError("decrement stock", stockEntriesTable, err)
	}
	return remaining, nil
}

// ListByLocation returns all entries at a location.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]*stock.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*stock.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock by location: %w", err)
	}
	return entries, nil
}

// ListAll returns every ledger entry.
func (r *StockRepo) ListAll(ctx context.Context) ([]*stock.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		OrderBy("location_id", "product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*stock.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list all stock: %w", err)
	}
	return entries, nil
}

// AppendAdjustment records a manual adjustment and mirrors it into the
// audit log when auditing is enabled.
func (r *StockRepo) AppendAdjustment(ctx context.Context, adj *stock.Adjustment) error {
	q := r.builder.Insert(adjustmentsTable).
		Columns(adjustmentColumns...).
		Values(
			adj.ID, adj.ProductID, adj.LocationID,
			adj.PreviousCartons, adj.NewCartons,
			adj.Reason, adj.AdjustedBy, adj.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("insert adjustment", adjustmentsTable, err)
	}

	if r.audit != nil {
		err := r.audit.LogChange(ctx, "stock_entry", adj.ID, postgres.AuditActionAdjust, map[string]any{
			"product_id":       adj.ProductID.String(),
			"location_id":      adj.LocationID.String(),
			"previous_cartons": adj.PreviousCartons,
			"new_cartons":      adj.NewCartons,
			"reason":           adj.Reason,
		})
		if err != nil {
			return fmt.Errorf("audit adjustment: %w", err)
		}
	}
	return nil
}

// ListAdjustments returns adjustment history for a pair, newest first.
func (r *StockRepo) ListAdjustments(ctx context.Context, productID, locationID id.ID, limit int) ([]*stock.Adjustment, error) {
	q := r.builder.Select(adjustmentColumns...).
		From(adjustmentsTable).
		Where(squirrel.Eq{
			"product_id":  productID,
			"location_id": locationID,
		}).
		OrderBy("created_at DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*stock.Adjustment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return items, nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

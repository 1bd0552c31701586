package snapshot

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Repository defines persistence operations for daily snapshots.
type Repository interface {
	// Get returns the snapshot for a (product, location, day) key, or
	// nil when no row exists.
	Get(ctx context.Context, productID, locationID id.ID, day time.Time) (*DailySnapshot, error)

	// Create inserts a new snapshot row. Fails on duplicate key.
	Create(ctx context.Context, snap *DailySnapshot) error

	// CreateIfAbsent inserts a row, leaving any existing row for the
	// same key untouched. Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, snap *DailySnapshot) (bool, error)

	// Reconcile sets an existing row's closing to the corrected live
	// count, folding any increase into added. A missing row is a no-op.
	Reconcile(ctx context.Context, productID, locationID id.ID, day time.Time, closing int64) error

	// AddSold atomically adds cartons to the sold counter and
	// recomputes closing, clamping at zero. The row must exist.
	AddSold(ctx context.Context, productID, locationID id.ID, day time.Time, cartons int64) error

	// Override upserts a row verbatim with the manual flag set.
	Override(ctx context.Context, snap *DailySnapshot) error

	// ExistsForDay reports whether any snapshot row exists for a day.
	ExistsForDay(ctx context.Context, day time.Time) (bool, error)

	// Range returns snapshots for a location over an inclusive date
	// range, ordered by day then product.
	Range(ctx context.Context, locationID id.ID, from, to time.Time) ([]*DailySnapshot, error)

	// SoldOn returns the total cartons of a product sold at a location
	// on a given day, summed from the sale ledger.
	SoldOn(ctx context.Context, productID, locationID id.ID, day time.Time) (int64, error)
}

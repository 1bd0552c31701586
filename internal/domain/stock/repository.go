package stock

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Repository defines persistence operations for the stock ledger.
type Repository interface {
	// GetStock returns the entry for a (product, location) pair. A pair
	// with no row is reported as an entry with zero cartons.
	GetStock(ctx context.Context, productID, locationID id.ID) (*Entry, error)

	// GetStockForUpdate behaves like GetStock but takes a row lock
	// inside the current transaction, serializing concurrent writers
	// on the same pair. Must be called within a transaction.
	GetStockForUpdate(ctx context.Context, productID, locationID id.ID) (*Entry, error)

	// SetStock sets the carton count to an absolute value, creating
	// the entry if it does not exist. count must be non-negative.
	SetStock(ctx context.Context, productID, locationID id.ID, cartons int64) error

	// Decrement atomically reduces the carton count, clamping at zero,
	// and returns the resulting count. A missing entry counts as zero.
	Decrement(ctx context.Context, productID, locationID id.ID, by int64) (int64, error)

	// ListByLocation returns all entries at a location.
	ListByLocation(ctx context.Context, locationID id.ID) ([]*Entry, error)

	// ListAll returns every ledger entry across all locations.
	ListAll(ctx context.Context) ([]*Entry, error)

	// AppendAdjustment records a manual adjustment.
	AppendAdjustment(ctx context.Context, adj *Adjustment) error

	// ListAdjustments returns the adjustment history for a pair, newest
	// first.
	ListAdjustments(ctx context.Context, productID, locationID id.ID, limit int) ([]*Adjustment, error)
}

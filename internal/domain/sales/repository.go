package sales

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// ListFilter narrows sale queries.
type ListFilter struct {
	// LocationID restricts to one location when non-nil.
	LocationID *id.ID

	// From and To bound CreatedAt inclusively (calendar days).
	From time.Time
	To   time.Time

	Limit  int
	Offset int
}

// Repository defines persistence operations for sales.
type Repository interface {
	// Create inserts a sale header together with its line items.
	Create(ctx context.Context, sale *Sale) error

	// GetByID returns a sale with its items.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// List returns sale headers matching the filter, newest first.
	// Items are not loaded.
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

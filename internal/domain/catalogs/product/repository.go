package product

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// ListFilter narrows List results.
type ListFilter struct {
	// Search matches against the product name (case-insensitive substring).
	Search string

	// IncludeDeleted includes soft-deleted products.
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error

	// SetDeletionMark soft-deletes or restores a product.
	SetDeletionMark(ctx context.Context, productID id.ID, mark bool) error

	List(ctx context.Context, filter ListFilter) ([]*Product, error)
	Exists(ctx context.Context, productID id.ID) (bool, error)
}

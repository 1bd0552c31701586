// Package product provides the product catalog.
// Products are wholesale goods priced per carton.
package product

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
)

// Product represents a catalog item sold by the carton.
type Product struct {
	ID id.ID `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// PricePerCarton is the current selling price. Sales capture the
	// price at transaction time, so later changes never alter history.
	PricePerCarton types.Money `db:"price_per_carton" json:"pricePerCarton"`

	// Active controls whether the product can appear on new sales.
	Active bool `db:"active" json:"active"`

	// DeletionMark indicates soft-deleted product. Products referenced
	// by historical sales are never hard-deleted.
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a new Product with generated ID.
func New(name string, pricePerCarton types.Money) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:             id.New(),
		Name:           name,
		PricePerCarton: pricePerCarton,
		Active:         true,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
	p.Version++
}

// Validate checks entity invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if p.PricePerCarton.IsNegative() {
		return apperror.NewValidation("price per carton cannot be negative").
			WithDetail("field", "pricePerCarton")
	}

	return nil
}

// Sellable reports whether the product can be placed on a new sale.
func (p *Product) Sellable() bool {
	return p.Active && !p.DeletionMark
}

// Package stock provides the live stock ledger. Each (product,
// location) pair carries a single carton count that the rest of the
// system reads and mutates.
package stock

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Entry is the current carton count for a product at a location.
// Cartons is never negative.
type Entry struct {
	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	Cartons int64 `db:"cartons" json:"cartons"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks entry invariants.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if id.IsNil(e.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if e.Cartons < 0 {
		return apperror.NewInvalidQuantity("carton count cannot be negative").
			WithDetail("cartons", e.Cartons)
	}
	return nil
}

// Adjustment records a manual correction of a ledger entry. The
// previous and new counts are captured so the history explains every
// jump in the ledger.
type Adjustment struct {
	ID id.ID `db:"id" json:"id"`

	ProductID  id.ID `db:"product_id" json:"productId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	PreviousCartons int64 `db:"previous_cartons" json:"previousCartons"`
	NewCartons      int64 `db:"new_cartons" json:"newCartons"`

	// Reason is mandatory free text ("New shipment received",
	// "Damaged goods written off").
	Reason string `db:"reason" json:"reason"`

	AdjustedBy string `db:"adjusted_by" json:"adjustedBy"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks adjustment invariants.
func (a *Adjustment) Validate(ctx context.Context) error {
	if a.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	if a.NewCartons < 0 {
		return apperror.NewInvalidQuantity("new carton count cannot be negative").
			WithDetail("newCartons", a.NewCartons)
	}
	return nil
}

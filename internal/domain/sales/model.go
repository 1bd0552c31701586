// Package sales provides the sale-transaction ledger: immutable sale
// records with line items, priced server-side at transaction time.
package sales

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
)

// Sale is an immutable sale record. There is no update or cancel path;
// corrections happen through manual stock adjustment.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	LocationID id.ID `db:"location_id" json:"locationId"`

	// CustomerName is the walk-in customer's name, or the ordering
	// customer's name for order fulfillments.
	CustomerName string `db:"customer_name" json:"customerName"`

	// OrderID links a fulfillment-generated sale back to its order.
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one sale line. The price per carton is captured from the
// catalog at sale time and never re-read.
type Item struct {
	SaleID id.ID `db:"sale_id" json:"-"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`

	Cartons        int64       `db:"cartons" json:"cartons"`
	PricePerCarton types.Money `db:"price_per_carton" json:"pricePerCarton"`
	Amount         types.Money `db:"amount" json:"amount"`
}

// Validate checks sale invariants, including that the total equals the
// sum of line amounts.
func (s *Sale) Validate(ctx context.Context) error {
	if id.IsNil(s.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if s.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("sale must have at least one item")
	}

	sum := types.Zero()
	for _, item := range s.Items {
		if item.Cartons <= 0 {
			return apperror.NewInvalidQuantity("cartons must be positive").
				WithDetail("product_id", item.ProductID.String()).
				WithDetail("cartons", item.Cartons)
		}
		sum = sum.Add(item.Amount)
	}
	if !s.TotalAmount.Equal(sum) {
		return apperror.NewValidation("total amount does not match line items").
			WithDetail("total", s.TotalAmount).
			WithDetail("computed", sum)
	}
	return nil
}

// InputItem is a requested sale line: product and quantity only. The
// price always comes from the catalog.
type InputItem struct {
	ProductID id.ID `json:"productId"`
	Cartons   int64 `json:"cartons"`
}

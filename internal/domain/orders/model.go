// Package orders provides deferred, approval-gated customer orders.
// Orders reserve nothing; stock is checked only at fulfillment.
package orders

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// transitions lists the legal moves of the lifecycle. Fulfilled and
// rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusFulfilled, StatusRejected},
}

// CanTransition reports whether moving to the target state is legal.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Order is a customer's deferred purchase. Items are fixed at
// creation; only status, approval and fulfillment fields mutate.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	CustomerID   string `db:"customer_id" json:"customerId"`
	CustomerName string `db:"customer_name" json:"customerName"`

	Status Status `db:"status" json:"status"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	ApprovedBy *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`

	// SaleID references the sale produced by fulfillment.
	SaleID      *id.ID     `db:"sale_id" json:"saleId,omitempty"`
	FulfilledAt *time.Time `db:"fulfilled_at" json:"fulfilledAt,omitempty"`

	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one order line, priced from the catalog at creation time.
type Item struct {
	OrderID id.ID `db:"order_id" json:"-"`
	LineNo  int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`

	Cartons        int64       `db:"cartons" json:"cartons"`
	PricePerCarton types.Money `db:"price_per_carton" json:"pricePerCarton"`
	Amount         types.Money `db:"amount" json:"amount"`
}

// Transition moves the order to a new state, rejecting illegal moves.
func (o *Order) Transition(to Status) error {
	if !o.Status.CanTransition(to) {
		return apperror.NewOrderState(o.ID.String(), string(o.Status), string(to))
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	o.Version++
	return nil
}

// Validate checks order invariants.
func (o *Order) Validate(ctx context.Context) error {
	if o.CustomerID == "" {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if len(o.Items) == 0 {
		return apperror.NewValidation("order must have at least one item")
	}

	sum := types.Zero()
	for _, item := range o.Items {
		if item.Cartons <= 0 {
			return apperror.NewInvalidQuantity("cartons must be positive").
				WithDetail("product_id", item.ProductID.String()).
				WithDetail("cartons", item.Cartons)
		}
		sum = sum.Add(item.Amount)
	}
	if !o.TotalAmount.Equal(sum) {
		return apperror.NewValidation("total amount does not match line items").
			WithDetail("total", o.TotalAmount).
			WithDetail("computed", sum)
	}
	return nil
}

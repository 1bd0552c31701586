package orders

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// ListFilter narrows order queries.
type ListFilter struct {
	// CustomerID restricts to one customer's orders.
	CustomerID string

	// Status restricts to one lifecycle state.
	Status Status

	Limit  int
	Offset int
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create inserts an order header together with its line items.
	Create(ctx context.Context, order *Order) error

	// GetByID returns an order with its items.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetForUpdate returns an order with its items, locking the header
	// row. Must be called within a transaction.
	GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error)

	// Update persists mutable header fields (status, approval,
	// fulfillment). Items are never updated.
	Update(ctx context.Context, order *Order) error

	// List returns order headers matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}

// Notification is a fire-and-forget message for staff or customers.
type Notification struct {
	Type        string
	Title       string
	Message     string
	TargetRoles []string
	ReferenceID id.ID
}

// Notifier delivers notifications asynchronously. Order processing
// never depends on delivery succeeding.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

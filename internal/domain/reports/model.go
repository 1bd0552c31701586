// Package reports exposes read projections for receipt printing and
// date-range exports. It never mutates state.
package reports

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
)

// Receipt is the flat view the printing collaborator consumes.
type Receipt struct {
	// Type is "sale" for walk-in sales and "order" for
	// fulfillment-generated sales.
	Type string `json:"type"`

	ReceiptNumber string    `json:"receiptNumber"`
	Date          time.Time `json:"date"`

	CustomerName string `json:"customerName,omitempty"`

	Items []ReceiptItem `json:"items"`

	Total types.Money `json:"total"`
}

// ReceiptItem is one printed line.
type ReceiptItem struct {
	Name           string      `json:"name"`
	Cartons        int64       `json:"cartons"`
	PricePerCarton types.Money `json:"pricePerCarton"`
}

// SalesFilter bounds a sales export.
type SalesFilter struct {
	LocationID *id.ID
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// SnapshotsFilter bounds a snapshot export.
type SnapshotsFilter struct {
	LocationID id.ID
	From       time.Time
	To         time.Time
}

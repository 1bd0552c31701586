package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
)

// StockEntryResponse is the wire shape of a ledger entry.
type StockEntryResponse struct {
	ProductID  string    `json:"productId"`
	LocationID string    `json:"locationId"`
	Cartons    int64     `json:"cartons"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromStockEntry maps a ledger entry to its response.
func FromStockEntry(e *stock.Entry) StockEntryResponse {
	return StockEntryResponse{
		ProductID:  e.ProductID.String(),
		LocationID: e.LocationID.String(),
		Cartons:    e.Cartons,
		UpdatedAt:  e.UpdatedAt,
	}
}

// FromStockEntries maps a ledger entry list.
func FromStockEntries(items []*stock.Entry) []StockEntryResponse {
	out := make([]StockEntryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, FromStockEntry(e))
	}
	return out
}

// AdjustStockRequest is the payload for a manual stock correction.
// NewCartons is a pointer so zero is distinguishable from absent.
type AdjustStockRequest struct {
	ProductID  string `json:"productId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	NewCartons *int64 `json:"newCartons" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// AdjustmentResponse is the wire shape of an adjustment record.
type AdjustmentResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	LocationID      string    `json:"locationId"`
	PreviousCartons int64     `json:"previousCartons"`
	NewCartons      int64     `json:"newCartons"`
	Reason          string    `json:"reason"`
	AdjustedBy      string    `json:"adjustedBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromAdjustment maps an adjustment to its response.
func FromAdjustment(a *stock.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:              a.ID.String(),
		ProductID:       a.ProductID.String(),
		LocationID:      a.LocationID.String(),
		PreviousCartons: a.PreviousCartons,
		NewCartons:      a.NewCartons,
		Reason:          a.Reason,
		AdjustedBy:      a.AdjustedBy,
		CreatedAt:       a.CreatedAt,
	}
}

// FromAdjustments maps an adjustment list.
func FromAdjustments(items []*stock.Adjustment) []AdjustmentResponse {
	out := make([]AdjustmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, FromAdjustment(a))
	}
	return out
}

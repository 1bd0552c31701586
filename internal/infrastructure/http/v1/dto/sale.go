package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
)

// SaleItemRequest is one requested line: product and quantity. Prices
// are never accepted from clients.
type SaleItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Cartons   int64  `json:"cartons" binding:"required,min=1"`
}

// RecordSaleRequest is the checkout payload.
type RecordSaleRequest struct {
	LocationID   string            `json:"locationId" binding:"required,uuid"`
	CustomerName string            `json:"customerName" binding:"required"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemResponse is one sale line on the wire.
type SaleItemResponse struct {
	LineNo         int    `json:"lineNo"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Cartons        int64  `json:"cartons"`
	PricePerCarton string `json:"pricePerCarton"`
	Amount         string `json:"amount"`
}

// SaleResponse is the wire shape of a sale.
type SaleResponse struct {
	ID           string             `json:"id"`
	LocationID   string             `json:"locationId"`
	CustomerName string             `json:"customerName"`
	OrderID      string             `json:"orderId,omitempty"`
	TotalAmount  string             `json:"totalAmount"`
	CreatedBy    string             `json:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []SaleItemResponse `json:"items,omitempty"`
}

// FromSale maps a sale entity to its response.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:           s.ID.String(),
		LocationID:   s.LocationID.String(),
		CustomerName: s.CustomerName,
		TotalAmount:  s.TotalAmount.String(),
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
	}
	if s.OrderID != nil {
		resp.OrderID = s.OrderID.String()
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			LineNo:         item.LineNo,
			ProductID:      item.ProductID.String(),
			ProductName:    item.ProductName,
			Cartons:        item.Cartons,
			PricePerCarton: item.PricePerCarton.String(),
			Amount:         item.Amount.String(),
		})
	}
	return resp
}

// FromSales maps a sale list.
func FromSales(items []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSale(s))
	}
	return out
}

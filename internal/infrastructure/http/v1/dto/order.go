package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/orders"
)

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	Items []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemResponse is one order line on the wire.
type OrderItemResponse struct {
	LineNo         int    `json:"lineNo"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Cartons        int64  `json:"cartons"`
	PricePerCarton string `json:"pricePerCarton"`
	Amount         string `json:"amount"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customerId"`
	CustomerName string              `json:"customerName"`
	Status       string              `json:"status"`
	TotalAmount  string              `json:"totalAmount"`
	ApprovedBy   *string             `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time          `json:"approvedAt,omitempty"`
	SaleID       string              `json:"saleId,omitempty"`
	FulfilledAt  *time.Time          `json:"fulfilledAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

// FromOrder maps an order entity to its response.
func FromOrder(o *orders.Order) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID.String(),
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount.String(),
		ApprovedBy:   o.ApprovedBy,
		ApprovedAt:   o.ApprovedAt,
		FulfilledAt:  o.FulfilledAt,
		CreatedAt:    o.CreatedAt,
	}
	if o.SaleID != nil {
		resp.SaleID = o.SaleID.String()
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
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

// FromOrders maps an order list.
func FromOrders(items []*orders.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, FromOrder(o))
	}
	return out
}

package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/product"
)

// CreateProductRequest is the payload for creating a product. The
// price is a decimal string to avoid float rounding on the wire.
type CreateProductRequest struct {
	Name           string `json:"name" binding:"required"`
	PricePerCarton string `json:"pricePerCarton" binding:"required"`
}

// ToInput converts the request to a service input.
func (r CreateProductRequest) ToInput() (product.CreateInput, error) {
	price, err := types.NewMoneyFromString(r.PricePerCarton)
	if err != nil {
		return product.CreateInput{}, apperror.NewValidation("invalid price").
			WithDetail("pricePerCarton", r.PricePerCarton)
	}
	return product.CreateInput{Name: r.Name, PricePerCarton: price}, nil
}

// UpdateProductRequest carries partial product changes.
type UpdateProductRequest struct {
	Name           *string `json:"name,omitempty"`
	PricePerCarton *string `json:"pricePerCarton,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// ToInput converts the request to a service input.
func (r UpdateProductRequest) ToInput() (product.UpdateInput, error) {
	input := product.UpdateInput{Name: r.Name, Active: r.Active}
	if r.PricePerCarton != nil {
		price, err := types.NewMoneyFromString(*r.PricePerCarton)
		if err != nil {
			return input, apperror.NewValidation("invalid price").
				WithDetail("pricePerCarton", *r.PricePerCarton)
		}
		input.PricePerCarton = &price
	}
	return input, nil
}

// ProductResponse is the wire shape of a product.
type ProductResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PricePerCarton string    `json:"pricePerCarton"`
	Active         bool      `json:"active"`
	DeletionMark   bool      `json:"deletionMark"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromProduct maps a product entity to its response.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		PricePerCarton: p.PricePerCarton.String(),
		Active:         p.Active,
		DeletionMark:   p.DeletionMark,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// FromProducts maps a product list.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}

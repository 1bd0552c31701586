package product

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries fields for a new product.
type CreateInput struct {
	Name           string
	PricePerCarton types.Money
}

// Create registers a new product in the catalog.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if err := authz.Authorize(ctx, authz.OpProductWrite); err != nil {
		return nil, err
	}

	p := New(input.Name, input.PricePerCarton)
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created",
		"product_id", p.ID,
		"name", p.Name,
	)
	return p, nil
}

// GetByID returns a product by its identifier.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// UpdateInput carries mutable product fields. Nil pointers leave the
// field unchanged.
type UpdateInput struct {
	Name           *string
	PricePerCarton *types.Money
	Active         *bool
}

// Update applies changes to an existing product.
func (s *Service) Update(ctx context.Context, productID id.ID, input UpdateInput) (*Product, error) {
	if err := authz.Authorize(ctx, authz.OpProductWrite); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.PricePerCarton != nil {
		p.PricePerCarton = *input.PricePerCarton
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product updated", "product_id", p.ID)
	return p, nil
}

// Delete soft-deletes a product. Historical sales keep referencing it.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := authz.Authorize(ctx, authz.OpProductWrite); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}

	if err := s.repo.SetDeletionMark(ctx, productID, true); err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// RequireSellable loads a product and checks it can be sold.
func (s *Service) RequireSellable(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Sellable() {
		return nil, apperror.NewBusinessRule("PRODUCT_INACTIVE", "product is not available for sale").
			WithDetail("product_id", productID.String())
	}
	return p, nil
}

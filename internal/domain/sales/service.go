package sales

import (
	"context"
	"sort"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/tx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/product"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// DefaultRetries bounds transparent retries on concurrency conflicts.
const DefaultRetries = 3

// Service is the transaction processor for immediate sales.
type Service struct {
	repo      Repository
	products  *product.Service
	locations location.Repository
	ledger    stock.Repository
	snapshots *snapshot.Service
	txManager tx.Manager
	retries   int
}

// NewService creates a sales service. retries <= 0 selects
// DefaultRetries.
func NewService(
	repo Repository,
	products *product.Service,
	locations location.Repository,
	ledger stock.Repository,
	snapshots *snapshot.Service,
	txManager tx.Manager,
	retries int,
) *Service {
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &Service{
		repo:      repo,
		products:  products,
		locations: locations,
		ledger:    ledger,
		snapshots: snapshots,
		txManager: txManager,
		retries:   retries,
	}
}

// RecordSaleInput carries a checkout request. Prices never appear
// here; they are re-fetched from the catalog at processing time.
type RecordSaleInput struct {
	LocationID   id.ID
	CustomerName string
	Items        []InputItem
}

// RecordSale applies a sale as one unit of work: every item is
// validated against catalog and live stock before anything mutates,
// then the sale record, the ledger decrements and the snapshot updates
// commit in a single transaction. Any insufficient item rejects the
// whole sale.
func (s *Service) RecordSale(ctx context.Context, input RecordSaleInput) (*Sale, error) {
	if err := authz.AuthorizeLocation(ctx, authz.OpSaleRecord, input.LocationID.String()); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var sale *Sale
	err := s.withRetry(ctx, func() error {
		return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			var err error
			sale, err = s.process(txCtx, input, nil)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"location_id", sale.LocationID,
		"items", len(sale.Items),
		"total", sale.TotalAmount,
	)
	return sale, nil
}

// ProcessInTransaction runs the sale pipeline inside the caller's
// transaction. Used by order fulfillment, which owns the surrounding
// unit of work. orderID links the resulting sale to its order.
func (s *Service) ProcessInTransaction(ctx context.Context, input RecordSaleInput, orderID *id.ID) (*Sale, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.process(ctx, input, orderID)
}

// process validates every line, then persists the sale and applies the
// stock effects. Runs within a transaction; ledger rows are locked in
// a stable order so concurrent multi-item sales cannot deadlock.
func (s *Service) process(ctx context.Context, input RecordSaleInput, orderID *id.ID) (*Sale, error) {
	exists, err := s.locations.Exists(ctx, input.LocationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("location", input.LocationID)
	}

	items := make([]InputItem, len(input.Items))
	copy(items, input.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	now := time.Now().UTC()
	sale := &Sale{
		ID:           id.New(),
		LocationID:   input.LocationID,
		CustomerName: input.CustomerName,
		OrderID:      orderID,
		TotalAmount:  types.Zero(),
		CreatedBy:    appctx.GetUserID(ctx),
		CreatedAt:    now,
	}

	// Validation phase: lock and check every line before any mutation.
	for i, item := range items {
		p, err := s.products.RequireSellable(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		entry, err := s.ledger.GetStockForUpdate(ctx, item.ProductID, input.LocationID)
		if err != nil {
			return nil, err
		}
		if entry.Cartons < item.Cartons {
			return nil, apperror.NewInsufficientStock(item.ProductID.String(), item.Cartons, entry.Cartons)
		}

		amount := types.LineTotal(item.Cartons, p.PricePerCarton)
		sale.Items = append(sale.Items, &Item{
			SaleID:         sale.ID,
			LineNo:         i + 1,
			ProductID:      p.ID,
			ProductName:    p.Name,
			Cartons:        item.Cartons,
			PricePerCarton: p.PricePerCarton,
			Amount:         amount,
		})
		sale.TotalAmount = sale.TotalAmount.Add(amount)
	}

	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	// Mutation phase: all lines were verified under lock above.
	for _, item := range sale.Items {
		if _, err := s.ledger.Decrement(ctx, item.ProductID, sale.LocationID, item.Cartons); err != nil {
			return nil, err
		}
		if err := s.snapshots.ApplySale(ctx, item.ProductID, sale.LocationID, item.Cartons, now); err != nil {
			return nil, err
		}
	}

	return sale, nil
}

// withRetry re-runs fn on concurrency conflicts, up to the configured
// bound.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.retries; attempt++ {
		err = fn()
		if err == nil || !apperror.IsConcurrencyConflict(err) {
			return err
		}
		logger.Warn(ctx, "sale retried after concurrency conflict",
			"attempt", attempt,
			"max_attempts", s.retries,
		)
	}
	return err
}

func validateInput(input RecordSaleInput) error {
	if input.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}
	if len(input.Items) == 0 {
		return apperror.NewValidation("sale must have at least one item")
	}

	seen := make(map[id.ID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.Cartons <= 0 {
			return apperror.NewInvalidQuantity("cartons must be positive").
				WithDetail("product_id", item.ProductID.String()).
				WithDetail("cartons", item.Cartons)
		}
		if _, dup := seen[item.ProductID]; dup {
			return apperror.NewValidation("duplicate product in items").
				WithDetail("product_id", item.ProductID.String())
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

// GetByID returns a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	if err := authz.Authorize(ctx, authz.OpSaleRead); err != nil {
		return nil, err
	}

	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeLocation(ctx, authz.OpSaleRead, sale.LocationID.String()); err != nil {
		return nil, err
	}
	return sale, nil
}

// List returns sale headers matching the filter. Shop staff are
// restricted to their own location.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if err := authz.Authorize(ctx, authz.OpSaleRead); err != nil {
		return nil, err
	}

	if actor := appctx.GetActor(ctx); actor != nil && actor.Role == appctx.RoleShopStaff {
		own, err := id.Parse(actor.LocationID)
		if err != nil {
			return nil, apperror.NewPermissionDenied("no location assigned")
		}
		filter.LocationID = &own
	}

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

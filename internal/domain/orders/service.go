package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/tx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/product"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// Service governs the order lifecycle and its stock side effects.
type Service struct {
	repo      Repository
	products  *product.Service
	sales     *sales.Service
	txManager tx.Manager
	notifier  Notifier
	retries   int

	// storeLocationID is the single store location orders are
	// fulfilled against.
	storeLocationID id.ID
}

// NewService creates an order service. notifier may be nil; retries <= 0
// selects sales.DefaultRetries.
func NewService(
	repo Repository,
	products *product.Service,
	salesService *sales.Service,
	txManager tx.Manager,
	notifier Notifier,
	storeLocationID id.ID,
	retries int,
) *Service {
	if retries <= 0 {
		retries = sales.DefaultRetries
	}
	return &Service{
		repo:            repo,
		products:        products,
		sales:           salesService,
		txManager:       txManager,
		notifier:        notifier,
		retries:         retries,
		storeLocationID: storeLocationID,
	}
}

// Create places a new pending order for the calling customer. Totals
// are computed from the catalog; no stock is reserved.
func (s *Service) Create(ctx context.Context, items []sales.InputItem) (*Order, error) {
	if err := authz.Authorize(ctx, authz.OpOrderCreate); err != nil {
		return nil, err
	}
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	if len(items) == 0 {
		return nil, apperror.NewValidation("order must have at least one item")
	}

	now := time.Now().UTC()
	order := &Order{
		ID:           id.New(),
		CustomerID:   actor.UserID,
		CustomerName: actor.Name,
		Status:       StatusPending,
		TotalAmount:  types.Zero(),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for i, item := range items {
		p, err := s.products.RequireSellable(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		amount := types.LineTotal(item.Cartons, p.PricePerCarton)
		order.Items = append(order.Items, &Item{
			OrderID:        order.ID,
			LineNo:         i + 1,
			ProductID:      p.ID,
			ProductName:    p.Name,
			Cartons:        item.Cartons,
			PricePerCarton: p.PricePerCarton,
			Amount:         amount,
		})
		order.TotalAmount = order.TotalAmount.Add(amount)
	}

	if err := order.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, order); err != nil {
			return err
		}
		s.notify(txCtx, Notification{
			Type:        "order_created",
			Title:       "New order",
			Message:     fmt.Sprintf("%s placed an order for %s", order.CustomerName, order.TotalAmount),
			TargetRoles: []string{string(appctx.RoleAdmin), string(appctx.RoleStoreStaff)},
			ReferenceID: order.ID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.TotalAmount,
	)
	return order, nil
}

// Approve moves a pending order to approved. No stock effect.
func (s *Service) Approve(ctx context.Context, orderID id.ID) (*Order, error) {
	if err := authz.Authorize(ctx, authz.OpOrderApprove); err != nil {
		return nil, err
	}

	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.repo.GetForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := order.Transition(StatusApproved); err != nil {
			return err
		}

		approver := appctx.GetUserID(txCtx)
		now := time.Now().UTC()
		order.ApprovedBy = &approver
		order.ApprovedAt = &now

		if err := s.repo.Update(txCtx, order); err != nil {
			return err
		}
		s.notify(txCtx, Notification{
			Type:        "order_approved",
			Title:       "Order approved",
			Message:     fmt.Sprintf("Order for %s has been approved", order.CustomerName),
			TargetRoles: []string{string(appctx.RoleCustomer)},
			ReferenceID: order.ID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order approved", "order_id", order.ID)
	return order, nil
}

// Reject moves a pending or approved order to rejected. No stock
// effect.
func (s *Service) Reject(ctx context.Context, orderID id.ID) (*Order, error) {
	if err := authz.Authorize(ctx, authz.OpOrderReject); err != nil {
		return nil, err
	}

	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.repo.GetForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := order.Transition(StatusRejected); err != nil {
			return err
		}
		return s.repo.Update(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order rejected", "order_id", order.ID)
	return order, nil
}

// Fulfill moves an approved order to fulfilled: every item is checked
// against the store's live stock, the store ledger is decremented, and
// a sale record is created against the store location. Insufficient
// stock aborts the whole fulfillment and leaves the order approved, so
// it can be retried once stock is replenished. Concurrency conflicts
// are retried transparently, up to the configured bound.
func (s *Service) Fulfill(ctx context.Context, orderID id.ID) (*Order, error) {
	if err := authz.Authorize(ctx, authz.OpOrderFulfill); err != nil {
		return nil, err
	}
	if id.IsNil(s.storeLocationID) {
		return nil, apperror.NewBusinessRule("STORE_NOT_CONFIGURED", "no store location configured for fulfillment")
	}

	var order *Order
	err := s.withRetry(ctx, func() error {
		return s.fulfillOnce(ctx, orderID, &order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order fulfilled",
		"order_id", order.ID,
		"sale_id", order.SaleID,
	)
	return order, nil
}

// fulfillOnce runs one fulfillment attempt in its own transaction.
func (s *Service) fulfillOnce(ctx context.Context, orderID id.ID, out **Order) error {
	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.repo.GetForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := order.Transition(StatusFulfilled); err != nil {
			return err
		}

		input := sales.RecordSaleInput{
			LocationID:   s.storeLocationID,
			CustomerName: order.CustomerName,
			Items:        make([]sales.InputItem, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			input.Items = append(input.Items, sales.InputItem{
				ProductID: item.ProductID,
				Cartons:   item.Cartons,
			})
		}

		sale, err := s.sales.ProcessInTransaction(txCtx, input, &order.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		order.SaleID = &sale.ID
		order.FulfilledAt = &now
		return s.repo.Update(txCtx, order)
	})
	if err != nil {
		return err
	}
	*out = order
	return nil
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
		logger.Warn(ctx, "fulfillment retried after concurrency conflict",
			"attempt", attempt,
			"max_attempts", s.retries,
		)
	}
	return err
}

// GetByID returns an order. Customers can only read their own.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actor := appctx.GetActor(ctx)
	if actor != nil && actor.Role == appctx.RoleCustomer && order.CustomerID != actor.UserID {
		return nil, apperror.NewNotFound("order", orderID)
	}
	return order, nil
}

// List returns orders matching the filter. Customers see only their
// own orders regardless of the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if actor := appctx.GetActor(ctx); actor != nil && actor.Role == appctx.RoleCustomer {
		filter.CustomerID = actor.UserID
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// notify publishes fire-and-forget. Failures are logged, never
// propagated.
func (s *Service) notify(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		logger.Warn(ctx, "notification publish failed",
			"type", n.Type,
			"reference_id", n.ReferenceID,
			"error", err,
		)
	}
}

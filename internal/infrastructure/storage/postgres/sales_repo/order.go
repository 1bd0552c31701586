package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/orders"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "doc_orders"
	orderItemsTable = "doc_order_items"
)

var orderColumns = []string{
	"id", "customer_id", "customer_name", "status", "total_amount",
	"approved_by", "approved_at", "sale_id", "fulfilled_at",
	"version", "created_at", "updated_at",
}

var orderItemColumns = []string{
	"order_id", "line_no", "product_id", "product_name",
	"cartons", "price_per_carton", "amount",
}

// OrderRepo implements orders.Repository.
type OrderRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an order header and its line items.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	q := r.builder.Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			order.ID, order.CustomerID, order.CustomerName, order.Status, order.TotalAmount,
			order.ApprovedBy, order.ApprovedAt, order.SaleID, order.FulfilledAt,
			order.Version, order.CreatedAt, order.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("insert order", ordersTable, err)
	}

	iq := r.builder.Insert(orderItemsTable).Columns(orderItemColumns...)
	for _, item := range order.Items {
		iq = iq.Values(
			order.ID, item.LineNo, item.ProductID, item.ProductName,
			item.Cartons, item.PricePerCarton, item.Amount,
		)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("insert order items", orderItemsTable, err)
	}
	return nil
}

// GetByID returns an order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	return r.get(ctx, orderID, false)
}

// GetForUpdate returns an order with its items, locking the header row.
func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	return r.get(ctx, orderID, true)
}

func (r *OrderRepo) get(ctx context.Context, orderID id.ID, forUpdate bool) (*orders.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	} else {
		q = q.Limit(1)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order orders.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	iq := r.builder.Select(orderItemColumns...).
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("line_no")

	sql, args, err = iq.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &order.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	return &order, nil
}

// Update persists mutable header fields with optimistic locking.
func (r *OrderRepo) Update(ctx context.Context, order *orders.Order) error {
	q := r.builder.Update(ordersTable).
		Set("status", order.Status).
		Set("approved_by", order.ApprovedBy).
		Set("approved_at", order.ApprovedAt).
		Set("sale_id", order.SaleID).
		Set("fulfilled_at", order.FulfilledAt).
		Set("version", order.Version).
		Set("updated_at", order.UpdatedAt).
		Where(squirrel.Eq{"id": order.ID}).
		Where(squirrel.Eq{"version": order.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError("update order", ordersTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("order", order.ID.String())
	}
	return nil
}

// List returns order headers matching the filter, newest first.
func (r *OrderRepo) List(ctx context.Context, filter orders.ListFilter) ([]*orders.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable)

	if filter.CustomerID != "" {
		q = q.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*orders.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}

// Ensure interface compliance.
var _ orders.Repository = (*OrderRepo)(nil)

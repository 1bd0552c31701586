package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
)

const locationsTable = "cat_locations"

var locationColumns = []string{
	"id", "name", "type", "version", "created_at", "updated_at",
}

// LocationRepo implements location.Repository.
type LocationRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLocationRepo creates a location repository.
func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new location.
func (r *LocationRepo) Create(ctx context.Context, l *location.Location) error {
	q := r.builder.Insert(locationsTable).
		Columns(locationColumns...).
		Values(l.ID, l.Name, l.Type, l.Version, l.CreatedAt, l.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("insert location", locationsTable, err)
	}
	return nil
}

// GetByID retrieves a location by ID.
func (r *LocationRepo) GetByID(ctx context.Context, locationID id.ID) (*location.Location, error) {
	q := r.builder.Select(locationColumns...).
		From(locationsTable).
		Where(squirrel.Eq{"id": locationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l location.Location
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("location", locationID.String())
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update modifies an existing location with optimistic locking.
func (r *LocationRepo) Update(ctx context.Context, l *location.Location) error {
	q := r.builder.Update(locationsTable).
		Set("name", l.Name).
		Set("type", l.Type).
		Set("version", l.Version).
		Set("updated_at", l.UpdatedAt).
		Where(squirrel.Eq{"id": l.ID}).
		Where(squirrel.Eq{"version": l.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError("update location", locationsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("location", l.ID.String())
	}
	return nil
}

// List retrieves all locations, store first.
func (r *LocationRepo) List(ctx context.Context) ([]*location.Location, error) {
	q := r.builder.Select(locationColumns...).
		From(locationsTable).
		OrderBy("type ASC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*location.Location
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return items, nil
}

// Exists checks location existence.
func (r *LocationRepo) Exists(ctx context.Context, locationID id.ID) (bool, error) {
	q := r.builder.Select("1").
		From(locationsTable).
		Where(squirrel.Eq{"id": locationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// Ensure interface compliance.
var _ location.Repository = (*LocationRepo)(nil)

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
)

// Postgres error codes handled explicitly by the repositories.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
)

// MapError translates driver-level failures into the application error
// taxonomy. Serialization failures and deadlocks surface as
// concurrency conflicts so callers can retry.
func MapError(op, entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperror.NewConflict("record already exists").
				WithDetail("entity", entity).
				WithCause(err)
		case codeForeignKeyViolation:
			return apperror.NewConflict("record is referenced by other data").
				WithDetail("entity", entity).
				WithCause(err)
		case codeSerializationFail, codeDeadlockDetected:
			return apperror.NewConcurrencyConflict(entity, op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tasklane/tasklane/internal/domain/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// translateError maps storage failures into the domain error taxonomy.
// Errors already carrying a kind pass through untouched; transient errors
// (timeouts, connection loss) are surfaced as-is, retry is not this layer's
// job.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.KindOf(err) != 0 {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.Wrap(apperror.NotFound, err, "row not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Wrap(apperror.Conflict, err, "unique constraint "+pgErr.ConstraintName+" violated")
		case pgForeignKeyViolation:
			return apperror.Wrap(apperror.NotFound, err, "referenced row missing for constraint "+pgErr.ConstraintName)
		case pgNotNullViolation:
			// staged data disagreeing with the schema is a bug, not client input
			return apperror.Wrap(apperror.Invariant, err, "null staged for required column "+pgErr.ColumnName)
		}
	}
	return err
}

package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the constraint violations PostgreSQL can surface on
// a write. Repositories pass every driver error through MapError so that
// handlers can match with errors.Is and pick an HTTP status without
// knowing about SQLSTATEs.
var (
	// ErrForeignKeyViolation: a row referenced a nonexistent employee or
	// station (SQLSTATE 23503).
	ErrForeignKeyViolation = errors.New("referenced row does not exist")

	// ErrUniqueViolation: a duplicate competency key or (date, ...) log
	// tuple (SQLSTATE 23505). Callers should retry as an upsert.
	ErrUniqueViolation = errors.New("row already exists")

	// ErrNotNullViolation: a required column was missing (SQLSTATE 23502).
	ErrNotNullViolation = errors.New("required field is missing")

	// ErrNotFound: the query matched no rows.
	ErrNotFound = errors.New("not found")
)

// SQLSTATE class 23 codes (integrity constraint violations).
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
)

// MapError folds a pgx error into the package's sentinel taxonomy.
// Unrecognized errors are returned unchanged; nil stays nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrUniqueViolation, pgErr.ConstraintName)
		case pgNotNullViolation:
			return fmt.Errorf("%w: column %s", ErrNotNullViolation, pgErr.ColumnName)
		}
	}

	return err
}

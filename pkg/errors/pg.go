package errors

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Postgres error classes. Constraint violations surface as Conflict rather
// than an opaque 500.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// FromPg translates a driver error into an AppError. AppErrors pass
// through untouched; anything else becomes Internal.
func FromPg(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &AppError{Code: ErrNotFound, Message: "record not found", Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return &AppError{Code: ErrConflict, Message: "duplicate value violates unique constraint " + pqErr.Constraint, Err: err}
		case pgForeignKeyViolation:
			return &AppError{Code: ErrConflict, Message: "referenced record does not exist: " + pqErr.Constraint, Err: err}
		case pgCheckViolation:
			return &AppError{Code: ErrConflict, Message: "check constraint violated: " + pqErr.Constraint, Err: err}
		}
	}

	return Internal(err)
}

// IsUniqueViolation reports whether err is a postgres unique violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

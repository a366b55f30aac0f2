// Package dberr maps driver errors that a retried transaction can resolve
// onto errs.ConcurrencyConflictError.
package dberr

import (
	"errors"

	"multistop/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes that end a transaction which may succeed when
// run again.
const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	lockNotAvailable     = "55P03"
)

// Translate wraps retryable errors for resource and returns every other
// error unchanged.
func Translate(resource string, err error) error {
	if err == nil {
		return nil
	}
	if IsRetryable(err) {
		return errs.NewConcurrencyConflictError(resource, 1, err)
	}
	return err
}

// IsRetryable reports unique-key collisions, as translated by GORM or raw
// from pgconn, and lock or serialization aborts.
func IsRetryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case uniqueViolation, serializationFailure, deadlockDetected, lockNotAvailable:
		return true
	default:
		return false
	}
}

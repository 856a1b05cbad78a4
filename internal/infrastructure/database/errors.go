package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/canteen-api/pkg/apperror"
)

// PostgreSQL error codes the service reacts to
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// TranslateError maps driver failures to application errors. Deadlocks, lock
// timeouts and serialization failures become a retryable ConcurrencyError.
// Any other error is returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsConcurrency(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDeadlockDetected, pgLockNotAvailable, pgSerializationFailure:
			return &apperror.ConcurrencyError{Err: err}
		case pgUniqueViolation:
			return apperror.NewConflictError("Resource already exists")
		}
		return err
	}

	// SQLite reports lock contention as SQLITE_BUSY
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return &apperror.ConcurrencyError{Err: err}
	}
	return err
}

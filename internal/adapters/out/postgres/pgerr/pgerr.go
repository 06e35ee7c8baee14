// Package pgerr turns driver failures into the errors the core understands.
package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"orderflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE of a violated unique constraint.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a duplicate key.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsUnavailable reports whether err means the store could not be reached or answered too late.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Wrap leaves domain errors alone, reports transient failures of operation as
// *errs.StoreUnavailableError and wraps anything else, e.g. a missing table or a
// violated foreign key, as a plain error. A nil err stays nil.
func Wrap(operation string, err error) error {
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		return err
	}

	if IsUnavailable(err) {
		return errs.NewStoreUnavailableError(operation, err)
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		errs.ErrObjectNotFound,
		errs.ErrConflict,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsRequired,
		errs.ErrValueIsOutOfRange,
		errs.ErrStoreUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

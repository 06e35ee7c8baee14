package commands

import (
	"context"
	"errors"

	"orderflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// maxConflictAttempts bounds how often a unit of work is replayed after losing a race.
const maxConflictAttempts = 3

// retryOnConflict runs unit until it succeeds, fails with anything but errs.ErrConflict,
// or has been tried maxConflictAttempts times. Each attempt must open its own unit of work
// so it reloads the order it validates against.
func retryOnConflict(ctx context.Context, unit func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(0), maxConflictAttempts-1),
		ctx,
	)

	return backoff.Retry(func() error {
		err := unit()
		if err == nil || errors.Is(err, errs.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

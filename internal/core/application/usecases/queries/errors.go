package queries

import (
	"errors"

	"orderflow/internal/adapters/out/postgres/pgerr"
)

// ErrInvalidCredentials is returned by LoginQueryHandler for an unknown phone or a wrong password.
var ErrInvalidCredentials = errors.New("invalid phone or password")

// storeError classifies read failures the same way the repositories do.
func storeError(operation string, err error) error {
	return pgerr.Wrap(operation, err)
}

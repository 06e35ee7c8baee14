package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
type UserRepository interface {
	// Add persists a new user. A phone number already in use returns *errs.ConflictError.
	Add(ctx context.Context, aggregate *user.User) error

	// Get retrieves a user by id, or returns *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByPhone retrieves a user by login phone, or returns *errs.ObjectNotFoundError.
	GetByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error)

	// Delete removes one user.
	Delete(ctx context.Context, id kernel.UUID) error

	// List returns users ordered by name; an empty role lists every role.
	List(ctx context.Context, role user.Role) ([]*user.User, error)

	// Count returns how many users exist.
	Count(ctx context.Context) (int64, error)
}

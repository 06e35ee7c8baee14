package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per operation; instances are not shared.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction with the repositories bound to it.
// Repositories obtained before Begin run outside any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit and Rollback fail when no transaction is open. Rollback after a
	// successful Commit is therefore an expected, ignorable error.
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	UserRepository() UserRepository
}

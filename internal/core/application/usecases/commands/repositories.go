// Package commands holds the write side of the order service: every operation that
// changes orders or users, each as a constructor-checked command plus a handler that
// runs it inside one unit of work.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Handlers only see the slice of the unit of work they need, so a status change
// cannot touch users and a sign-up cannot touch orders.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// OrderUoW serves handlers that read and write orders only.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UserUoW serves sign-up.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	UserUoWFactory interface {
		Create() UserUoW
	}

	// UoW spans both aggregates, e.g. to check the agent before assigning an order:
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//		return err
	//	}
	//	defer uow.Rollback(ctx)
	//
	//	agent, err := uow.UserRepository().Get(ctx, agentID)
	//	o, err := uow.OrderRepository().Get(ctx, orderID)
	//	...
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

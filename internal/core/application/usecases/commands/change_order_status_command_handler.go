package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ChangeOrderStatusResult is the updated order together with the status it left.
type ChangeOrderStatusResult struct {
	Order       *order.Order
	PriorStatus order.Status
}

// ChangeOrderStatusCommandHandler applies a status transition.
//
// The load, checks and conditional write run in one unit of work. When another
// request changes the same order in between, the write fails with errs.ErrConflict and
// the whole unit is replayed against the fresh row, at most three times in total.
// A replay can then fail with errs.ErrIllegalTransition, so two concurrent requests
// never both succeed.
//
// Check order: order exists (NotFound), actor capability (Forbidden), reachability
// (IllegalTransition). The owning customer is notified after commit.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	command ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	if err := command.Validate(); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	var result ChangeOrderStatusResult
	err := retryOnConflict(ctx, func() error {
		var err error
		result, err = h.apply(ctx, command)
		return err
	})
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if owner := result.Order.Owner(); owner != nil {
		h.notifier.NotifyUser(ctx, *owner,
			fmt.Sprintf("Order %s changed from %s to %s", result.Order.ID(), result.PriorStatus, result.Order.Status()),
			"Order status updated",
		)
	}

	return result, nil
}

func (h ChangeOrderStatusCommandHandler) apply(
	ctx context.Context,
	command ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = access.RequireStatusChange(command.Actor(), o, command.Status()); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	prior, err := o.ChangeStatus(command.Status(), time.Now().UTC())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	return ChangeOrderStatusResult{Order: o, PriorStatus: prior}, nil
}

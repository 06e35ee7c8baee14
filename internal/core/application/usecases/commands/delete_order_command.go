package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
)

// DeleteOrderCommand removes one order.
type DeleteOrderCommand struct {
	orderID kernel.UUID
	actor   access.Actor

	guard guard.ConstructorGuard
}

func NewDeleteOrderCommand(orderID kernel.UUID, actor access.Actor) (DeleteOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return DeleteOrderCommand{}, err
	}
	return DeleteOrderCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

func (c DeleteOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeleteOrderCommand) Actor() access.Actor  { return c.actor }

// DeleteOrderCommandHandler lets admins delete any order. The owning customer may only
// withdraw an order that is still pending and has no agent.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, command DeleteOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	actor := command.Actor()
	if err = access.RequireOwnerOrAdmin(actor, o, "delete order"); err != nil {
		return err
	}

	if !actor.IsAdmin() && !o.CanBeWithdrawnByOwner() {
		return errs.NewIllegalStateError("status", o.Status().String(),
			"only a pending order without an agent can be withdrawn")
	}

	if err = orderRepo.Delete(ctx, o.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrDeleteUserCommandIsNotConstructed = errors.New(
	"DeleteUserCommand must be created via NewDeleteUserCommand constructor",
)

// DeleteUserCommand removes an account after cutting its order ties.
type DeleteUserCommand struct {
	userID kernel.UUID
	actor  access.Actor

	guard guard.ConstructorGuard
}

func NewDeleteUserCommand(userID kernel.UUID, actor access.Actor) (DeleteUserCommand, error) {
	if err := errors.Join(userID.Validate(), actor.Validate()); err != nil {
		return DeleteUserCommand{}, err
	}
	return DeleteUserCommand{userID: userID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteUserCommand) Validate() error {
	return c.guard.Validate(ErrDeleteUserCommandIsNotConstructed)
}

func (c DeleteUserCommand) UserID() kernel.UUID { return c.userID }
func (c DeleteUserCommand) Actor() access.Actor { return c.actor }

// DeleteUserCommandHandler applies the customer-side detach, plus the delivery-side
// detach for agents, and deletes the user, all in one transaction.
type DeleteUserCommandHandler struct {
	uowFactory UoWFactory
}

func NewDeleteUserCommandHandler(uowFactory UoWFactory) DeleteUserCommandHandler {
	return DeleteUserCommandHandler{uowFactory: uowFactory}
}

func (h DeleteUserCommandHandler) Handle(ctx context.Context, command DeleteUserCommand) (DetachResult, error) {
	if err := command.Validate(); err != nil {
		return DetachResult{}, err
	}

	if err := access.RequireSelfOrAdmin(command.Actor(), "delete user", command.UserID()); err != nil {
		return DetachResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DetachResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	orderRepo := uow.OrderRepository()
	now := time.Now().UTC()

	u, err := userRepo.Get(ctx, command.UserID())
	if err != nil {
		return DetachResult{}, err
	}

	result, err := detachOrders(ctx, orderRepo, u.ID(), CustomerSide, now)
	if err != nil {
		return DetachResult{}, err
	}

	if u.IsAgent() {
		delivery, detachErr := detachOrders(ctx, orderRepo, u.ID(), DeliverySide, now)
		if detachErr != nil {
			return DetachResult{}, detachErr
		}
		result = result.Add(delivery)
	}

	if err = userRepo.Delete(ctx, u.ID()); err != nil {
		return DetachResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DetachResult{}, err
	}

	return result, nil
}

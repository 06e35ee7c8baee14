package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// RespondToAssignmentCommandHandler records the assigned agent's answer and tells the admins.
// A reject detaches the agent and puts the order back to pending; an accept only
// marks the assignment accepted.
type RespondToAssignmentCommandHandler struct {
	uowFactory OrderUoWFactory
	assigner   services.DeliveryAssigner
	notifier   ports.Notifier
}

func NewRespondToAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	assigner services.DeliveryAssigner,
	notifier ports.Notifier,
) RespondToAssignmentCommandHandler {
	return RespondToAssignmentCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		notifier:   notifier,
	}
}

func (h RespondToAssignmentCommandHandler) Handle(
	ctx context.Context,
	command RespondToAssignmentCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var responded *order.Order
	err := retryOnConflict(ctx, func() error {
		var err error
		responded, err = h.apply(ctx, command)
		return err
	})
	if err != nil {
		return nil, err
	}

	verb := "accepted"
	if command.Decision() == order.Reject {
		verb = "rejected"
	}
	h.notifier.NotifyRole(ctx, user.Admin,
		fmt.Sprintf("Agent %s %s order %s", command.Actor().UserID(), verb, responded.ID()),
		"Assignment "+verb,
	)

	return responded, nil
}

func (h RespondToAssignmentCommandHandler) apply(
	ctx context.Context,
	command RespondToAssignmentCommand,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	err = h.assigner.Respond(o, command.Actor(), command.Decision(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

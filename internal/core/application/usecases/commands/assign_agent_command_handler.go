package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// AssignAgentCommandHandler assigns an order to a delivery agent and notifies the agent.
//
// Example:
//
//	order, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrForbidden):
//	    // actor is not an admin
//	case errors.Is(err, services.ErrInvalidAgent):
//	    // unknown user, or not a delivery agent
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // order does not exist
//	}
type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	assigner   services.DeliveryAssigner
	notifier   ports.Notifier
}

func NewAssignAgentCommandHandler(
	uowFactory UoWFactory,
	assigner services.DeliveryAssigner,
	notifier ports.Notifier,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		notifier:   notifier,
	}
}

// Handle checks the actor, then the agent, then the order, and writes only when all pass.
// Lost races are replayed like status changes.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, command AssignAgentCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	if err := access.RequireAdmin(command.Actor(), "assign agent"); err != nil {
		return nil, err
	}

	var assigned *order.Order
	err := retryOnConflict(ctx, func() error {
		var err error
		assigned, err = h.apply(ctx, command)
		return err
	})
	if err != nil {
		return nil, err
	}

	h.notifier.NotifyUser(ctx, command.AgentID(),
		fmt.Sprintf("Order %s for %s, %s was assigned to you", assigned.ID(), assigned.CustomerName(), assigned.Address()),
		"New order assigned",
	)

	return assigned, nil
}

func (h AssignAgentCommandHandler) apply(ctx context.Context, command AssignAgentCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agent, err := uow.UserRepository().Get(ctx, command.AgentID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	if err = h.assigner.CheckAgent(agent); err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.assigner.Assign(o, agent, time.Now().UTC()); err != nil {
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

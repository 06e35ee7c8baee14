package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrRemoveAgentOrdersCommandIsNotConstructed = errors.New(
	"RemoveAgentOrdersCommand must be created via NewRemoveAgentOrdersCommand constructor",
)

// RemoveAgentOrdersCommand detaches every order currently assigned to an agent. Admin only.
type RemoveAgentOrdersCommand struct {
	agentID kernel.UUID
	actor   access.Actor

	guard guard.ConstructorGuard
}

func NewRemoveAgentOrdersCommand(agentID kernel.UUID, actor access.Actor) (RemoveAgentOrdersCommand, error) {
	if err := errors.Join(agentID.Validate(), actor.Validate()); err != nil {
		return RemoveAgentOrdersCommand{}, err
	}

	return RemoveAgentOrdersCommand{
		agentID: agentID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveAgentOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemoveAgentOrdersCommandIsNotConstructed)
}

func (c RemoveAgentOrdersCommand) AgentID() kernel.UUID { return c.agentID }
func (c RemoveAgentOrdersCommand) Actor() access.Actor  { return c.actor }

// RemoveAgentOrdersCommandHandler clears the agent and delivery status of the agent's
// orders in one bulk write. Primary statuses are left alone. The agent and the owner
// of every order the agent held are told after commit.
type RemoveAgentOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

func NewRemoveAgentOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) RemoveAgentOrdersCommandHandler {
	return RemoveAgentOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns how many orders were detached.
func (h RemoveAgentOrdersCommandHandler) Handle(ctx context.Context, command RemoveAgentOrdersCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	if err := access.RequireAdmin(command.Actor(), "remove agent orders"); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentID := command.AgentID()
	filter := ports.OrderFilter{AgentID: &agentID}
	orderRepo := uow.OrderRepository()

	held, err := orderRepo.Find(ctx, filter)
	if err != nil {
		return 0, err
	}

	affected, err := orderRepo.BulkUpdate(ctx, filter, ports.OrderPatch{ClearAgent: true}, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if affected > 0 {
		h.notifier.NotifyUser(ctx, agentID,
			fmt.Sprintf("%d orders were taken off your list", affected),
			"Orders removed",
		)
	}
	for _, o := range held {
		if owner := o.Owner(); owner != nil {
			h.notifier.NotifyUser(ctx, *owner,
				fmt.Sprintf("Order %s is waiting for a new delivery agent", o.ID()),
				"Agent removed",
			)
		}
	}

	return affected, nil
}

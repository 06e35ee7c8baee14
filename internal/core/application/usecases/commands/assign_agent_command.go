package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand hands an order to a delivery agent. Admin only.
//
// Example:
//
//	cmd, err := NewAssignAgentCommand(orderID, agentID, adminActor)
//	result, err := handler.Handle(ctx, cmd)
type AssignAgentCommand struct {
	orderID kernel.UUID
	agentID kernel.UUID
	actor   access.Actor

	guard guard.ConstructorGuard
}

func NewAssignAgentCommand(orderID, agentID kernel.UUID, actor access.Actor) (AssignAgentCommand, error) {
	if err := errors.Join(orderID.Validate(), agentID.Validate(), actor.Validate()); err != nil {
		return AssignAgentCommand{}, err
	}

	return AssignAgentCommand{
		orderID: orderID,
		agentID: agentID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

func (c AssignAgentCommand) OrderID() kernel.UUID { return c.orderID }
func (c AssignAgentCommand) AgentID() kernel.UUID { return c.agentID }
func (c AssignAgentCommand) Actor() access.Actor  { return c.actor }

package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrRespondToAssignmentCommandIsNotConstructed = errors.New(
	"RespondToAssignmentCommand must be created via NewRespondToAssignmentCommand constructor",
)

// RespondToAssignmentCommand carries an agent's accept or reject for an assigned order.
type RespondToAssignmentCommand struct {
	orderID  kernel.UUID
	decision order.AgentDecision
	actor    access.Actor

	guard guard.ConstructorGuard
}

// NewRespondToAssignmentCommand parses decision; anything but accept or reject fails
// with order.ErrInvalidDecision.
func NewRespondToAssignmentCommand(
	orderID kernel.UUID,
	decision string,
	actor access.Actor,
) (RespondToAssignmentCommand, error) {
	d, decisionErr := order.ParseAgentDecision(decision)

	if err := errors.Join(orderID.Validate(), decisionErr, actor.Validate()); err != nil {
		return RespondToAssignmentCommand{}, err
	}

	return RespondToAssignmentCommand{
		orderID:  orderID,
		decision: d,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RespondToAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAssignmentCommandIsNotConstructed)
}

func (c RespondToAssignmentCommand) OrderID() kernel.UUID          { return c.orderID }
func (c RespondToAssignmentCommand) Decision() order.AgentDecision { return c.decision }
func (c RespondToAssignmentCommand) Actor() access.Actor           { return c.actor }

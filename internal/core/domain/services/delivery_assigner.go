package services

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"
)

// ErrInvalidAgent is returned when the chosen assignee is missing or is not a delivery agent.
// It unwraps to errs.ErrValueIsInvalid.
var ErrInvalidAgent = errs.NewValueIsInvalidError("agent")

// DeliveryAssigner is a domain service applying the agent workflow to an order:
// who may receive an assignment and what each answer does to both state layers.
//
// Business rules:
//   - Only users with the delivery role can be assigned
//   - Assigning overwrites any previous agent and waits for a response
//   - Only the assigned agent may respond, and only while a response is awaited
//   - Accept leaves the primary status alone; reject sends the order back to pending
//
// Example usage:
//
//	assigner := services.NewDeliveryAssigner()
//	if err := assigner.Assign(o, agent, time.Now()); errors.Is(err, services.ErrInvalidAgent) {
//	    // agent is a customer or an admin
//	}
type DeliveryAssigner struct{}

func NewDeliveryAssigner() DeliveryAssigner {
	return DeliveryAssigner{}
}

// Assign hands o to agent.
//
// Returns:
//   - ErrInvalidAgent if agent is nil or not a delivery agent
//   - *errs.IllegalStateError if the order is already delivered or returned
func (d DeliveryAssigner) Assign(o *order.Order, agent *user.User, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := d.CheckAgent(agent); err != nil {
		return err
	}
	return o.AssignAgent(agent.ID(), now)
}

// CheckAgent returns ErrInvalidAgent unless agent is a loaded delivery agent.
// A nil agent stands for a user id that does not exist.
func (DeliveryAssigner) CheckAgent(agent *user.User) error {
	if agent == nil {
		return fmt.Errorf("%w: agent does not exist", ErrInvalidAgent)
	}
	if err := agent.Validate(); err != nil {
		return err
	}
	if !agent.IsAgent() {
		return fmt.Errorf("%w: user %s has role %s", ErrInvalidAgent, agent.ID(), agent.Role())
	}
	return nil
}

// Respond applies the agent's decision.
//
// Returns:
//   - *errs.ForbiddenError if agent is not the assigned agent
//   - *errs.IllegalStateError unless the assignment awaits a response
//
// A reject resets the order to pending even when it was already delivered or returned.
func (DeliveryAssigner) Respond(o *order.Order, agent access.Actor, decision order.AgentDecision, now time.Time) error {
	if err := errors.Join(o.Validate(), agent.Validate()); err != nil {
		return err
	}
	if err := access.RequireAssignedAgent(agent, o, "respond to assignment"); err != nil {
		return err
	}

	switch decision {
	case order.Accept:
		return o.AcceptAssignment(now)
	case order.Reject:
		return o.RejectAssignment(now)
	default:
		return fmt.Errorf("%w: %q", order.ErrInvalidDecision, string(decision))
	}
}

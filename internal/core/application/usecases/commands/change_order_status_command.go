package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand asks to move an order to another primary status.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, "in_delivery", actor)
//	if errors.Is(err, order.ErrInvalidStatus) {
//	    // unknown status identifier
//	}
type ChangeOrderStatusCommand struct {
	orderID kernel.UUID
	status  order.Status
	actor   access.Actor

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand parses the requested status; an unknown one fails with
// order.ErrInvalidStatus before the order is ever loaded.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	requestedStatus string,
	actor access.Actor,
) (ChangeOrderStatusCommand, error) {
	status, statusErr := order.ParseStatus(requestedStatus)

	if err := errors.Join(statusErr, orderID.Validate(), actor.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		status:  status,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c ChangeOrderStatusCommand) Status() order.Status { return c.status }
func (c ChangeOrderStatusCommand) Actor() access.Actor  { return c.actor }

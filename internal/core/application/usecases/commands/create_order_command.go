package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's new delivery request.
// The delivery fee is not part of the command: it is looked up from the province.
//
// Example:
//
//	addr, _ := kernel.NewAddress("بغداد", "Karrada 62")
//	cmd, err := NewCreateOrderCommand(ownerID, "Ali", "07701234567", addr, 10000, actor)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	ownerID      kernel.UUID
	customerName string
	phoneNumber  string
	address      kernel.Address
	price        kernel.Money
	actor        access.Actor

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every field and joins the failures.
func NewCreateOrderCommand(
	ownerID kernel.UUID,
	customerName string,
	phoneNumber string,
	address kernel.Address,
	price kernel.Money,
	actor access.Actor,
) (CreateOrderCommand, error) {
	c := CreateOrderCommand{
		customerName: strings.TrimSpace(customerName),
		phoneNumber:  strings.TrimSpace(phoneNumber),
		address:      address,
		price:        price,
		ownerID:      ownerID,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}

	var nameErr, phoneErr error
	if c.customerName == "" {
		nameErr = errs.NewValueIsRequiredError("customerName")
	}
	if c.phoneNumber == "" {
		phoneErr = errs.NewValueIsRequiredError("phoneNumber")
	}

	if err := errors.Join(
		ownerID.Validate(),
		nameErr,
		phoneErr,
		address.Validate(),
		price.Validate(),
		actor.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return c, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OwnerID() kernel.UUID    { return c.ownerID }
func (c CreateOrderCommand) CustomerName() string    { return c.customerName }
func (c CreateOrderCommand) PhoneNumber() string     { return c.phoneNumber }
func (c CreateOrderCommand) Address() kernel.Address { return c.address }
func (c CreateOrderCommand) Price() kernel.Money     { return c.price }
func (c CreateOrderCommand) Actor() access.Actor     { return c.actor }

package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"
)

// CreateOrderCommandHandler prices and stores a new order, then tells the admins.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, feeTable, notifier)
//	created, err := handler.Handle(ctx, cmd)
//	// created.TotalPrice() == cmd.Price() + feeTable.DeliveryFee(province)
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	fees       ports.FeeTable
	notifier   ports.Notifier
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	fees ports.FeeTable,
	notifier ports.Notifier,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		fees:       fees,
		notifier:   notifier,
	}
}

// Handle lets a customer create orders for themself and an admin for anyone.
// The owner must exist.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	if err := access.RequireSelfOrAdmin(command.Actor(), "create order", command.OwnerID()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.UserRepository().Get(ctx, command.OwnerID()); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(
		kernel.NewUUID(),
		command.OwnerID(),
		command.CustomerName(),
		command.PhoneNumber(),
		command.Address(),
		command.Price(),
		h.fees.DeliveryFee(command.Address().Province()),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.NotifyRole(ctx, user.Admin,
		fmt.Sprintf("New order %s from %s to %s, total %s", created.ID(), created.CustomerName(),
			created.Address().Province(), created.TotalPrice()),
		"New order",
	)

	return created, nil
}

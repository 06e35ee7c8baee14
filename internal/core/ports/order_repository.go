// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, the notifier and the delivery fee table.
package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderFilter selects orders for Find and the bulk writes. Zero fields do not filter.
//
// Example:
//
//	// every unassigned order of a customer
//	unassigned := false
//	filter := ports.OrderFilter{OwnerID: &customerID, Assigned: &unassigned}
type OrderFilter struct {
	OwnerID  *kernel.UUID
	AgentID  *kernel.UUID
	Statuses []order.Status

	// Assigned keeps orders with (true) or without (false) an agent.
	Assigned *bool
	// Owned keeps orders with (true) or without (false) an owning customer.
	Owned *bool
}

// OrderPatch is a bulk change applied by OrderRepository.BulkUpdate.
// Each flag keeps the order invariants: clearing the agent also resets the delivery status.
type OrderPatch struct {
	ClearAgent bool
	ClearOwner bool
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return !p.ClearAgent && !p.ClearOwner
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or returns *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Update writes the order only if the stored row still has the status and version
	// the order was loaded with. A lost race returns *errs.ConflictError and a vanished
	// row *errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes one order.
	Delete(ctx context.Context, id kernel.UUID) error

	// Find returns the matching orders, newest first.
	Find(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// BulkUpdate applies patch to every matching order, bumps their versions and
	// returns how many rows changed.
	BulkUpdate(ctx context.Context, filter OrderFilter, patch OrderPatch, now time.Time) (int64, error)

	// DeleteWhere removes every matching order and returns how many were removed.
	DeleteWhere(ctx context.Context, filter OrderFilter) (int64, error)
}

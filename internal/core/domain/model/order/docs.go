// Package order provides the Order aggregate and the two state machines layered on it.
//
// The package includes:
//   - Order: the aggregate root carrying pricing, ownership and assignment
//   - Status: the primary lifecycle, a forward-only state machine
//   - DeliveryStatus: the secondary agent-facing state, meaningful only while an agent is assigned
//
// Key business rules:
//   - totalPrice is price + deliveryPrice, computed once at creation
//   - Status follows Pending -> InDelivery -> Delivered | Returned | PartiallyDelivered | PartiallyReturned,
//     and partial statuses are reconciled into Delivered or Returned
//   - Delivered and Returned are terminal
//   - An order without an agent always has DeliveryNone
//   - Rejecting an assignment detaches the agent and returns the order to Pending
//
// Every mutation bumps the order's version once per unit of work; repositories use the
// version loaded with the order to reject writes that lost a race.
package order

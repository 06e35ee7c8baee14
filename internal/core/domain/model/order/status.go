package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidStatus is wrapped by every failure to parse or validate a Status.
// It unwraps to errs.ErrValueIsInvalid.
var ErrInvalidStatus = errs.NewValueIsInvalidError("status")

// Status is the primary, customer-visible lifecycle state of an order.
// Values are stable identifiers stored as-is; display labels live in the HTTP layer.
//
// State transitions:
//
//	Pending ──> InDelivery ──┬──> Delivered          (terminal)
//	                         ├──> Returned           (terminal)
//	                         ├──> PartiallyDelivered ──┐
//	                         └──> PartiallyReturned  ──┴──> Delivered | Returned
//
// Partial states are reconciled into one of the two terminal states.
type Status string

const (
	// Unknown is the zero value and never valid.
	Unknown Status = ""

	// Pending orders are waiting to be handed over for delivery.
	Pending Status = "pending"

	// InDelivery orders are out with (or waiting for) a delivery agent.
	InDelivery Status = "in_delivery"

	// Delivered is terminal.
	Delivered Status = "delivered"

	// Returned is terminal.
	Returned Status = "returned"

	// PartiallyDelivered means part of the parcel reached the customer.
	PartiallyDelivered Status = "partially_delivered"

	// PartiallyReturned means part of the parcel came back.
	PartiallyReturned Status = "partially_returned"
)

// transitions lists the statuses reachable from each non-terminal status.
var transitions = map[Status][]Status{
	Pending:            {InDelivery},
	InDelivery:         {Delivered, Returned, PartiallyDelivered, PartiallyReturned},
	PartiallyDelivered: {Delivered, Returned},
	PartiallyReturned:  {Delivered, Returned},
	Delivered:          nil,
	Returned:           nil,
}

// customerRequestable are the targets an owning customer may request without admin rights.
var customerRequestable = map[Status]bool{
	InDelivery: true,
	Delivered:  true,
	Returned:   true,
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, InDelivery, PartiallyDelivered, PartiallyReturned, Delivered, Returned}
}

// ParseStatus converts a stable identifier into a Status. Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if err := status.Validate(); err != nil {
		return Unknown, err
	}
	return status, nil
}

// Validate reports ErrInvalidStatus for anything outside the known set.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return fmt.Errorf("%w: %q is not a valid status", ErrInvalidStatus, string(s))
	}
	return nil
}

// String returns the stable identifier, or "unknown" for invalid values.
func (s Status) String() string {
	if s.Validate() != nil {
		return "unknown"
	}
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Returned
}

// IsPartial reports whether the status still awaits reconciliation.
func (s Status) IsPartial() bool {
	return s == PartiallyDelivered || s == PartiallyReturned
}

// IsCustomerRequestable reports whether an owning customer may request s as a target.
// Partial outcomes and their reconciliation are reserved for admins.
func (s Status) IsCustomerRequestable() bool {
	return customerRequestable[s]
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates target and returns it when reachable from s.
//
// Returns:
//   - (target, nil) on a legal transition
//   - ErrInvalidStatus if either status is outside the known set
//   - *errs.IllegalTransitionError if target is not reachable, including any change of a terminal status
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewIllegalTransitionError(s, target)
	}
	return target, nil
}

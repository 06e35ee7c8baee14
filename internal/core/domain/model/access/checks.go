package access

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"
)

// RequireAdmin allows admins only.
func RequireAdmin(a Actor, action string) error {
	if a.IsAdmin() {
		return nil
	}
	return errs.NewForbiddenError(action, "admin role required")
}

// RequireSelfOrAdmin allows admins and the user acting on their own account.
func RequireSelfOrAdmin(a Actor, action string, userID kernel.UUID) error {
	if a.IsAdmin() || a.Is(userID) {
		return nil
	}
	return errs.NewForbiddenError(action, "only the account holder or an admin may do this")
}

// RequireRoleGrant allows anyone to create customers, and admins to create every role.
func RequireRoleGrant(a *Actor, action string, role user.Role) error {
	if !role.IsPrivileged() {
		return nil
	}
	if a != nil && a.IsAdmin() {
		return nil
	}
	return errs.NewForbiddenError(action, fmt.Sprintf("only an admin may create %s accounts", role))
}

// RequireStatusChange allows admins any target, and the owning customer only the
// targets a customer may request. Reachability is checked by the order itself.
func RequireStatusChange(a Actor, o *order.Order, target order.Status) error {
	const action = "change order status"
	if a.IsAdmin() {
		return nil
	}
	if !o.IsOwnedBy(a.userID) {
		return errs.NewForbiddenError(action, "the order belongs to another customer")
	}
	if !target.IsCustomerRequestable() {
		return errs.NewForbiddenError(action, fmt.Sprintf("only an admin may set %s", target))
	}
	return nil
}

// RequireAssignedAgent allows only the agent currently holding the order.
func RequireAssignedAgent(a Actor, o *order.Order, action string) error {
	if o.IsAssignedTo(a.userID) {
		return nil
	}
	return errs.NewForbiddenError(action, "the order is not assigned to this agent")
}

// RequireOwnerOrAdmin allows admins and the owning customer.
func RequireOwnerOrAdmin(a Actor, o *order.Order, action string) error {
	if a.IsAdmin() || o.IsOwnedBy(a.userID) {
		return nil
	}
	return errs.NewForbiddenError(action, "the order belongs to another customer")
}

// RequireOrderVisible allows admins, the owning customer and the assigned agent.
// ownerID and agentID are nil for an orphaned or unassigned order.
func RequireOrderVisible(a Actor, ownerID, agentID *kernel.UUID) error {
	if a.IsAdmin() || (ownerID != nil && a.Is(*ownerID)) || (agentID != nil && a.Is(*agentID)) {
		return nil
	}
	return errs.NewForbiddenError("view order", "the order is neither owned by nor assigned to this user")
}

package user

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidRole is wrapped by failures to parse or validate a Role.
var ErrInvalidRole = errs.NewValueIsInvalidError("role")

// Role decides what an account may do with orders.
type Role string

const (
	// Customer places orders and follows their status. Stored as "user".
	Customer Role = "user"

	// Admin manages every order, agent and account.
	Admin Role = "admin"

	// Agent is a delivery agent that orders can be assigned to. Stored as "delivery".
	Agent Role = "delivery"
)

// AllRoles returns every valid role.
func AllRoles() []Role {
	return []Role{Customer, Admin, Agent}
}

// ParseRole is case-insensitive; an empty string means Customer, like a self sign-up.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Customer, nil
	}
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case Customer, Admin, Agent:
		return nil
	default:
		return fmt.Errorf("%w: %q is not a valid role", ErrInvalidRole, string(r))
	}
}

// IsPrivileged reports whether only an admin may grant the role.
func (r Role) IsPrivileged() bool {
	return r == Admin || r == Agent
}

func (r Role) String() string {
	return string(r)
}

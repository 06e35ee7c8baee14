// Package access reifies authorization as explicit capability checks.
//
// Every command and query receives the acting user as an Actor instead of reading it
// from request context. The checks return *errs.ForbiddenError so callers can
// tell authorization failures apart with errors.Is(err, errs.ErrForbidden).
package access

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when a zero Actor reaches a check.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor")

// Actor is the authenticated user an operation runs on behalf of.
type Actor struct {
	userID kernel.UUID
	role   user.Role
	guard  guard.ConstructorGuard
}

// NewActor builds an Actor from verified token claims or a loaded user.
func NewActor(userID kernel.UUID, role user.Role) (Actor, error) {
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// ActorOf returns the Actor for u.
func ActorOf(u *user.User) Actor {
	return Actor{userID: u.ID(), role: u.Role(), guard: guard.NewConstructorGuard()}
}

func (a Actor) UserID() kernel.UUID { return a.userID }
func (a Actor) Role() user.Role     { return a.role }

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) IsAdmin() bool {
	return a.role == user.Admin
}

func (a Actor) IsAgent() bool {
	return a.role == user.Agent
}

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(userID kernel.UUID) bool {
	return a.userID.IsEqual(userID)
}

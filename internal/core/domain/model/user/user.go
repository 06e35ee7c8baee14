package user

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrUserIsNotConstructed is returned for a User not built by NewUser or Restore.
var ErrUserIsNotConstructed = errors.New("User must be created via NewUser or Restore")

// User is an account: a customer, an admin or a delivery agent.
// The password is kept only as a hash computed outside the domain.
type User struct {
	id           kernel.UUID
	name         string
	phone        kernel.Phone
	location     string
	passwordHash string
	role         Role
	createdAt    time.Time
	updatedAt    time.Time

	guard guard.ConstructorGuard
}

// NewUser validates every field and joins the failures.
//
// Example:
//
//	u, err := user.NewUser(kernel.NewUUID(), "Sara", "07801234567", "Baghdad", hash, user.Agent, time.Now())
func NewUser(
	id kernel.UUID,
	name string,
	phone string,
	location string,
	passwordHash string,
	role Role,
	now time.Time,
) (*User, error) {
	u := &User{
		location:  strings.TrimSpace(location),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setPhone(phone),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
	); err != nil {
		return nil, err
	}
	return u, nil
}

// Snapshot is the flat state of a User.
type Snapshot struct {
	ID           kernel.UUID
	Name         string
	Phone        string
	Location     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Restore rebuilds a persisted user.
func Restore(s Snapshot) (*User, error) {
	u, err := NewUser(s.ID, s.Name, s.Phone, s.Location, s.PasswordHash, s.Role, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.updatedAt = s.UpdatedAt
	return u, nil
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:           u.id,
		Name:         u.name,
		Phone:        u.phone.String(),
		Location:     u.location,
		PasswordHash: u.passwordHash,
		Role:         u.role,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID      { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() kernel.Phone  { return u.phone }
func (u *User) Location() string     { return u.location }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsAgent reports whether orders may be assigned to the user.
func (u *User) IsAgent() bool {
	return u.role == Agent
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setPhone(raw string) error {
	phone, err := kernel.NewPhone(raw)
	if err != nil {
		return err
	}
	u.phone = phone
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}

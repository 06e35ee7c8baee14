package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// RegisterUserCommand creates an account. Self sign-up (nil actor) can only create customers.
type RegisterUserCommand struct {
	name     string
	phone    kernel.Phone
	location string
	password string
	role     user.Role
	actor    *access.Actor

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(
	name string,
	phone string,
	location string,
	password string,
	role user.Role,
	actor *access.Actor,
) (RegisterUserCommand, error) {
	p, phoneErr := kernel.NewPhone(phone)

	var nameErr, passwordErr, actorErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if len(password) < MinPasswordLength {
		passwordErr = errs.NewValueIsOutOfRangeError("password length", len(password), MinPasswordLength, "any")
	}
	if actor != nil {
		actorErr = actor.Validate()
	}

	if err := errors.Join(nameErr, phoneErr, passwordErr, role.Validate(), actorErr); err != nil {
		return RegisterUserCommand{}, err
	}

	return RegisterUserCommand{
		name:     strings.TrimSpace(name),
		phone:    p,
		location: location,
		password: password,
		role:     role,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) Name() string         { return c.name }
func (c RegisterUserCommand) Phone() kernel.Phone  { return c.phone }
func (c RegisterUserCommand) Location() string     { return c.location }
func (c RegisterUserCommand) Password() string     { return c.password }
func (c RegisterUserCommand) Role() user.Role      { return c.role }
func (c RegisterUserCommand) Actor() *access.Actor { return c.actor }

// RegisterUserCommandHandler hashes the password and stores the account.
// A phone number already in use surfaces as errs.ErrConflict from the repository.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

func NewRegisterUserCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{uowFactory: uowFactory, hasher: hasher}
}

func (h RegisterUserCommandHandler) Handle(ctx context.Context, command RegisterUserCommand) (*user.User, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	if err := access.RequireRoleGrant(command.Actor(), "register user", command.Role()); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(command.Password())
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(
		kernel.NewUUID(),
		command.Name(),
		command.Phone().String(),
		command.Location(),
		hash,
		command.Role(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.UserRepository().Add(ctx, u); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return u, nil
}

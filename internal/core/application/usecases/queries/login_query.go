package queries

import (
	"context"
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrLoginQueryIsNotConstructed = errors.New(
	"LoginQuery must be created via NewLoginQuery constructor",
)

// LoginQuery checks a phone and password pair.
type LoginQuery struct {
	phone    kernel.Phone
	password string

	guard guard.ConstructorGuard
}

func NewLoginQuery(phone, password string) (LoginQuery, error) {
	p, phoneErr := kernel.NewPhone(phone)

	var passwordErr error
	if strings.TrimSpace(password) == "" {
		passwordErr = errs.NewValueIsRequiredError("password")
	}
	if err := errors.Join(phoneErr, passwordErr); err != nil {
		return LoginQuery{}, err
	}
	return LoginQuery{phone: p, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (q LoginQuery) Validate() error {
	return q.guard.Validate(ErrLoginQueryIsNotConstructed)
}

// LoginQueryHandler resolves the account behind a phone and password. An unknown phone
// and a wrong password both return ErrInvalidCredentials.
type LoginQueryHandler struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewLoginQueryHandler(users ports.UserRepository, hasher ports.PasswordHasher) LoginQueryHandler {
	return LoginQueryHandler{users: users, hasher: hasher}
}

func (h LoginQueryHandler) Handle(ctx context.Context, query LoginQuery) (*user.User, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByPhone(ctx, query.phone)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err = h.hasher.Compare(u.PasswordHash(), query.password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

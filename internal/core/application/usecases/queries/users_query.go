package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrListUsersQueryIsNotConstructed = errors.New(
		"ListUsersQuery must be created via NewListUsersQuery constructor",
	)
	ErrGetUserQueryIsNotConstructed = errors.New(
		"GetUserQuery must be created via NewGetUserQuery constructor",
	)
)

// UserView is a user without the password hash.
type UserView struct {
	ID         kernel.UUID
	Name       string
	Phone      string
	Location   string
	Role       user.Role
	OrderCount int64
	CreatedAt  time.Time
}

const userViewSelect = `
	SELECT
		u.id,
		u.name,
		u.phone,
		COALESCE(u.location, ''),
		u.role,
		(SELECT COUNT(*) FROM orders o WHERE o.user_id = u.id),
		u.created_at
	FROM users u`

func scanUserView(row rowScanner) (UserView, error) {
	var (
		v    UserView
		id   uuid.UUID
		role string
	)
	if err := row.Scan(&id, &v.Name, &v.Phone, &v.Location, &role, &v.OrderCount, &v.CreatedAt); err != nil {
		return UserView{}, err
	}

	userID, err := kernel.FromGoogleUUID(id)
	if err != nil {
		return UserView{}, err
	}
	v.ID = userID
	v.Role = user.Role(role)
	return v, nil
}

// ListUsersQuery lists accounts for an admin, optionally of one role.
type ListUsersQuery struct {
	actor access.Actor
	role  user.Role

	guard guard.ConstructorGuard
}

// NewListUsersQuery accepts an empty role for "all roles".
func NewListUsersQuery(actor access.Actor, role string) (ListUsersQuery, error) {
	var (
		r       user.Role
		roleErr error
	)
	if role != "" {
		r = user.Role(role)
		roleErr = r.Validate()
	}
	if err := errors.Join(actor.Validate(), roleErr); err != nil {
		return ListUsersQuery{}, err
	}
	return ListUsersQuery{actor: actor, role: r, guard: guard.NewConstructorGuard()}, nil
}

func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

type ListUsersQueryHandler struct {
	db *gorm.DB
}

func NewListUsersQueryHandler(db *gorm.DB) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db}
}

func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := access.RequireAdmin(query.actor, "list users"); err != nil {
		return nil, err
	}

	sqlText := userViewSelect
	args := make([]any, 0, 1)
	if query.role != "" {
		sqlText += ` WHERE u.role = ?`
		args = append(args, string(query.role))
	}
	sqlText += ` ORDER BY u.name, u.id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := make([]UserView, 0)
	for rows.Next() {
		v, scanErr := scanUserView(rows)
		if scanErr != nil {
			return nil, storeError("list users", scanErr)
		}
		users = append(users, v)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// GetUserQuery reads one account; admins read anyone, users themselves.
type GetUserQuery struct {
	userID kernel.UUID
	actor  access.Actor

	guard guard.ConstructorGuard
}

func NewGetUserQuery(userID kernel.UUID, actor access.Actor) (GetUserQuery, error) {
	if err := errors.Join(userID.Validate(), actor.Validate()); err != nil {
		return GetUserQuery{}, err
	}
	return GetUserQuery{userID: userID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

type GetUserQueryHandler struct {
	db *gorm.DB
}

func NewGetUserQueryHandler(db *gorm.DB) GetUserQueryHandler {
	return GetUserQueryHandler{db: db}
}

func (h GetUserQueryHandler) Handle(ctx context.Context, query GetUserQuery) (UserView, error) {
	if err := query.Validate(); err != nil {
		return UserView{}, err
	}
	if err := access.RequireSelfOrAdmin(query.actor, "view user", query.userID); err != nil {
		return UserView{}, err
	}

	row := h.db.WithContext(ctx).Raw(userViewSelect+` WHERE u.id = ?`, query.userID.Google()).Row()
	v, err := scanUserView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserView{}, errs.NewObjectNotFoundError("user", query.userID.String())
		}
		return UserView{}, storeError("get user", err)
	}
	return v, nil
}

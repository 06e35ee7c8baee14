package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery reads the actor's inbox: messages sent to them and to their role.
type ListNotificationsQuery struct {
	actor access.Actor
	limit int

	guard guard.ConstructorGuard
}

func NewListNotificationsQuery(actor access.Actor, limit int) (ListNotificationsQuery, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}

	var limitErr error
	if limit < 1 || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if err := errors.Join(actor.Validate(), limitErr); err != nil {
		return ListNotificationsQuery{}, err
	}
	return ListNotificationsQuery{actor: actor, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

type ListNotificationsQueryHandler struct {
	inbox ports.NotificationRepository
}

func NewListNotificationsQueryHandler(inbox ports.NotificationRepository) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{inbox: inbox}
}

func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]ports.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.inbox.ListFor(ctx, query.actor.UserID(), query.actor.Role(), query.limit)
}

package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetStatsQueryIsNotConstructed = errors.New(
	"GetStatsQuery must be created via NewGetStatsQuery constructor",
)

// GetStatsQuery asks for dashboard counters. An admin gets global numbers, or the numbers
// of one customer when userID is set; everybody else gets the numbers of their own orders.
type GetStatsQuery struct {
	actor  access.Actor
	userID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetStatsQuery(actor access.Actor, userID *kernel.UUID) (GetStatsQuery, error) {
	var userErr error
	if userID != nil {
		userErr = userID.Validate()
	}
	if err := errors.Join(actor.Validate(), userErr); err != nil {
		return GetStatsQuery{}, err
	}
	return GetStatsQuery{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatsQueryIsNotConstructed)
}

// Stats holds order counts per status; the user counters are only filled for global admin stats.
type Stats struct {
	ByStatus        map[order.Status]int64
	TotalOrders     int64
	TotalUsers      int64
	UsersWithOrders int64
}

type GetStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetStatsQueryHandler(db *gorm.DB) GetStatsQueryHandler {
	return GetStatsQueryHandler{db: db}
}

func (h GetStatsQueryHandler) Handle(ctx context.Context, query GetStatsQuery) (Stats, error) {
	if err := query.Validate(); err != nil {
		return Stats{}, err
	}

	actor := query.actor
	if query.userID != nil && !actor.IsAdmin() && !actor.Is(*query.userID) {
		return Stats{}, errs.NewForbiddenError("view stats", "only admins can see other users' stats")
	}

	where, args := orderScope(actor)
	global := actor.IsAdmin() && query.userID == nil
	if actor.IsAdmin() && query.userID != nil {
		where, args = "o.user_id = ?", []any{query.userID.Google()}
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := h.db.WithContext(ctx).Raw(`
		SELECT o.status AS status, COUNT(*) AS total
		FROM orders o
		WHERE `+where+`
		GROUP BY o.status`, args...).Scan(&rows).Error; err != nil {
		return Stats{}, storeError("count orders by status", err)
	}

	stats := Stats{ByStatus: make(map[order.Status]int64, len(order.AllStatuses()))}
	for _, s := range order.AllStatuses() {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.ByStatus[order.Status(row.Status)] = row.Total
		stats.TotalOrders += row.Total
	}

	if !global {
		return stats, nil
	}

	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers).Error; err != nil {
		return Stats{}, storeError("count users", err)
	}

	if err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT user_id)
		FROM orders
		WHERE user_id IS NOT NULL`).Scan(&stats.UsersWithOrders).Error; err != nil {
		return Stats{}, storeError("count users with orders", err)
	}

	return stats, nil
}

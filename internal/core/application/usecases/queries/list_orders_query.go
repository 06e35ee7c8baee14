package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through the orders visible to the actor, newest first.
// An empty status list means every status; a zero limit means DefaultPageSize.
//
// Example:
//
//	query, err := NewListOrdersQuery(actor, []string{"pending", "in_delivery"}, 20, 0)
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d orders\n", len(page.Items), page.Total)
type ListOrdersQuery struct {
	actor    access.Actor
	statuses []order.Status
	limit    int
	offset   int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor access.Actor, statuses []string, limit, offset int) (ListOrdersQuery, error) {
	parsed := make([]order.Status, 0, len(statuses))
	statusErrs := make([]error, 0)
	for _, raw := range statuses {
		s, err := order.ParseStatus(raw)
		if err != nil {
			statusErrs = append(statusErrs, err)
			continue
		}
		parsed = append(parsed, s)
	}

	if limit == 0 {
		limit = DefaultPageSize
	}

	var limitErr, offsetErr error
	if limit < 1 || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "any")
	}

	if err := errors.Join(actor.Validate(), errors.Join(statusErrs...), limitErr, offsetErr); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		actor:    actor,
		statuses: parsed,
		limit:    limit,
		offset:   offset,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() access.Actor      { return q.actor }
func (q ListOrdersQuery) Statuses() []order.Status { return q.statuses }
func (q ListOrdersQuery) Limit() int               { return q.limit }
func (q ListOrdersQuery) Offset() int              { return q.offset }

// OrdersPage is one page of a listing plus the number of matching orders.
type OrdersPage struct {
	Items []OrderView
	Total int64
}

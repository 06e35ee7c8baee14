package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads a page of orders scoped to the actor.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (OrdersPage, error) {
	if err := query.Validate(); err != nil {
		return OrdersPage{}, err
	}

	where, args := orderScope(query.Actor())
	if len(query.Statuses()) > 0 {
		statuses := make([]string, 0, len(query.Statuses()))
		for _, s := range query.Statuses() {
			statuses = append(statuses, string(s))
		}
		where += " AND o.status = ANY(?)"
		args = append(args, pq.Array(statuses))
	}

	var total int64
	if err := h.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM orders o WHERE `+where, args...).
		Scan(&total).Error; err != nil {
		return OrdersPage{}, storeError("count orders", err)
	}

	rows, err := h.db.WithContext(ctx).Raw(`SELECT`+orderViewColumns+orderViewFrom+`
		WHERE `+where+`
		ORDER BY o.created_at DESC, o.id
		LIMIT ? OFFSET ?`, append(args, query.Limit(), query.Offset())...).Rows()
	if err != nil {
		return OrdersPage{}, storeError("list orders", err)
	}
	defer rows.Close()

	page := OrdersPage{Items: make([]OrderView, 0), Total: total}
	for rows.Next() {
		view, scanErr := scanOrderView(rows)
		if scanErr != nil {
			return OrdersPage{}, storeError("list orders", scanErr)
		}
		page.Items = append(page.Items, view)
	}

	if err = rows.Err(); err != nil {
		return OrdersPage{}, storeError("list orders", err)
	}

	return page, nil
}

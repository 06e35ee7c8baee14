package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler returns one order to an admin, its owner or its assigned agent.
// Anyone else gets *errs.ForbiddenError, even though the order exists.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	row := h.db.WithContext(ctx).Raw(`SELECT`+orderViewColumns+orderViewFrom+`
		WHERE o.id = ?`, query.OrderID().Google()).Row()

	view, err := scanOrderView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return OrderView{}, storeError("get order", err)
	}

	if err = access.RequireOrderVisible(query.Actor(), view.OwnerID, view.AgentID); err != nil {
		return OrderView{}, err
	}

	return view, nil
}

package queries

import (
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderView is the read model of an order, joined with the assigned agent's name.
type OrderView struct {
	ID             kernel.UUID
	OwnerID        *kernel.UUID
	CustomerName   string
	PhoneNumber    string
	Province       string
	Address        string
	Price          kernel.Money
	DeliveryPrice  kernel.Money
	TotalPrice     kernel.Money
	Status         order.Status
	AgentID        *kernel.UUID
	AgentName      string
	DeliveryStatus order.DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const orderViewColumns = `
	o.id,
	o.user_id,
	o.customer_name,
	o.phone_number,
	o.province,
	o.address,
	o.price,
	o.delivery_price,
	o.total_price,
	o.status,
	o.delivery_id,
	COALESCE(d.name, ''),
	o.delivery_status,
	o.created_at,
	o.updated_at`

const orderViewFrom = `
	FROM orders o
	LEFT JOIN users d ON d.id = o.delivery_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderView(row rowScanner) (OrderView, error) {
	var (
		v                         OrderView
		id                        uuid.UUID
		ownerID, agentID          *uuid.UUID
		price, deliveryPrice, tot int64
		status, deliveryStatus    string
	)

	if err := row.Scan(
		&id,
		&ownerID,
		&v.CustomerName,
		&v.PhoneNumber,
		&v.Province,
		&v.Address,
		&price,
		&deliveryPrice,
		&tot,
		&status,
		&agentID,
		&v.AgentName,
		&deliveryStatus,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return OrderView{}, err
	}

	orderID, err := kernel.FromGoogleUUID(id)
	if err != nil {
		return OrderView{}, err
	}
	v.ID = orderID

	if v.OwnerID, err = optionalUUID(ownerID); err != nil {
		return OrderView{}, err
	}
	if v.AgentID, err = optionalUUID(agentID); err != nil {
		return OrderView{}, err
	}

	v.Price = kernel.Money(price)
	v.DeliveryPrice = kernel.Money(deliveryPrice)
	v.TotalPrice = kernel.Money(tot)
	v.Status = order.Status(status)
	v.DeliveryStatus = order.DeliveryStatus(deliveryStatus)
	return v, nil
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // NULL column
	}
	id, err := kernel.FromGoogleUUID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// orderScope restricts order rows to what the actor may read: admins see every order,
// agents the orders assigned to them, customers their own.
func orderScope(a access.Actor) (string, []any) {
	switch {
	case a.IsAdmin():
		return "TRUE", nil
	case a.IsAgent():
		return "o.delivery_id = ?", []any{a.UserID().Google()}
	default:
		return "o.user_id = ?", []any{a.UserID().Google()}
	}
}

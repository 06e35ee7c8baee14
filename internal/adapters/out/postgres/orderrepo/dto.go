// Package orderrepo persists order aggregates with GORM.
// Statuses and delivery statuses are stored as their lower-case identifiers, money as whole dinars.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName   string     `gorm:"type:varchar(255);not null"`
	PhoneNumber    string     `gorm:"type:varchar(32);not null"`
	Province       string     `gorm:"type:varchar(100);not null"`
	Address        string     `gorm:"type:text;not null"`
	Price          int64      `gorm:"not null"`
	DeliveryPrice  int64      `gorm:"not null"`
	TotalPrice     int64      `gorm:"not null"`
	Status         string     `gorm:"type:varchar(32);not null;index"`
	DeliveryID     *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryStatus string     `gorm:"type:varchar(32);not null"`
	Version        int        `gorm:"not null;default:0"`
	CreatedAt      time.Time  `gorm:"autoCreateTime:false;index"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:             s.ID.Google(),
		UserID:         toNullable(s.OwnerID),
		CustomerName:   s.CustomerName,
		PhoneNumber:    s.PhoneNumber,
		Province:       s.Province,
		Address:        s.Street,
		Price:          s.Price.Int64(),
		DeliveryPrice:  s.DeliveryPrice.Int64(),
		TotalPrice:     s.TotalPrice.Int64(),
		Status:         string(s.Status),
		DeliveryID:     toNullable(s.AgentID),
		DeliveryStatus: string(s.DeliveryStatus),
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// toDomain rebuilds the aggregate through order.Restore, so a row breaking an
// invariant fails here.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.FromGoogleUUID(dto.ID)
	if err != nil {
		return nil, err
	}

	ownerID, err := fromNullable(dto.UserID)
	if err != nil {
		return nil, err
	}

	agentID, err := fromNullable(dto.DeliveryID)
	if err != nil {
		return nil, err
	}

	return order.Restore(order.Snapshot{
		ID:             id,
		OwnerID:        ownerID,
		CustomerName:   dto.CustomerName,
		PhoneNumber:    dto.PhoneNumber,
		Province:       dto.Province,
		Street:         dto.Address,
		Price:          kernel.Money(dto.Price),
		DeliveryPrice:  kernel.Money(dto.DeliveryPrice),
		TotalPrice:     kernel.Money(dto.TotalPrice),
		Status:         order.Status(dto.Status),
		AgentID:        agentID,
		DeliveryStatus: order.DeliveryStatus(dto.DeliveryStatus),
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
		Version:        dto.Version,
	})
}

func toNullable(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Google()
	return &raw
}

func fromNullable(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // NULL column
	}
	id, err := kernel.FromGoogleUUID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db, which may be a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("order", aggregate.ID().String(), err)
		}
		return pgerr.Wrap("add order", err)
	}

	aggregate.MarkPersisted()
	return nil
}

// Update writes every mutable column, guarded by the status and version the order was
// loaded with:
//
//	UPDATE orders SET ... WHERE id = ? AND status = ? AND version = ?
//
// When no row matches, a second lookup tells a lost race (*errs.ConflictError) from a
// deleted order (*errs.ObjectNotFoundError).
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND version = ?",
			dto.ID, string(aggregate.PersistedStatus()), aggregate.PersistedVersion()).
		Updates(map[string]any{
			"user_id":         dto.UserID,
			"status":          dto.Status,
			"delivery_id":     dto.DeliveryID,
			"delivery_status": dto.DeliveryStatus,
			"version":         dto.Version,
			"updated_at":      dto.UpdatedAt,
		})
	if result.Error != nil {
		return pgerr.Wrap("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	aggregate.MarkPersisted()
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Wrap("get order", err)
	}

	return toDomain(dto)
}

// Delete removes one order.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Google())
	if result.Error != nil {
		return pgerr.Wrap("delete order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// Find returns the matching orders, newest first.
func (r *GormOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := applyFilter(r.db.WithContext(ctx).Model(&OrderDTO{}), filter).
		Order("created_at DESC").
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Wrap("find orders", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// BulkUpdate applies patch to every matching order in one statement. Each touched row
// gets a new version so in-flight conditional updates on it fail with a conflict.
func (r *GormOrderRepository) BulkUpdate(
	ctx context.Context,
	filter ports.OrderFilter,
	patch ports.OrderPatch,
	now time.Time,
) (int64, error) {
	if patch.IsEmpty() {
		return 0, nil
	}

	changes := map[string]any{
		"version":    gorm.Expr("version + 1"),
		"updated_at": now,
	}
	if patch.ClearAgent {
		changes["delivery_id"] = nil
		changes["delivery_status"] = string(order.DeliveryNone)
	}
	if patch.ClearOwner {
		changes["user_id"] = nil
	}

	result := applyFilter(r.db.WithContext(ctx).Model(&OrderDTO{}), filter).Updates(changes)
	if result.Error != nil {
		return 0, pgerr.Wrap("bulk update orders", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteWhere removes every matching order. GORM refuses an unfiltered delete.
func (r *GormOrderRepository) DeleteWhere(ctx context.Context, filter ports.OrderFilter) (int64, error) {
	result := applyFilter(r.db.WithContext(ctx), filter).Delete(&OrderDTO{})
	if result.Error != nil {
		return 0, pgerr.Wrap("delete orders", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) exists(ctx context.Context, id kernel.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Google()).Count(&n).Error; err != nil {
		return false, pgerr.Wrap("check order", err)
	}
	return n > 0, nil
}

func applyFilter(q *gorm.DB, f ports.OrderFilter) *gorm.DB {
	if f.OwnerID != nil {
		q = q.Where("user_id = ?", f.OwnerID.Google())
	}
	if f.AgentID != nil {
		q = q.Where("delivery_id = ?", f.AgentID.Google())
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status = ANY(?)", pq.Array(statuses))
	}
	if f.Assigned != nil {
		if *f.Assigned {
			q = q.Where("delivery_id IS NOT NULL")
		} else {
			q = q.Where("delivery_id IS NULL")
		}
	}
	if f.Owned != nil {
		if *f.Owned {
			q = q.Where("user_id IS NOT NULL")
		} else {
			q = q.Where("user_id IS NULL")
		}
	}
	return q
}

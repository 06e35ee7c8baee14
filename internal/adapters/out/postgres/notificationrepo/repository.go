// Package notificationrepo stores the notification inbox.
package notificationrepo

import (
	"context"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO is one inbox row, addressed either to a user or to a role.
type NotificationDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	Role      *string    `gorm:"type:varchar(16);index"`
	Title     string     `gorm:"type:varchar(255);not null"`
	Message   string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false;index"`
}

func (NotificationDTO) TableName() string {
	return "notification_log"
}

// GormNotificationRepository implements ports.NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n ports.Notification) error {
	dto := NotificationDTO{
		ID:        n.ID.Google(),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.UserID != nil {
		id := n.UserID.Google()
		dto.UserID = &id
	}
	if n.Role != nil {
		role := string(*n.Role)
		dto.Role = &role
	}

	return pgerr.Wrap("add notification", r.db.WithContext(ctx).Create(&dto).Error)
}

// ListFor returns the newest notifications addressed to userID or to role.
func (r *GormNotificationRepository) ListFor(
	ctx context.Context,
	userID kernel.UUID,
	role user.Role,
	limit int,
) ([]ports.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? OR role = ?", userID.Google(), string(role)).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []NotificationDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, pgerr.Wrap("list notifications", err)
	}

	out := make([]ports.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&NotificationDTO{})
	if result.Error != nil {
		return 0, pgerr.Wrap("purge notifications", result.Error)
	}
	return result.RowsAffected, nil
}

func toDomain(dto NotificationDTO) (ports.Notification, error) {
	id, err := kernel.FromGoogleUUID(dto.ID)
	if err != nil {
		return ports.Notification{}, err
	}

	n := ports.Notification{ID: id, Title: dto.Title, Message: dto.Message, CreatedAt: dto.CreatedAt}
	if dto.UserID != nil {
		userID, idErr := kernel.FromGoogleUUID(*dto.UserID)
		if idErr != nil {
			return ports.Notification{}, idErr
		}
		n.UserID = &userID
	}
	if dto.Role != nil {
		role := user.Role(*dto.Role)
		n.Role = &role
	}
	return n, nil
}

package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
)

// Notifier sends fire-and-forget messages. Implementations must not block the caller
// on delivery and must not report failures: they log them.
type Notifier interface {
	NotifyUser(ctx context.Context, userID kernel.UUID, message, title string)
	NotifyRole(ctx context.Context, role user.Role, message, title string)
}

// Notification is one message as stored in a user's inbox.
// Exactly one of UserID and Role is set.
type Notification struct {
	ID        kernel.UUID
	UserID    *kernel.UUID
	Role      *user.Role
	Title     string
	Message   string
	CreatedAt time.Time
}

// NotificationRepository keeps the inbox written by the notification dispatcher.
type NotificationRepository interface {
	Add(ctx context.Context, n Notification) error

	// ListFor returns the notifications addressed to userID or to role, newest first.
	ListFor(ctx context.Context, userID kernel.UUID, role user.Role, limit int) ([]Notification, error)

	// DeleteOlderThan purges notifications created before cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

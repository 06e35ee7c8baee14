package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrPurgeNotificationsCommandIsNotConstructed = errors.New(
	"PurgeNotificationsCommand must be created via NewPurgeNotificationsCommand constructor",
)

// PurgeNotificationsCommand drops inbox entries older than a retention window.
type PurgeNotificationsCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewPurgeNotificationsCommand keeps everything created within retention before now.
func NewPurgeNotificationsCommand(now time.Time, retention time.Duration) (PurgeNotificationsCommand, error) {
	if now.IsZero() {
		return PurgeNotificationsCommand{}, errs.NewValueIsRequiredError("now")
	}
	if retention <= 0 {
		return PurgeNotificationsCommand{}, errs.NewValueIsOutOfRangeError("retention", retention, "1ns", "any")
	}
	return PurgeNotificationsCommand{cutoff: now.Add(-retention), guard: guard.NewConstructorGuard()}, nil
}

func (c PurgeNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeNotificationsCommandIsNotConstructed)
}

func (c PurgeNotificationsCommand) Cutoff() time.Time { return c.cutoff }

type PurgeNotificationsCommandHandler struct {
	inbox ports.NotificationRepository
}

func NewPurgeNotificationsCommandHandler(inbox ports.NotificationRepository) PurgeNotificationsCommandHandler {
	return PurgeNotificationsCommandHandler{inbox: inbox}
}

// Handle returns the number of removed notifications.
func (h PurgeNotificationsCommandHandler) Handle(ctx context.Context, command PurgeNotificationsCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}
	return h.inbox.DeleteOlderThan(ctx, command.cutoff)
}

package notify

import (
	"context"

	"orderflow/internal/core/ports"
)

// InboxChannel stores every message so users can read it later.
type InboxChannel struct {
	repo ports.NotificationRepository
}

func NewInboxChannel(repo ports.NotificationRepository) *InboxChannel {
	return &InboxChannel{repo: repo}
}

func (c *InboxChannel) Name() string { return "inbox" }

func (c *InboxChannel) Deliver(ctx context.Context, msg Message) error {
	return c.repo.Add(ctx, ports.Notification{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Role:      msg.Role,
		Title:     msg.Title,
		Message:   msg.Body,
		CreatedAt: msg.CreatedAt,
	})
}

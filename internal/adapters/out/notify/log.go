package notify

import (
	"context"
	"log/slog"
)

// LogChannel writes messages to the structured log. It is the only channel in
// development setups without a database inbox or a bot token.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger.With("component", "notification_log")}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Deliver(ctx context.Context, msg Message) error {
	attrs := []any{"id", msg.ID.String(), "title", msg.Title, "message", msg.Body}
	if msg.UserID != nil {
		attrs = append(attrs, "user_id", msg.UserID.String())
	}
	if msg.Role != nil {
		attrs = append(attrs, "role", msg.Role.String())
	}
	c.logger.InfoContext(ctx, "Notification", attrs...)
	return nil
}

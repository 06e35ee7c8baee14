// Package notify delivers order notifications after the writing transaction commits.
// The Dispatcher fans every message out to its channels on a detached goroutine, so a
// slow or failing channel never delays or fails the operation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
)

// DefaultTimeout bounds one fan-out when the dispatcher is built with a zero timeout.
const DefaultTimeout = 10 * time.Second

// Message is one notification, addressed either to a user or to every user of a role.
type Message struct {
	ID        kernel.UUID
	UserID    *kernel.UUID
	Role      *user.Role
	Title     string
	Body      string
	CreatedAt time.Time
}

// Channel is one delivery medium.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// Dispatcher implements ports.Notifier.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	wg sync.WaitGroup
}

func NewDispatcher(logger *slog.Logger, timeout time.Duration, channels ...Channel) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		logger:   logger.With("component", "notifier"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) NotifyUser(ctx context.Context, userID kernel.UUID, message, title string) {
	d.dispatch(ctx, Message{UserID: &userID, Title: title, Body: message})
}

func (d *Dispatcher) NotifyRole(ctx context.Context, role user.Role, message, title string) {
	d.dispatch(ctx, Message{Role: &role, Title: title, Body: message})
}

// Wait blocks until every dispatched message has been handed to all channels.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, msg Message) {
	msg.ID = kernel.NewUUID()
	msg.CreatedAt = d.now()

	// the request context is cancelled once the response is written
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		for _, ch := range d.channels {
			if err := ch.Deliver(sendCtx, msg); err != nil {
				d.logger.WarnContext(sendCtx, "Notification delivery failed",
					"channel", ch.Name(),
					"title", msg.Title,
					"error", err,
				)
			}
		}
	}()
}

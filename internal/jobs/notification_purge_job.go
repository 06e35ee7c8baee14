package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the purge once a night.
const DefaultPurgeSchedule = "0 0 3 * * *"

// NotificationPurgeJob drops inbox entries older than the retention window.
type NotificationPurgeJob struct {
	handler   commands.PurgeNotificationsCommandHandler
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

func NewNotificationPurgeJob(
	handler commands.PurgeNotificationsCommandHandler,
	retention time.Duration,
	schedule string,
	logger *slog.Logger,
) *NotificationPurgeJob {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &NotificationPurgeJob{
		handler:   handler,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "notification_purge_job"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the purge with the cron scheduler and starts it.
func (j *NotificationPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification purge job started",
		"schedule", j.schedule,
		"retention", j.retention.String(),
	)
	return nil
}

// Stop waits for a running purge to finish.
func (j *NotificationPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification purge job stopped")
}

func (j *NotificationPurgeJob) run() {
	ctx := context.Background()

	cmd, err := commands.NewPurgeNotificationsCommand(j.now(), j.retention)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification purge job misconfigured", "error", err)
		return
	}

	removed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification purge job failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "Old notifications purged", "removed", removed, "cutoff", cmd.Cutoff())
	}
}

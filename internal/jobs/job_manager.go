package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	notificationPurgeJob *NotificationPurgeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	purgeHandler commands.PurgeNotificationsCommandHandler,
	retention time.Duration,
	purgeSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationPurgeJob: NewNotificationPurgeJob(purgeHandler, retention, purgeSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationPurgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification purge job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationPurgeJob.Stop()
}

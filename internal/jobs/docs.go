// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and run
// outside the request path. They only call command handlers.
//
// # Available Jobs
//
// NotificationPurgeJob deletes inbox notifications older than the configured
// retention, by default every night at 03:00.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(purgeHandler, 30*24*time.Hour, "", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Failed runs are logged and retried on the next tick.
package jobs

// Package jobs provides scheduled background tasks for the order workflow.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations of the marketplace.
//
// # Available Jobs
//
// 1. DeadlineSweepJob - Scans for orders past their delivery deadline and
// publishes an order.late event per overdue order.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required jobs
//	jobManager := jobs.NewJobManager(deadlineSweepJob)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep schedule is a standard five-field cron expression taken from
// configuration; the default runs hourly. Lateness is time-derived, so
// sweeping more often than once a minute buys nothing.
//
// # Error Handling
//
// Sweep and publish failures are logged and never abort the job: the next
// run re-evaluates lateness from scratch, so a missed sweep self-heals.
package jobs

package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	deadlineSweepJob *DeadlineSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(deadlineSweepJob *DeadlineSweepJob) *JobManager {
	return &JobManager{
		deadlineSweepJob: deadlineSweepJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.deadlineSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start deadline sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.deadlineSweepJob.Stop()
}

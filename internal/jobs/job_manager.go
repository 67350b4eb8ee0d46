package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	autoAssignJob *AutoAssignJob
}

// NewJobManager creates a new job manager owning the auto-assign job.
func NewJobManager(autoAssignJob *AutoAssignJob) *JobManager {
	return &JobManager{autoAssignJob: autoAssignJob}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoAssignJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto-assign job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.autoAssignJob.Stop()
}

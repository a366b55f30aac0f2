package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	offerExpiryJob          *OfferExpiryJob
	driverReconciliationJob *DriverReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(offerExpiryJob *OfferExpiryJob, driverReconciliationJob *DriverReconciliationJob) *JobManager {
	return &JobManager{
		offerExpiryJob:          offerExpiryJob,
		driverReconciliationJob: driverReconciliationJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.offerExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer expiry job: %w", err)
	}

	if err := jm.driverReconciliationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.offerExpiryJob.Stop()
		return fmt.Errorf("failed to start driver reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.driverReconciliationJob.Stop()
	jm.offerExpiryJob.Stop()
}

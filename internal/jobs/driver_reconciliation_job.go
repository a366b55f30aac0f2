package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"multistop/internal/core/application/usecases/commands"
)

type driverReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileDriversCommand) (int, error)
}

// DriverReconciliationJob releases drivers left OFFERING for orders that no
// longer offer to them.
type DriverReconciliationJob struct {
	handler    driverReconciler
	schedule   string
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewDriverReconciliationJob creates a job that runs the reconciler on a cron
// schedule. Overlapping runs are skipped.
//
// Parameters:
//   - handler: the reconciliation handler
//   - schedule: cron expression, for example "@every 1m"
//   - staleAfter: age below which a driver state is left alone
//   - logger: structured logger, defaults to slog.Default
//
// Example:
//
//	job := NewDriverReconciliationJob(handler, "@every 1m", 2*time.Minute, logger)
//	if err := job.Start(); err != nil {
//	    return err
//	}
//	defer job.Stop()
func NewDriverReconciliationJob(
	handler driverReconciler,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *DriverReconciliationJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DriverReconciliationJob{
		handler:    handler,
		schedule:   schedule,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.With("component", "driver_reconciliation_job"),
	}
}

// Run performs a single reconciliation pass and returns how many drivers
// were released.
func (j *DriverReconciliationJob) Run(ctx context.Context) (int, error) {
	cmd, err := commands.NewReconcileDriversCommand(j.staleAfter)
	if err != nil {
		return 0, err
	}

	released, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Driver reconciliation failed", "error", err)
		return released, err
	}
	if released > 0 {
		j.logger.InfoContext(ctx, "Released stuck drivers", "count", released)
	}
	return released, nil
}

// Start schedules Run. It fails on an invalid schedule.
func (j *DriverReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Driver reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running pass to return.
func (j *DriverReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Driver reconciliation job stopped")
}

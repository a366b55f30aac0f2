package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"multistop/internal/core/application/usecases/commands"
)

// DefaultSweepLimit bounds how many orders one sweep tick looks at.
const DefaultSweepLimit = 100

type offerSweeper interface {
	Handle(ctx context.Context, cmd commands.SweepOffersCommand) (commands.SweepReport, error)
}

// OfferExpiryJob periodically expires offers whose window closed and
// re-dispatches PENDING orders that have no offer.
type OfferExpiryJob struct {
	handler  offerSweeper
	schedule string
	limit    int
	clock    commands.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOfferExpiryJob creates the sweep job. A non-positive limit falls back to
// DefaultSweepLimit and a nil clock to time.Now.
//
// Example:
//
//	job := NewOfferExpiryJob(handler, "@every 10s", DefaultSweepLimit, nil, logger)
//	if err := job.Start(); err != nil {
//		return err
//	}
//	defer job.Stop()
func NewOfferExpiryJob(
	handler offerSweeper,
	schedule string,
	limit int,
	clock commands.Clock,
	logger *slog.Logger,
) *OfferExpiryJob {
	if limit <= 0 {
		limit = DefaultSweepLimit
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferExpiryJob{
		handler:  handler,
		schedule: schedule,
		limit:    limit,
		clock:    clock,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "offer_expiry_job"),
	}
}

// Run performs a single sweep and logs its report. A sweep that found nothing
// is logged at debug level.
func (j *OfferExpiryJob) Run(ctx context.Context) (commands.SweepReport, error) {
	cmd, err := commands.NewSweepOffersCommand(j.clock(), j.limit)
	if err != nil {
		return commands.SweepReport{}, err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Offer sweep failed", "error", err)
		return report, err
	}

	if report.Expired+report.Offered+report.Failed > 0 {
		j.logger.InfoContext(ctx, "Offer sweep finished",
			"expired", report.Expired, "offered", report.Offered, "failed", report.Failed)
	} else {
		j.logger.DebugContext(ctx, "Offer sweep found nothing to do")
	}
	return report, nil
}

// Start schedules Run.
func (j *OfferExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to return.
func (j *OfferExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}

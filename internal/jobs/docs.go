// Package jobs provides scheduled background tasks for the dispatch engine.
//
// Jobs are cron-based (github.com/robfig/cron/v3). Overlapping ticks are
// skipped, so a slow sweep never runs twice at once.
//
// # Available Jobs
//
// 1. OfferExpiryJob - expires offers whose window closed (an implicit refusal) and re-dispatches
// PENDING orders without an offer
// 2. DriverReconciliationJob - releases drivers stuck in OFFERING for an order that no longer offers to them
//
// # Usage
//
//	sweep := jobs.NewOfferExpiryJob(sweepHandler, "@every 10s", jobs.DefaultSweepLimit, time.Now, logger)
//	reconcile := jobs.NewDriverReconciliationJob(reconcileHandler, "@every 1m", time.Minute, logger)
//	jobManager := jobs.NewJobManager(sweep, reconcile)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Each job also exposes Run for a single pass, which the sweep CLI command uses.
//
// # Error Handling
//
// - Per-order sweep failures are counted in the report and logged by the handler
// - A failed pass is logged at ERROR; the next tick runs as usual
// - Failed job starts will stop any already running jobs
package jobs

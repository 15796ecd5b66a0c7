// Package jobs provides scheduled background tasks for the fulfillment core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the delivery service.
//
// # Available Jobs
//
// 1. DispatchRetryJob - Periodically re-dispatches orders that are still in
// the ready state, picking up orders that found no eligible drone when they
// first became ready.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(readyOrdersHandler, dispatchHandler, "*/15 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule is a six-field cron expression (with seconds). The sweep is
// idempotent: dispatch claims drones with conditional updates, so a sweep
// overlapping an event-triggered dispatch for the same order resolves to a
// single assignment.
//
// # Error Handling
//
//   - The retry job treats "no drone available" and "order awaits payment"
//     as expected outcomes and stays quiet about them
//   - All other errors are logged; the sweep moves on to the next order
//   - A failed job start stops any already running jobs
package jobs

package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/commands"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/queries"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DispatchRetryJob periodically sweeps orders stuck in the ready state and
// re-runs dispatch for each. Orders usually get dispatched the moment they
// become ready; this sweep catches the ones that found no eligible drone at
// that moment.
type DispatchRetryJob struct {
	readyOrders     queries.GetReadyOrderIDsQueryHandler
	dispatchHandler commands.DispatchOrderCommandHandler
	cron            *cron.Cron
	schedule        string
	logger          *slog.Logger
}

// NewDispatchRetryJob creates the sweep job. The schedule is a cron
// expression with a seconds field, e.g. "*/15 * * * * *".
func NewDispatchRetryJob(
	readyOrders queries.GetReadyOrderIDsQueryHandler,
	dispatchHandler commands.DispatchOrderCommandHandler,
	schedule string,
	logger *slog.Logger,
) *DispatchRetryJob {
	return &DispatchRetryJob{
		readyOrders:     readyOrders,
		dispatchHandler: dispatchHandler,
		cron:            cron.New(cron.WithSeconds()),
		schedule:        schedule,
		logger:          logger.With("component", "dispatch_retry_job"),
	}
}

// Start begins the periodic sweep.
func (j *DispatchRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.sweep)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch retry job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep. Already running iterations finish on their own.
func (j *DispatchRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch retry job stopped")
}

func (j *DispatchRetryJob) sweep() {
	ctx := context.Background()

	readyOrders, err := j.readyOrders.Handle(ctx, queries.NewGetReadyOrderIDsQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Ready order scan failed", "error", err)
		return
	}

	for _, readyOrder := range readyOrders {
		cmd, err := commands.NewDispatchOrderCommand(readyOrder.ID)
		if err != nil {
			j.logger.ErrorContext(ctx, "Dispatch command rejected",
				"order_id", readyOrder.ID, "error", err)
			continue
		}

		if err := j.dispatchHandler.Handle(ctx, cmd); err != nil {
			// A fleet-wide drone shortage and unpaid gateway orders are
			// expected here; both resolve themselves before a later sweep.
			if errors.Is(err, services.ErrNoDroneAvailable) ||
				errors.Is(err, commands.ErrOrderAwaitsPayment) {
				continue
			}
			j.logger.ErrorContext(ctx, "Dispatch retry failed",
				"order_id", readyOrder.ID, "error", err)
		}
	}
}

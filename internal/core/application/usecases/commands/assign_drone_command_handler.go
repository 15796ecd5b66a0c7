package commands

import (
	"context"
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
)

// AssignDroneCommandHandler performs a manual drone assignment.
//
// Same shape as the automatic dispatch: claim the drone first through the
// conditional update, then record the assignment on the order, releasing
// the claim when the order side fails.
type AssignDroneCommandHandler struct {
	uowFactory OrderUoWFactory
	droneRepo  ports.DroneRepository
	notifier   ports.Notifier
}

// NewAssignDroneCommandHandler creates a handler for manual assignments.
func NewAssignDroneCommandHandler(
	uowFactory OrderUoWFactory,
	droneRepo ports.DroneRepository,
	notifier ports.Notifier,
) AssignDroneCommandHandler {
	return AssignDroneCommandHandler{
		uowFactory: uowFactory,
		droneRepo:  droneRepo,
		notifier:   notifier,
	}
}

// Handle processes the manual assignment.
//
// Returns:
//   - errs.ErrConflict when the drone is no longer free to claim
//   - order.ErrInvalidTransition when the order is not ready
//   - ErrOrderAwaitsPayment when a gateway order is not paid yet
func (h AssignDroneCommandHandler) Handle(ctx context.Context, cmd AssignDroneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() != order.Ready {
		return order.NewInvalidTransitionError(aggregate.Status(), order.Assigned)
	}

	// Manual assignment honors the same payment gate as automatic dispatch;
	// an operator cannot launch an unpaid gateway order.
	if aggregate.RequiresPaymentBeforeDispatch() {
		return ErrOrderAwaitsPayment
	}

	if err = h.droneRepo.Claim(ctx, cmd.DroneID(), cmd.OrderID()); err != nil {
		return err
	}

	err = aggregate.AssignDrone(cmd.DroneID(), time.Now().UTC())
	if err == nil {
		err = orderRepo.UpdateStatusGuarded(ctx, aggregate, order.Ready)
	}
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		if releaseErr := h.droneRepo.Release(ctx, cmd.DroneID(), cmd.OrderID()); releaseErr != nil {
			return errors.Join(err, releaseErr)
		}
		return err
	}

	_ = h.notifier.Emit(ctx, ports.EventDroneAssigned, DroneAssignedEvent{
		OrderID: cmd.OrderID().String(),
		DroneID: cmd.DroneID().String(),
	})
	return nil
}

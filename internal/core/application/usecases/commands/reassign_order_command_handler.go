package commands

import (
	"context"
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

var ErrOrderHasNoDrone = errors.New("order has no assigned drone")

// DroneReassignedEvent is the payload published when an order moves to a
// replacement drone.
type DroneReassignedEvent struct {
	OrderID     string `json:"order_id"`
	FromDroneID string `json:"from_drone_id"`
	ToDroneID   string `json:"to_drone_id"`
	Reason      string `json:"reason"`
}

// ReassignOrderCommandHandler swaps the drone on an assigned order.
//
// Claim order: the replacement first, the release last. A failed claim
// leaves the order untouched on its current drone; only once the order
// points at the replacement is the original freed.
type ReassignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	droneRepo  ports.DroneRepository
	notifier   ports.Notifier
}

// NewReassignOrderCommandHandler creates a handler for drone swaps.
func NewReassignOrderCommandHandler(
	uowFactory OrderUoWFactory,
	droneRepo ports.DroneRepository,
	notifier ports.Notifier,
) ReassignOrderCommandHandler {
	return ReassignOrderCommandHandler{
		uowFactory: uowFactory,
		droneRepo:  droneRepo,
		notifier:   notifier,
	}
}

// Handle processes the swap.
//
// Returns:
//   - order.ErrInvalidTransition when the order is not in assigned status
//   - ErrOrderHasNoDrone when the order carries no drone to replace
//   - errs.ErrConflict when the named current drone no longer holds the
//     order, or when the replacement drone cannot be claimed
func (h ReassignOrderCommandHandler) Handle(ctx context.Context, cmd ReassignOrderCommand) error {
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
	if aggregate.Status() != order.Assigned {
		return order.NewInvalidTransitionError(aggregate.Status(), order.Assigned)
	}

	fromDrone := aggregate.Drone()
	if fromDrone == nil {
		return ErrOrderHasNoDrone
	}
	// The operator named the drone they expect to be replacing. When the
	// pairing moved underneath them, reject rather than swap blind.
	if !fromDrone.IsEqual(cmd.FromDroneID()) {
		return errs.NewConflictError("fromDroneID", cmd.FromDroneID().String())
	}
	if fromDrone.IsEqual(cmd.ToDroneID()) {
		return nil
	}

	if err = h.droneRepo.Claim(ctx, cmd.ToDroneID(), cmd.OrderID()); err != nil {
		return err
	}

	err = aggregate.ReplaceDrone(cmd.ToDroneID())
	if err == nil {
		err = orderRepo.UpdateStatusGuarded(ctx, aggregate, order.Assigned)
	}
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		if releaseErr := h.droneRepo.Release(ctx, cmd.ToDroneID(), cmd.OrderID()); releaseErr != nil {
			return errors.Join(err, releaseErr)
		}
		return err
	}

	// The order now points at the replacement; free the original. A failure
	// here leaves the old drone paired in storage and is surfaced for the
	// operator to retry.
	if err = h.droneRepo.Release(ctx, *fromDrone, cmd.OrderID()); err != nil {
		return err
	}

	_ = h.notifier.Emit(ctx, ports.EventDroneReassigned, DroneReassignedEvent{
		OrderID:     cmd.OrderID().String(),
		FromDroneID: fromDrone.String(),
		ToDroneID:   cmd.ToDroneID().String(),
		Reason:      cmd.Reason(),
	})
	return nil
}

package commands

import (
	"context"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/services"
)

// DispatchTrigger requests an asynchronous dispatch attempt for an order
// that just became ready. Implementations must not block: the transition
// commits regardless of whether dispatch later finds a drone.
type DispatchTrigger interface {
	Trigger(orderID kernel.UUID)
}

// TransitionOrderCommandHandler moves an order along its lifecycle.
//
// The capability policy decides whether the actor owns the requested edge,
// the aggregate decides whether the edge is legal, and the conditional
// update decides the race against concurrent writers. When the order enters
// ready, a dispatch attempt is triggered asynchronously.
//
// Delivery edges also move the paired drone: delivering starts its flight,
// delivered returns it to the available pool.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.TransitionPolicy
	dispatch   DispatchTrigger
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	policy services.TransitionPolicy,
	dispatch DispatchTrigger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		dispatch:   dispatch,
	}
}

// Handle processes the transition command.
//
// Returns:
//   - errs.ErrForbidden when the actor's role lacks the edge
//   - order.ErrInvalidTransition when the state machine rejects the edge
//   - errs.ErrConflict when a concurrent writer moved the order first
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	if err = h.policy.Allows(cmd.Actor(), aggregate, cmd.To()); err != nil {
		return err
	}

	fromStatus := aggregate.Status()
	droneID := aggregate.Drone()

	if err = aggregate.TransitionTo(cmd.To(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.UpdateStatusGuarded(ctx, aggregate, fromStatus); err != nil {
		return err
	}

	if droneID != nil {
		if err = h.moveDrone(ctx, uow, *droneID, cmd.To()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if cmd.To() == order.Ready && h.dispatch != nil {
		h.dispatch.Trigger(cmd.OrderID())
	}

	return nil
}

// moveDrone applies the drone-side effect of a delivery edge.
func (h TransitionOrderCommandHandler) moveDrone(
	ctx context.Context,
	uow UoW,
	droneID kernel.UUID,
	to order.Status,
) error {
	if to != order.Delivering && to != order.Delivered {
		return nil
	}

	droneRepo := uow.DroneRepository()
	aggregate, err := droneRepo.Get(ctx, droneID)
	if err != nil {
		return err
	}

	if to == order.Delivering {
		err = aggregate.StartDelivery()
	} else {
		err = aggregate.CompleteDelivery()
	}
	if err != nil {
		return err
	}

	return droneRepo.Update(ctx, aggregate)
}

package commands

import (
	"context"
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/services"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// ErrOrderAwaitsPayment is returned when dispatch runs against a
// gateway-paid order whose payment has not settled yet. Soft condition:
// the retry job tries again after the payment notification lands.
var ErrOrderAwaitsPayment = errors.New("order awaits payment confirmation")

// DroneAssignedEvent is the payload published when an order gets its drone.
type DroneAssignedEvent struct {
	OrderID string `json:"order_id"`
	DroneID string `json:"drone_id"`
}

// AssignmentRejectedEvent is the payload published when a dispatch attempt
// could not produce an assignment.
type AssignmentRejectedEvent struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// DispatchOrderCommandHandler matches a ready order with the best eligible
// drone nearby.
//
// The drone claim runs outside the order's transaction as its own
// conditional update, so two dispatchers racing for one drone see exactly
// one winner. When the order-side update then fails, the claim is rolled
// back by releasing the drone before the error is reported.
//
// A per-order single-flight lock keeps the cron scan and the
// transition-triggered attempt from duplicating work; the lock is an
// optimization, the conditional updates carry correctness.
type DispatchOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	droneRepo  ports.DroneRepository
	dispatcher services.DroneDispatcher
	droneIndex ports.DroneIndex
	lock       ports.DispatchLock
	notifier   ports.Notifier
	radiusKm   float64
}

// NewDispatchOrderCommandHandler creates a handler for dispatch attempts.
// radiusKm bounds the geospatial shortlist around the pickup point.
func NewDispatchOrderCommandHandler(
	uowFactory OrderUoWFactory,
	droneRepo ports.DroneRepository,
	dispatcher services.DroneDispatcher,
	droneIndex ports.DroneIndex,
	lock ports.DispatchLock,
	notifier ports.Notifier,
	radiusKm float64,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		droneRepo:  droneRepo,
		dispatcher: dispatcher,
		droneIndex: droneIndex,
		lock:       lock,
		notifier:   notifier,
		radiusKm:   radiusKm,
	}
}

// Handle processes one dispatch attempt.
//
// Returns:
//   - nil when a drone was assigned, or when another dispatcher holds the
//     order's lock, or when the order is no longer ready
//   - ErrOrderAwaitsPayment when a gateway order is not paid yet
//   - services.ErrNoDroneAvailable when no eligible drone could be claimed
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	acquired, err := h.lock.Acquire(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}

	defer func() {
		_ = h.lock.Release(ctx, cmd.OrderID())
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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

	// A cancel or a competing dispatcher may have moved the order since
	// it was scheduled. Nothing to do then.
	if aggregate.Status() != order.Ready {
		return nil
	}

	if aggregate.RequiresPaymentBeforeDispatch() {
		return ErrOrderAwaitsPayment
	}

	ranked, err := h.rankCandidates(ctx, aggregate)
	if err != nil {
		if errors.Is(err, services.ErrNoDroneAvailable) {
			h.emitRejected(ctx, cmd, err)
		}
		return err
	}

	for _, candidate := range ranked {
		claimErr := h.droneRepo.Claim(ctx, candidate.Drone.ID(), cmd.OrderID())
		if errors.Is(claimErr, errs.ErrConflict) {
			continue
		}
		if claimErr != nil {
			return claimErr
		}

		if err = h.assignClaimed(ctx, uow, aggregate, candidate.Drone); err != nil {
			return err
		}

		_ = h.notifier.Emit(ctx, ports.EventDroneAssigned, DroneAssignedEvent{
			OrderID: cmd.OrderID().String(),
			DroneID: candidate.Drone.ID().String(),
		})
		return nil
	}

	h.emitRejected(ctx, cmd, services.ErrNoDroneAvailable)
	return services.ErrNoDroneAvailable
}

// rankCandidates shortlists drones around the pickup point and ranks them.
// Index hits without a backing row are skipped: the index is a cache over
// telemetry, the repository is the source of truth.
func (h DispatchOrderCommandHandler) rankCandidates(
	ctx context.Context,
	aggregate *order.Order,
) ([]services.Candidate, error) {
	nearby, err := h.droneIndex.NearbyDrones(ctx, aggregate.PickupLocation(), h.radiusKm)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, 0, len(nearby))
	for _, hit := range nearby {
		found, getErr := h.droneRepo.Get(ctx, hit.ID)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			continue
		}
		if getErr != nil {
			return nil, getErr
		}

		candidates = append(candidates, services.Candidate{
			Drone:      found,
			DistanceKm: hit.DistanceKm,
		})
	}

	return h.dispatcher.SelectCandidates(aggregate, candidates)
}

// assignClaimed records the assignment on the order side. When that fails,
// the already-claimed drone is released so it does not stay paired with an
// order that never reached assigned.
func (h DispatchOrderCommandHandler) assignClaimed(
	ctx context.Context,
	uow OrderUoW,
	aggregate *order.Order,
	claimed *drone.Drone,
) error {
	err := aggregate.AssignDrone(claimed.ID(), time.Now().UTC())
	if err == nil {
		err = uow.OrderRepository().UpdateStatusGuarded(ctx, aggregate, order.Ready)
	}
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		if releaseErr := h.droneRepo.Release(ctx, claimed.ID(), aggregate.ID()); releaseErr != nil {
			return errors.Join(err, releaseErr)
		}
		return err
	}

	return nil
}

func (h DispatchOrderCommandHandler) emitRejected(
	ctx context.Context,
	cmd DispatchOrderCommand,
	reason error,
) {
	_ = h.notifier.Emit(ctx, ports.EventAssignmentRejected, AssignmentRejectedEvent{
		OrderID: cmd.OrderID().String(),
		Reason:  reason.Error(),
	})
}

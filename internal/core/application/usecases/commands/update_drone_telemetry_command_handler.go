package commands

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
)

// UpdateDroneTelemetryCommandHandler persists a telemetry report and keeps
// the geospatial index in step with it.
type UpdateDroneTelemetryCommandHandler struct {
	uowFactory DroneUoWFactory
	droneIndex ports.DroneIndex
}

// NewUpdateDroneTelemetryCommandHandler creates a handler for telemetry
// reports.
func NewUpdateDroneTelemetryCommandHandler(
	uowFactory DroneUoWFactory,
	droneIndex ports.DroneIndex,
) UpdateDroneTelemetryCommandHandler {
	return UpdateDroneTelemetryCommandHandler{
		uowFactory: uowFactory,
		droneIndex: droneIndex,
	}
}

// Handle processes one telemetry report. The index upsert runs after the
// commit; reports arrive continuously, so a failed upsert is repaired by
// the next one.
func (h UpdateDroneTelemetryCommandHandler) Handle(ctx context.Context, cmd UpdateDroneTelemetryCommand) error {
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

	droneRepo := uow.DroneRepository()

	aggregate, err := droneRepo.Get(ctx, cmd.DroneID())
	if err != nil {
		return err
	}

	if err = aggregate.UpdateTelemetry(cmd.Location(), cmd.BatteryLevel()); err != nil {
		return err
	}

	if err = droneRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.droneIndex.Upsert(ctx, cmd.DroneID(), cmd.Location())
}

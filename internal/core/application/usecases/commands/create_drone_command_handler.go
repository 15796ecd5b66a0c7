package commands

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"
)

// CreateDroneCommandHandler handles the business logic for drone registration.
// New drones start available with a full battery and are added to the
// geospatial index so dispatch can find them immediately.
type CreateDroneCommandHandler struct {
	uowFactory DroneUoWFactory
	droneIndex ports.DroneIndex
}

// NewCreateDroneCommandHandler creates a handler for drone registration.
// Requires a DroneUoWFactory for persistence and the geospatial index.
func NewCreateDroneCommandHandler(
	uowFactory DroneUoWFactory,
	droneIndex ports.DroneIndex,
) CreateDroneCommandHandler {
	return CreateDroneCommandHandler{
		uowFactory: uowFactory,
		droneIndex: droneIndex,
	}
}

// Handle processes the drone registration command. The index upsert runs
// after commit; a failure there is returned but the registration stands,
// since the next telemetry report repairs the index.
func (h *CreateDroneCommandHandler) Handle(ctx context.Context, cmd CreateDroneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := drone.NewDrone(cmd.DroneID(), cmd.Serial(), cmd.Location(), cmd.MaxRangeKm())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DroneRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.droneIndex.Upsert(ctx, cmd.DroneID(), cmd.Location())
}

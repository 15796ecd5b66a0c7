package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var ErrUpdateDroneTelemetryCommandIsNotConstructed = errors.New(
	"UpdateDroneTelemetryCommand must be created via NewUpdateDroneTelemetryCommand constructor",
)

// UpdateDroneTelemetryCommand records a position/battery report from a
// drone. Reports feed the geospatial index that dispatch shortlists from.
type UpdateDroneTelemetryCommand struct { //nolint:recvcheck //using for validation
	droneID      kernel.UUID
	location     kernel.Location
	batteryLevel int

	guard guard.ConstructorGuard
}

// NewUpdateDroneTelemetryCommand creates a command from a telemetry report.
func NewUpdateDroneTelemetryCommand(
	droneID kernel.UUID,
	location kernel.Location,
	batteryLevel int,
) (UpdateDroneTelemetryCommand, error) {
	telemetryCommand := UpdateDroneTelemetryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		telemetryCommand.setDroneID(droneID),
		telemetryCommand.setLocation(location),
		telemetryCommand.setBatteryLevel(batteryLevel),
	); err != nil {
		return UpdateDroneTelemetryCommand{}, err
	}

	return telemetryCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateDroneTelemetryCommandIsNotConstructed if validation fails.
func (c UpdateDroneTelemetryCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDroneTelemetryCommandIsNotConstructed)
}

// DroneID returns the reporting drone.
func (c UpdateDroneTelemetryCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Location returns the reported position.
func (c UpdateDroneTelemetryCommand) Location() kernel.Location {
	return c.location
}

// BatteryLevel returns the reported battery level in percent.
func (c UpdateDroneTelemetryCommand) BatteryLevel() int {
	return c.batteryLevel
}

func (c *UpdateDroneTelemetryCommand) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.droneID = droneID
	return nil
}

func (c *UpdateDroneTelemetryCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *UpdateDroneTelemetryCommand) setBatteryLevel(batteryLevel int) error {
	if batteryLevel < drone.BatteryMin || batteryLevel > drone.BatteryMax {
		return errs.NewValueIsOutOfRangeError("battery level", batteryLevel, drone.BatteryMin, drone.BatteryMax)
	}

	c.batteryLevel = batteryLevel
	return nil
}

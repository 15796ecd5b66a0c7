package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrCreateDroneCommandIsNotConstructed = errors.New(
		"CreateDroneCommand must be created via NewCreateDroneCommand constructor",
	)
	ErrDroneSerialIsRequired = errors.New("drone serial is required")
	ErrMaxRangeIsInvalid     = errors.New("max range must be greater than 0")
)

// CreateDroneCommand represents a request to register a new delivery drone
// at a home location with a dispatch range.
type CreateDroneCommand struct { //nolint:recvcheck //using for validation
	droneID    kernel.UUID
	serial     string
	location   kernel.Location
	maxRangeKm float64

	guard guard.ConstructorGuard
}

// NewCreateDroneCommand creates a command to register a new drone.
// Validates the identifier, serial number, location and range.
func NewCreateDroneCommand(
	droneID kernel.UUID,
	serial string,
	location kernel.Location,
	maxRangeKm float64,
) (CreateDroneCommand, error) {
	droneCommand := CreateDroneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		droneCommand.setDroneID(droneID),
		droneCommand.setSerial(serial),
		droneCommand.setLocation(location),
		droneCommand.setMaxRangeKm(maxRangeKm),
	); err != nil {
		return CreateDroneCommand{}, err
	}

	return droneCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateDroneCommandIsNotConstructed if validation fails.
func (c CreateDroneCommand) Validate() error {
	return c.guard.Validate(ErrCreateDroneCommandIsNotConstructed)
}

// DroneID returns the unique identifier for the drone.
func (c CreateDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Serial returns the drone's serial number.
func (c CreateDroneCommand) Serial() string {
	return c.serial
}

// Location returns the drone's home location.
func (c CreateDroneCommand) Location() kernel.Location {
	return c.location
}

// MaxRangeKm returns the drone's dispatch range in kilometers.
func (c CreateDroneCommand) MaxRangeKm() float64 {
	return c.maxRangeKm
}

func (c *CreateDroneCommand) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.droneID = droneID
	return nil
}

func (c *CreateDroneCommand) setSerial(serial string) error {
	if serial == "" {
		return ErrDroneSerialIsRequired
	}

	c.serial = serial
	return nil
}

func (c *CreateDroneCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateDroneCommand) setMaxRangeKm(maxRangeKm float64) error {
	if maxRangeKm <= 0 {
		return ErrMaxRangeIsInvalid
	}

	c.maxRangeKm = maxRangeKm
	return nil
}

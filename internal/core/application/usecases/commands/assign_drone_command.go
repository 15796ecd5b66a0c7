package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var ErrAssignDroneCommandIsNotConstructed = errors.New(
	"AssignDroneCommand must be created via NewAssignDroneCommand constructor",
)

// AssignDroneCommand represents an operator pairing a specific drone with a
// ready order, bypassing the automatic candidate ranking. The claim still
// goes through the same conditional update, so an operator cannot steal a
// drone another order just won.
type AssignDroneCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	droneID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDroneCommand creates a command for a manual drone assignment.
func NewAssignDroneCommand(orderID kernel.UUID, droneID kernel.UUID) (AssignDroneCommand, error) {
	assignCommand := AssignDroneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setDroneID(droneID),
	); err != nil {
		return AssignDroneCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignDroneCommandIsNotConstructed if validation fails.
func (c AssignDroneCommand) Validate() error {
	return c.guard.Validate(ErrAssignDroneCommandIsNotConstructed)
}

// OrderID returns the order to pair.
func (c AssignDroneCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DroneID returns the operator-chosen drone.
func (c AssignDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

func (c *AssignDroneCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDroneCommand) setDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.droneID = droneID
	return nil
}

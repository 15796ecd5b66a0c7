package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrReassignOrderCommandIsNotConstructed = errors.New(
		"ReassignOrderCommand must be created via NewReassignOrderCommand constructor",
	)
	ErrReassignReasonIsRequired = errors.New("reassign reason is required")
)

// ReassignOrderCommand swaps the drone on an assigned order, e.g. when the
// claimed drone reports a fault before takeoff. The operator names both
// sides of the swap: the drone they believe holds the order and its
// replacement. A mismatch on the current drone means the operator acted on
// stale fleet state and the swap is rejected. The replacement is claimed
// first; only then is the original released, so a failure leaves the order
// untouched on its current drone.
type ReassignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	fromDroneID kernel.UUID
	toDroneID   kernel.UUID
	reason      string

	guard guard.ConstructorGuard
}

// NewReassignOrderCommand creates a command to move an order from one drone
// onto another. The reason is recorded in the published event for the audit
// trail.
func NewReassignOrderCommand(
	orderID kernel.UUID,
	fromDroneID kernel.UUID,
	toDroneID kernel.UUID,
	reason string,
) (ReassignOrderCommand, error) {
	reassignCommand := ReassignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		reassignCommand.setOrderID(orderID),
		reassignCommand.setFromDroneID(fromDroneID),
		reassignCommand.setToDroneID(toDroneID),
		reassignCommand.setReason(reason),
	); err != nil {
		return ReassignOrderCommand{}, err
	}

	return reassignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReassignOrderCommandIsNotConstructed if validation fails.
func (c ReassignOrderCommand) Validate() error {
	return c.guard.Validate(ErrReassignOrderCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c ReassignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// FromDroneID returns the drone the operator expects to hold the order.
func (c ReassignOrderCommand) FromDroneID() kernel.UUID {
	return c.fromDroneID
}

// ToDroneID returns the replacement drone.
func (c ReassignOrderCommand) ToDroneID() kernel.UUID {
	return c.toDroneID
}

// Reason returns the operator-supplied reason for the swap.
func (c ReassignOrderCommand) Reason() string {
	return c.reason
}

func (c *ReassignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReassignOrderCommand) setFromDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.fromDroneID = droneID
	return nil
}

func (c *ReassignOrderCommand) setToDroneID(droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	c.toDroneID = droneID
	return nil
}

func (c *ReassignOrderCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReassignReasonIsRequired
	}

	c.reason = reason
	return nil
}

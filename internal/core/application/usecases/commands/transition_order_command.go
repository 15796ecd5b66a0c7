package commands

import (
	"errors"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/actor"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request by an actor to move an order
// to a new status: a restaurant confirming, preparing or readying it, a
// customer cancelling, an admin doing either.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(caller, orderID, order.Confirmed)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrForbidden):
//	    // the caller's role lacks this edge
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // the state machine rejects the edge
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID
	to      order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// The target status must be a defined status; whether the edge is legal is
// decided against the stored order at handling time.
func NewTransitionOrderCommand(
	a actor.Actor,
	orderID kernel.UUID,
	to order.Status,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setActor(a),
		transitionCommand.setOrderID(orderID),
		transitionCommand.setTo(to),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// Actor returns the caller requesting the transition.
func (c TransitionOrderCommand) Actor() actor.Actor {
	return c.actor
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the target status.
func (c TransitionOrderCommand) To() order.Status {
	return c.to
}

func (c *TransitionOrderCommand) setActor(a actor.Actor) error {
	if err := a.Role.Validate(); err != nil {
		return err
	}
	if err := a.ID.Validate(); err != nil {
		return err
	}

	c.actor = a
	return nil
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	c.to = to
	return nil
}

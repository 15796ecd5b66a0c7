package order

import (
	"errors"
	"fmt"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a fixed transition table so orders
// always follow the fulfillment workflow.
//
// State transitions:
//
//	pending ──> confirmed ──> preparing ──> ready ──> assigned ──> delivering ──> delivered
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──> cancelled
//
// No other edges exist. delivered and cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first placed.
	Pending

	// Confirmed indicates the restaurant has accepted the order.
	Confirmed

	// Preparing indicates the restaurant is preparing the order.
	Preparing

	// Ready indicates the order is packed and waiting for a drone.
	// Entering this status makes the order eligible for dispatch.
	Ready

	// Assigned indicates a drone has been atomically claimed for the order.
	Assigned

	// Delivering indicates the drone is en route to the customer.
	Delivering

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before a drone took off.
	// Reachable only from pending, confirmed, preparing and ready. Terminal.
	Cancelled
)

// ErrInvalidTransition is the sentinel for rejected status transitions.
// Use errors.Is to classify; the concrete *InvalidTransitionError carries
// the offending edge.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError reports a (from, to) pair that is not in the
// transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Preparing:  "preparing",
		Ready:      "ready",
		Assigned:   "assigned",
		Delivering: "delivering",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// getTransitionTable returns the complete set of allowed edges.
// Every transition request is checked against exactly this table.
func getTransitionTable() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Confirmed, Cancelled},
		Confirmed:  {Preparing, Cancelled},
		Preparing:  {Ready, Cancelled},
		Ready:      {Assigned, Cancelled},
		Assigned:   {Delivering},
		Delivering: {Delivered},
	}
}

// StatusFromString parses a status from its wire representation.
// Returns an error for unknown names and for "unknown" itself.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "ready", ...).
// Implements fmt.Stringer; safe on any value, invalid ones read "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the edge (s, next) is in the transition table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitionTable()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo applies the edge (s, next).
//
// Returns:
//   - (next, nil) when the edge is in the table
//   - (0, *InvalidTransitionError) otherwise, including any transition out
//     of a terminal status and cancellation of delivering/delivered orders
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := errors.Join(s.Validate(), next.Validate()); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(next) {
		return 0, NewInvalidTransitionError(s, next)
	}
	return next, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveDrone validates the consistency between order status and
// drone assignment: a drone is paired iff the order is assigned or delivering.
func (s Status) ValidateCanHaveDrone(drone bool) error {
	if drone && s != Assigned && s != Delivering {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a drone", s))
	}

	if !drone && (s == Assigned || s == Delivering) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no drone", s))
	}

	return nil
}

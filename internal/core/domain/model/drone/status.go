package drone

import (
	"fmt"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
)

// Status represents the operational state of a drone.
//
// available is the only state a dispatch claim can start from; assigned and
// delivering carry an active order; charging, maintenance and offline are
// out-of-service states an operator or telemetry puts the drone into.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Available means the drone is idle and claimable.
	Available

	// Assigned means the drone has been claimed for an order.
	Assigned

	// Delivering means the drone is flying the claimed order.
	Delivering

	// Charging means the drone is docked and recharging.
	Charging

	// Maintenance means the drone is pulled for service.
	Maintenance

	// Offline means the drone is unreachable.
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Available:   "available",
		Assigned:    "assigned",
		Delivering:  "delivering",
		Charging:    "charging",
		Maintenance: "maintenance",
		Offline:     "offline",
	}
}

// StatusFromString parses a drone status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("drone status",
		fmt.Errorf("%q is not a valid drone status", s))
}

// Validate checks if the Status is one of the defined operational states.
func (s Status) Validate() error {
	if s < Available || s > Offline {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%d is not a valid drone status", s))
	}
	return nil
}

// String returns the wire name of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// HasOrder reports whether the status implies an active order pairing.
func (s Status) HasOrder() bool {
	return s == Assigned || s == Delivering
}

// ValidateCanHaveOrder validates the consistency between drone status and
// order pairing: an order is carried iff the drone is assigned or delivering.
func (s Status) ValidateCanHaveOrder(order bool) error {
	if order && !s.HasOrder() {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s is not a valid status to carry an order", s))
	}

	if !order && s.HasOrder() {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s is not a valid status to carry no order", s))
	}

	return nil
}

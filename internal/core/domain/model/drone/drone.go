package drone

import (
	"errors"
	"fmt"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

const (
	// BatteryMin is the lowest representable battery level in percent.
	BatteryMin = 0
	// BatteryMax is the highest representable battery level in percent.
	BatteryMax = 100
)

var (
	// ErrDroneIsNotConstructed is returned when using an improperly initialized Drone.
	ErrDroneIsNotConstructed = errors.New("Drone must be created via NewDrone constructor")

	// ErrSerialIsRequired is returned when attempting to create a drone without a serial number.
	ErrSerialIsRequired = errs.NewValueIsRequiredError("serial")

	// ErrDroneIsNotAvailable is returned when claiming a drone that is not available.
	ErrDroneIsNotAvailable = errors.New("drone is not available")

	// ErrDroneHasNoOrder is returned when an order-bound operation runs on an idle drone.
	ErrDroneHasNoOrder = errors.New("drone has no active order")
)

// Drone is the aggregate root for a delivery drone. It carries at most one
// order at a time: the orderID is non-nil iff the status is assigned or
// delivering, mirroring the order side of the 1:1 pairing.
//
// The in-memory methods express the legal state changes; the race between
// concurrent claimants is resolved by the store's conditional update, not
// here.
type Drone struct {
	id     kernel.UUID
	serial string

	status       Status
	batteryLevel int
	location     kernel.Location
	// maxRangeKm bounds how far from a restaurant this drone may be dispatched.
	maxRangeKm float64

	// orderID is the claimed order while assigned or delivering.
	orderID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewDrone registers a new drone. It starts available with a full battery at
// the given location. Max range is in kilometers and must be positive.
func NewDrone(id kernel.UUID, serial string, location kernel.Location, maxRangeKm float64) (*Drone, error) {
	d := &Drone{
		status:       Available,
		batteryLevel: BatteryMax,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setSerial(serial),
		d.setLocation(location),
		d.setMaxRangeKm(maxRangeKm),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDrone reconstructs a Drone aggregate from persistent storage,
// re-checking the status/order pairing invariant.
func RestoreDrone(
	id kernel.UUID,
	serial string,
	status Status,
	batteryLevel int,
	location kernel.Location,
	maxRangeKm float64,
	orderID *kernel.UUID,
) (*Drone, error) {
	d := &Drone{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setSerial(serial),
		d.setLocation(location),
		d.setMaxRangeKm(maxRangeKm),
		d.setBatteryLevel(batteryLevel),
		status.Validate(),
		status.ValidateCanHaveOrder(orderID != nil),
	); err != nil {
		return nil, err
	}

	d.status = status
	d.orderID = orderID
	return d, nil
}

// Validate ensures the Drone instance was properly constructed.
func (d *Drone) Validate() error {
	if d == nil {
		return ErrDroneIsNotConstructed
	}
	return d.guard.Validate(ErrDroneIsNotConstructed)
}

// IsEqual compares two drones by their unique identifiers.
func (d *Drone) IsEqual(other *Drone) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the drone's unique identifier.
func (d *Drone) ID() kernel.UUID {
	return d.id
}

// Serial returns the drone's serial number.
func (d *Drone) Serial() string {
	return d.serial
}

// Status returns the drone's operational status.
func (d *Drone) Status() Status {
	return d.status
}

// BatteryLevel returns the battery level in percent.
func (d *Drone) BatteryLevel() int {
	return d.batteryLevel
}

// Location returns the drone's last reported position.
func (d *Drone) Location() kernel.Location {
	return d.location
}

// MaxRangeKm returns the drone's dispatch range in kilometers.
func (d *Drone) MaxRangeKm() float64 {
	return d.maxRangeKm
}

// Order returns the claimed order's ID, nil while idle.
func (d *Drone) Order() *kernel.UUID {
	return d.orderID
}

// CanServe reports whether the drone is eligible for a dispatch at the given
// distance: it must be available, have at least minBattery percent charge and
// the pickup point must lie within its range.
func (d *Drone) CanServe(distanceKm float64, minBattery int) bool {
	return d.status == Available &&
		d.batteryLevel >= minBattery &&
		distanceKm <= d.maxRangeKm
}

// Claim pairs the drone with an order. Only available drones can be claimed;
// the concurrent-claim race is decided by the store's conditional update.
func (d *Drone) Claim(orderID kernel.UUID) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.status != Available {
		return ErrDroneIsNotAvailable
	}

	d.status = Assigned
	d.orderID = &orderID
	return nil
}

// Release returns a claimed drone to the available pool, ending the pairing.
// Used both for the dispatch compensation path and for reassignment.
func (d *Drone) Release() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.status.HasOrder() {
		return ErrDroneHasNoOrder
	}

	d.status = Available
	d.orderID = nil
	return nil
}

// StartDelivery moves an assigned drone into the delivering state.
func (d *Drone) StartDelivery() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Assigned {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s is not a valid status to start delivery", d.status))
	}

	d.status = Delivering
	return nil
}

// CompleteDelivery ends the flight: the drone becomes available again and
// the pairing is cleared.
func (d *Drone) CompleteDelivery() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Delivering {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s is not a valid status to complete delivery", d.status))
	}

	d.status = Available
	d.orderID = nil
	return nil
}

// UpdateTelemetry records a position/battery report. Telemetry never touches
// the status or the order pairing.
func (d *Drone) UpdateTelemetry(location kernel.Location, batteryLevel int) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := errors.Join(
		location.Validate(),
		d.setBatteryLevel(batteryLevel),
	); err != nil {
		return err
	}

	d.location = location
	return nil
}

// SetOutOfService moves an idle drone into charging, maintenance or offline.
// Drones carrying an order must be released first.
func (d *Drone) SetOutOfService(status Status) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if status != Charging && status != Maintenance && status != Offline {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s is not an out-of-service status", status))
	}
	if d.status.HasOrder() {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s drone cannot go out of service", d.status))
	}

	d.status = status
	return nil
}

// ReturnToService moves an out-of-service drone back to available.
func (d *Drone) ReturnToService() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Charging && d.status != Maintenance && d.status != Offline {
		return errs.NewValueIsInvalidErrorWithCause("drone status",
			fmt.Errorf("%s drone is not out of service", d.status))
	}

	d.status = Available
	return nil
}

func (d *Drone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Drone) setSerial(serial string) error {
	if serial == "" {
		return ErrSerialIsRequired
	}
	d.serial = serial
	return nil
}

func (d *Drone) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Drone) setMaxRangeKm(maxRangeKm float64) error {
	if maxRangeKm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("max range",
			fmt.Errorf("%f is not greater than 0", maxRangeKm))
	}
	d.maxRangeKm = maxRangeKm
	return nil
}

func (d *Drone) setBatteryLevel(batteryLevel int) error {
	if batteryLevel < BatteryMin || batteryLevel > BatteryMax {
		return errs.NewValueIsOutOfRangeError("battery level", batteryLevel, BatteryMin, BatteryMax)
	}
	d.batteryLevel = batteryLevel
	return nil
}

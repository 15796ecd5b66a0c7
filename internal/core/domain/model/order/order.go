package order

import (
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned when creating an order without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrPaymentMethodIsNotGateway is returned when a gateway payment operation
	// is attempted on a cash-on-delivery order.
	ErrPaymentMethodIsNotGateway = errors.New("payment operation requires gateway payment method")

	// ErrPaymentAlreadySettled is returned when mutating payment state of an
	// order that is already paid.
	ErrPaymentAlreadySettled = errors.New("payment is already settled")

	// ErrPaymentTransactionMissing is returned when settling a gateway order
	// that never initiated a payment attempt.
	ErrPaymentTransactionMissing = errors.New("payment transaction was never initiated")
)

// Order is the aggregate root for a fulfillment order. It owns the status
// state machine, the 1:1 drone pairing and the payment settlement state.
//
// Invariants:
//   - droneID is non-nil iff status is assigned or delivering
//   - paymentTransactionRef is set iff paymentMethod is gateway and a payment
//     attempt has been initiated
//   - totalAmount equals the sum of item subtotals, in minor currency units
//   - every status change records its timestamp
//
// All mutation goes through validated methods; the struct cannot be built
// directly.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	// pickupLocation is the restaurant's point, the origin of any dispatch search.
	pickupLocation kernel.Location
	// deliveryLocation is the customer's delivery point.
	deliveryLocation kernel.Location

	items       []Item
	totalAmount int64

	status      Status
	statusTimes map[Status]time.Time

	paymentMethod         PaymentMethod
	paymentStatus         PaymentStatus
	paymentTransactionRef *string
	paidAt                *time.Time

	// droneID is the claimed drone while the order is assigned or delivering.
	droneID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrder creates a pending Order. The total amount is derived from the
// item subtotals; at least one item is required. Payment starts pending.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickupLocation kernel.Location,
	deliveryLocation kernel.Location,
	items []Item,
	paymentMethod PaymentMethod,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		statusTimes:   map[Status]time.Time{Pending: createdAt},
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryLocation(deliveryLocation),
		o.setItems(items),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the full persisted state and re-checks the
// cross-field invariants so corrupt rows never become live aggregates.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickupLocation kernel.Location,
	deliveryLocation kernel.Location,
	items []Item,
	status Status,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	paymentTransactionRef *string,
	paidAt *time.Time,
	droneID *kernel.UUID,
	statusTimes map[Status]time.Time,
) (*Order, error) {
	o := &Order{
		statusTimes: make(map[Status]time.Time, len(statusTimes)),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryLocation(deliveryLocation),
		o.setItems(items),
		o.setPaymentMethod(paymentMethod),
		status.Validate(),
		paymentStatus.Validate(),
		status.ValidateCanHaveDrone(droneID != nil),
	); err != nil {
		return nil, err
	}

	if paymentTransactionRef != nil && paymentMethod != Gateway {
		return nil, ErrPaymentMethodIsNotGateway
	}

	o.status = status
	o.paymentStatus = paymentStatus
	o.paymentTransactionRef = paymentTransactionRef
	o.paidAt = paidAt
	o.droneID = droneID
	for s, at := range statusTimes {
		o.statusTimes[s] = at
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the fulfilling restaurant's identifier.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// PickupLocation returns the restaurant's location.
func (o *Order) PickupLocation() kernel.Location {
	return o.pickupLocation
}

// DeliveryLocation returns the customer's delivery point.
func (o *Order) DeliveryLocation() kernel.Location {
	return o.deliveryLocation
}

// Items returns a copy of the ordered lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// TotalAmount returns the order total in minor currency units.
func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

// Status returns the current fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// StatusTime returns the recorded timestamp for a status the order has
// entered, and whether one exists.
func (o *Order) StatusTime(s Status) (time.Time, bool) {
	at, ok := o.statusTimes[s]
	return at, ok
}

// StatusTimes returns a copy of all recorded status timestamps.
func (o *Order) StatusTimes() map[Status]time.Time {
	times := make(map[Status]time.Time, len(o.statusTimes))
	for s, at := range o.statusTimes {
		times[s] = at
	}
	return times
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the settlement state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// PaymentTransactionRef returns the gateway transaction reference of the
// current payment attempt. Nil when no attempt has been initiated.
func (o *Order) PaymentTransactionRef() *string {
	return o.paymentTransactionRef
}

// PaidAt returns the settlement timestamp. Nil until paid.
func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

// Drone returns the claimed drone's ID, nil while unassigned.
func (o *Order) Drone() *kernel.UUID {
	return o.droneID
}

// TransitionTo moves the order along one edge of the status table and
// records the timestamp. The assigned status cannot be entered here; use
// AssignDrone so the drone pairing invariant holds.
//
// Returns *InvalidTransitionError (wrapping ErrInvalidTransition) when the
// edge is not in the table, including any cancel of a delivering, delivered
// or already cancelled order.
func (o *Order) TransitionTo(next Status, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if next == Assigned {
		return NewInvalidTransitionError(o.status, next)
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.statusTimes[newStatus] = at
	if newStatus == Delivered {
		// Terminal: the 1:1 pairing ends with the delivery.
		o.droneID = nil
	}
	return nil
}

// AssignDrone performs the ready -> assigned edge, pairing the order with
// the drone whose claim succeeded.
func (o *Order) AssignDrone(droneID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := droneID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.statusTimes[newStatus] = at
	o.droneID = &droneID
	return nil
}

// ReplaceDrone swaps the paired drone while the order stays assigned.
// Used by reassignment after the new drone's claim succeeded.
func (o *Order) ReplaceDrone(droneID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := droneID.Validate(); err != nil {
		return err
	}
	if o.status != Assigned {
		return NewInvalidTransitionError(o.status, Assigned)
	}

	o.droneID = &droneID
	return nil
}

// AttachPaymentTransaction stores the gateway transaction reference of a new
// payment attempt. Only gateway orders can initiate attempts, and a settled
// order cannot start another one.
func (o *Order) AttachPaymentTransaction(ref string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if ref == "" {
		return errs.NewValueIsRequiredError("transaction reference")
	}
	if o.paymentMethod != Gateway {
		return ErrPaymentMethodIsNotGateway
	}
	if o.paymentStatus == PaymentPaid {
		return ErrPaymentAlreadySettled
	}

	o.paymentTransactionRef = &ref
	return nil
}

// MarkPaid settles the order after a verified gateway success notification.
// Fulfillment status is deliberately untouched.
func (o *Order) MarkPaid(at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.paymentMethod != Gateway {
		return ErrPaymentMethodIsNotGateway
	}
	if o.paymentTransactionRef == nil {
		return ErrPaymentTransactionMissing
	}
	if o.paymentStatus == PaymentPaid {
		return ErrPaymentAlreadySettled
	}

	o.paymentStatus = PaymentPaid
	o.paidAt = &at
	return nil
}

// MarkPaymentFailed records a failed gateway attempt without touching the
// fulfillment status.
func (o *Order) MarkPaymentFailed() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.paymentMethod != Gateway {
		return ErrPaymentMethodIsNotGateway
	}
	if o.paymentStatus == PaymentPaid {
		return ErrPaymentAlreadySettled
	}

	o.paymentStatus = PaymentFailed
	return nil
}

// RequiresPaymentBeforeDispatch reports whether dispatch must wait for
// settlement: gateway orders need paid status, cash orders never wait.
func (o *Order) RequiresPaymentBeforeDispatch() bool {
	return o.paymentMethod == Gateway && o.paymentStatus != PaymentPaid
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setPickupLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.pickupLocation = location
	return nil
}

func (o *Order) setDeliveryLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.deliveryLocation = location
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	var total int64
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total += item.Subtotal()
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.totalAmount = total
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

package ports

import (
	"context"
)

// Event names published by the fulfillment core. Consumers (customer apps,
// restaurant dashboards) subscribe by name.
const (
	// EventDroneAssigned fires when an order gets its drone.
	EventDroneAssigned = "order:drone-assigned"

	// EventDroneReassigned fires when an operator swaps the drone on an
	// assigned order.
	EventDroneReassigned = "order:drone-reassigned"

	// EventAssignmentRejected fires when a dispatch attempt found no
	// eligible drone. Soft signal: the order stays ready.
	EventAssignmentRejected = "assignment:rejected"

	// EventPaymentSettled fires when a gateway notification marks an
	// order as paid.
	EventPaymentSettled = "payment:settled"
)

// Notifier publishes domain events to interested consumers. Delivery is
// best effort: publish failures never change a command's outcome.
type Notifier interface {
	// Emit publishes the payload under the event name. The payload must
	// be JSON-serializable.
	Emit(ctx context.Context, event string, payload any) error
}

// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/guard"
)

var (
	ErrTrackOrderQueryIsNotConstructed = errors.New(
		"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
	)
)

// TrackOrderQuery retrieves the fulfillment trail of a single order: its
// current status, the timestamp of every status it has passed through,
// payment state and the drone flying it, if any.
//
// Example:
//
//	query, err := queries.NewTrackOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	trail, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to track order: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", trail.ID, trail.Status)
type TrackOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTrackOrderQuery creates a query to track a single order.
func NewTrackOrderQuery(orderID kernel.UUID) (TrackOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return TrackOrderQuery{}, err
	}

	return TrackOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the order being tracked.
func (q TrackOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
// Returns ErrTrackOrderQueryIsNotConstructed if validation fails.
func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

// TrackOrderQueryResponse represents the tracking read model of an order.
// Statuses and payment fields carry their wire strings; absent timestamps
// are nil.
type TrackOrderQueryResponse struct {
	ID            kernel.UUID
	Status        string
	PaymentMethod string
	PaymentStatus string
	DroneID       *kernel.UUID
	TotalAmount   int64

	PendingAt    *time.Time
	ConfirmedAt  *time.Time
	PreparingAt  *time.Time
	ReadyAt      *time.Time
	AssignedAt   *time.Time
	DeliveringAt *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
}

// Package ports defines the outbound contracts of the fulfillment core.
// These interfaces sit between the application layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate
	// unconditionally. Use UpdateStatusGuarded for the transition path.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateStatusGuarded persists the aggregate only if the stored row is
	// still in fromStatus, as a single conditional update. It returns
	// errs.ErrConflict (wrapped) when a concurrent writer moved the order
	// first, so the caller can reload and re-decide.
	UpdateStatusGuarded(ctx context.Context, aggregate *order.Order, fromStatus order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByPaymentTransactionRef retrieves the order attached to a gateway
	// transaction reference. Returns errs.ErrObjectNotFound (wrapped) when
	// no order carries the reference.
	GetByPaymentTransactionRef(ctx context.Context, ref string) (*order.Order, error)

	// GetAllInReadyStatus retrieves the orders waiting for a drone, oldest
	// ready first. Used by the dispatch retry scan.
	GetAllInReadyStatus(ctx context.Context) ([]*order.Order, error)
}

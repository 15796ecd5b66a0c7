package ports

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
)

// DispatchLock is a short-lived per-order mutex that keeps the cron scan and
// the transition-triggered dispatch from racing over the same order. It is
// an optimization only: correctness is carried by the conditional updates,
// so a lost or expired lock is safe.
type DispatchLock interface {
	// Acquire attempts to take the lock for the order. Returns false when
	// another dispatcher already holds it.
	Acquire(ctx context.Context, orderID kernel.UUID) (bool, error)

	// Release frees the lock. Releasing an expired or foreign lock is a no-op.
	Release(ctx context.Context, orderID kernel.UUID) error
}

package ports

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
)

// DroneRepository defines the persistence contract for drone aggregates.
//
// Claim and Release are the write paths that enforce the one-order-per-drone
// invariant: both are single conditional updates, so two dispatchers racing
// for the same drone see exactly one winner.
type DroneRepository interface {
	// Add persists a new drone aggregate to storage.
	Add(ctx context.Context, aggregate *drone.Drone) error

	// Update persists changes to an existing drone aggregate.
	Update(ctx context.Context, aggregate *drone.Drone) error

	// Get retrieves a drone aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error)

	// GetAllAvailable retrieves every drone currently in the available pool.
	GetAllAvailable(ctx context.Context) ([]*drone.Drone, error)

	// Claim atomically pairs the drone with an order: a conditional update
	// that succeeds only while the stored row is still available with no
	// order. Returns errs.ErrConflict (wrapped) when another claimant won,
	// so the caller moves on to the next candidate.
	Claim(ctx context.Context, droneID kernel.UUID, orderID kernel.UUID) error

	// Release returns a claimed drone to the available pool, conditional on
	// it still holding the given order. Used for the dispatch compensation
	// path and for reassignment. Returns errs.ErrConflict (wrapped) when
	// the pairing no longer matches.
	Release(ctx context.Context, droneID kernel.UUID, orderID kernel.UUID) error
}

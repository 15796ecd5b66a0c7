package ports

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
)

// NearbyDrone is a geospatial index hit: a drone identifier with its
// distance from the queried point.
type NearbyDrone struct {
	ID         kernel.UUID
	DistanceKm float64
}

// DroneIndex is the geospatial lookup used by dispatch to shortlist drones
// around a pickup point. It is a cache over telemetry, not the source of
// truth: hits are re-validated against the repository before claiming.
type DroneIndex interface {
	// Upsert records the drone's last reported position.
	Upsert(ctx context.Context, droneID kernel.UUID, location kernel.Location) error

	// Remove drops the drone from the index, e.g. when it goes out of service.
	Remove(ctx context.Context, droneID kernel.UUID) error

	// NearbyDrones returns the drones within radiusKm of the point,
	// nearest first.
	NearbyDrones(ctx context.Context, location kernel.Location, radiusKm float64) ([]NearbyDrone, error)
}

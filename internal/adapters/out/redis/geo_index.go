// Package redis provides the Redis-backed adapters of the fulfillment core:
// the drone geo index, the per-order dispatch lock and the event notifier.
//
// All three are operational aids. The geo index is a cache over telemetry,
// the lock is contention avoidance and the notifier is best-effort; none of
// them carry correctness, which lives in the conditional database updates.
package redis

import (
	"context"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const geoIndexKey = "drones:geo"

// GeoDroneIndex maintains drone positions in a Redis geo set and answers
// nearest-first proximity searches for the dispatch engine.
type GeoDroneIndex struct {
	client *redis.Client
}

// NewGeoDroneIndex creates a geo index over the given Redis client.
func NewGeoDroneIndex(client *redis.Client) *GeoDroneIndex {
	return &GeoDroneIndex{client: client}
}

// Upsert records the current position of a drone.
func (i *GeoDroneIndex) Upsert(ctx context.Context, droneID kernel.UUID, location kernel.Location) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	return i.client.GeoAdd(ctx, geoIndexKey, &redis.GeoLocation{
		Name:      droneID.String(),
		Longitude: location.Lng(),
		Latitude:  location.Lat(),
	}).Err()
}

// Remove deletes a drone from the index.
func (i *GeoDroneIndex) Remove(ctx context.Context, droneID kernel.UUID) error {
	if err := droneID.Validate(); err != nil {
		return err
	}

	return i.client.ZRem(ctx, geoIndexKey, droneID.String()).Err()
}

// NearbyDrones returns the drones within radiusKm of the location, nearest
// first. Entries whose member is not a valid drone identifier are skipped;
// they can only appear through manual writes to the key.
func (i *GeoDroneIndex) NearbyDrones(
	ctx context.Context,
	location kernel.Location,
	radiusKm float64,
) ([]ports.NearbyDrone, error) {
	locations, err := i.client.GeoSearchLocation(ctx, geoIndexKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  location.Lng(),
			Latitude:   location.Lat(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	nearby := make([]ports.NearbyDrone, 0, len(locations))
	for _, loc := range locations {
		droneID, idErr := kernel.UUIDFromString(loc.Name)
		if idErr != nil {
			continue
		}
		nearby = append(nearby, ports.NearbyDrone{
			ID:         droneID,
			DistanceKm: loc.Dist,
		})
	}

	return nearby, nil
}

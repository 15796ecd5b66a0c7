package services

import (
	"errors"
	"sort"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/drone"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/order"
)

// ErrNoDroneAvailable is returned when no eligible drone exists for a ready
// order. This is a soft, retryable condition: the order stays ready and a
// later scan or a manual assignment may still succeed.
var ErrNoDroneAvailable = errors.New("no drone available")

// Candidate pairs a drone with its distance from the order's pickup point,
// as reported by the geospatial index.
type Candidate struct {
	Drone      *drone.Drone
	DistanceKm float64
}

// DroneDispatcher is a domain service that ranks candidate drones for a
// ready order. It is pure selection: the atomic claim on the winning drone
// is the store's job, so callers walk the ranked list and claim in order.
//
// Ranking: ascending distance; ties broken by descending battery level, then
// by drone identity for determinism.
type DroneDispatcher struct {
	minBattery int
}

// NewDroneDispatcher creates a dispatcher with the battery floor (percent)
// below which drones are never dispatched.
func NewDroneDispatcher(minBattery int) DroneDispatcher {
	return DroneDispatcher{minBattery: minBattery}
}

// SelectCandidates filters and ranks drones for the order.
//
// Eligibility: the drone is available, its battery is at or above the floor
// and the pickup point is within its max range. The order must be ready.
//
// Returns:
//   - the ranked eligible candidates, best first
//   - ErrNoDroneAvailable when none qualify
func (d DroneDispatcher) SelectCandidates(o *order.Order, candidates []Candidate) ([]Candidate, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if o.Status() != order.Ready {
		return nil, order.NewInvalidTransitionError(o.Status(), order.Assigned)
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Drone.Validate(); err != nil {
			return nil, err
		}

		if !c.Drone.CanServe(c.DistanceKm, d.minBattery) {
			continue
		}

		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		return nil, ErrNoDroneAvailable
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].DistanceKm != eligible[j].DistanceKm {
			return eligible[i].DistanceKm < eligible[j].DistanceKm
		}
		if eligible[i].Drone.BatteryLevel() != eligible[j].Drone.BatteryLevel() {
			return eligible[i].Drone.BatteryLevel() > eligible[j].Drone.BatteryLevel()
		}
		return eligible[i].Drone.ID().String() < eligible[j].Drone.ID().String()
	})

	return eligible, nil
}

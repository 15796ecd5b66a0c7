// Package services provides stateless domain services for the fulfillment
// system.
//
// The package includes:
//   - DroneDispatcher: ranks eligible drones for a ready order by distance,
//     battery and identity. Selection only; the atomic claim is delegated to
//     the store's conditional update.
//   - TransitionPolicy: the capability check deciding which actors may
//     request which status transitions.
package services

// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: the aggregate root owning fulfillment status, the 1:1 drone
//     pairing and the payment settlement state
//   - Status: a state machine with a fixed transition table
//   - Item: an ordered product line with prices in minor currency units
//   - PaymentMethod / PaymentStatus: settlement value objects
//
// Key business rules:
//   - pending -> confirmed -> preparing -> ready -> assigned -> delivering -> delivered
//   - cancelled is reachable from pending, confirmed, preparing and ready only
//   - a drone is paired iff the order is assigned or delivering
//   - payment and fulfillment state are decoupled; only gateway orders gate
//     dispatch on settlement
//
// All state changes go through validated methods so the invariants cannot be
// bypassed.
package order

// Package drone provides the Drone aggregate for the fulfillment system.
//
// A drone carries at most one order at a time; the orderID is set iff the
// drone is assigned or delivering. Claiming is expressed here as a state
// change, but the decision between concurrent claimants belongs to the
// store's conditional update, which lets exactly one claim succeed.
package drone

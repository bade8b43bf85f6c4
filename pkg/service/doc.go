// Package service implements the property bridge: the layer between
// callers issuing get/set/subscribe against vehicle properties and the
// board hardware.
//
// Properties handled by the user-management protocol are answered by the
// protocol; all others are served from the property store and mirrored
// onto the CAN bus. Inbound CAN frames and gear switch changes feed back
// into the store and produce the same change events as caller writes.
//
// # Set Sequence
//
// A Set runs these steps in order and stops at the first failure:
//
//  1. HVAC gate: a fan property is NOT_AVAILABLE while HVAC_POWER_ON is [0]
//  2. user protocol, which may substitute the value to persist
//  3. store write (rejection is INVALID_ARG)
//  4. CAN echo, best effort
//  5. change event, only if the protocol substituted the value
//
// # Lifecycle
//
// NewBridge wires the store and protocol. Timer, CAN transport, gear
// monitor and backup mode writer are attached with setters before
// OnCreate, which seeds the store and starts them. Close stops them, each
// closing its resource before joining its goroutine.
package service

// Package can carries property values over a raw SocketCAN interface.
//
// Every frame holds exactly one property update: an 8-byte payload of
// {int32 propertyId, int32 value} in host byte order. There is no
// segmentation, no arbitration on the CAN identifier and no
// acknowledgement.
//
// A Transport whose socket could not be opened stays disabled for the
// process lifetime. Sends on a disabled transport are dropped and its
// receive loop never runs, so the bridge keeps serving properties from the
// store alone.
package can

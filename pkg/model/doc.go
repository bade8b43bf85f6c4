// Package model implements the vehicle property data model.
//
// # Property Identifiers
//
// A property is addressed by the tuple (Prop, AreaID). The 32-bit property
// identifier packs four fields, following the Android vehicle HAL layout:
//
//	0xf0000000  group      (SYSTEM, VENDOR)
//	0x0f000000  area type  (GLOBAL, WINDOW, SEAT, DOOR, ...)
//	0x00ff0000  value type (INT32, FLOAT, INT32_VEC, MIXED, ...)
//	0x0000ffff  unique id
//
// Global properties have a single implicit area with AreaID 0.
//
// # Values
//
// PropertyValue carries a RawValue payload, a tagged union of int32, float,
// int64, byte and string sequences. The scalar properties handled by the
// bridge populate at most one of them.
//
// # Status
//
// Operations report failures as *StatusError values carrying a Status code.
// StatusOf maps any error back to its code so callers on the wire side can
// translate it.
package model

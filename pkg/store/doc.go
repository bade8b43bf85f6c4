// Package store implements the in-memory vehicle property store.
//
// The store keeps one PropertyValue per (property, area) pair and the
// PropertyConfig of every registered property. Each entry is read and
// written atomically; callers never observe a partially written value
// because values are deep-copied on the way in and on the way out.
//
// Global properties are always stored under area 0, whatever area the
// caller supplies.
//
// A write is rejected when the property is not registered, or when the
// stored value carries a newer timestamp than the incoming one.
package store

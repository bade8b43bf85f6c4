// Package timer implements the recurrent timer that drives continuous
// property republishing.
//
// Each registered property id (the cookie) has its own interval. A single
// goroutine sleeps until the earliest deadline, collects every cookie that
// is due and hands them to the action callback in one call, sorted by id.
//
// # Missed Ticks
//
// If the action runs late, missed ticks are not replayed: the next deadline
// is moved to the first multiple of the interval after now.
//
// # Replacement
//
// Registering a cookie that is already registered replaces its interval.
// Unregistering an unknown cookie is a no-op.
package timer

// Package retry provides exponential backoff for opening hardware
// resources that may not be ready at boot.
//
// The default schedule starts at 1 ms and doubles on every attempt:
//
//	1ms, 2ms, 4ms, ... 2048ms
//
// Jitter is disabled by default; a device node appears once, so there is
// no thundering herd to spread out.
package retry

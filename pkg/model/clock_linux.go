//go:build linux

package model

import (
	"time"

	"golang.org/x/sys/unix"
)

// ElapsedRealtimeNano returns nanoseconds since boot, including time spent
// in suspend.
func ElapsedRealtimeNano() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_BOOTTIME, &ts); err != nil {
		return int64(time.Since(processStart))
	}
	return ts.Nano()
}

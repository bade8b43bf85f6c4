//go:build !linux

package model

import "time"

// ElapsedRealtimeNano returns nanoseconds since process start on platforms
// without a boot clock.
func ElapsedRealtimeNano() int64 {
	return int64(time.Since(processStart))
}

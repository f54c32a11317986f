// Package clock provides the monotonic millisecond clock used throughout
// the runtime (spec component C1). time.Now() is already monotonic in Go,
// so this is a thin, typed wrapper rather than a hand-rolled clock — the
// platform abstraction the spec carves out for high-resolution timestamps
// is Go's own runtime here, not something this package reimplements.
package clock

import "time"

// NowMillis returns the current time as milliseconds, suitable for the
// WatchdogImpulse and log timestamps.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// SinceMillis returns the number of milliseconds elapsed since t (in
// NowMillis units).
func SinceMillis(t int64) int64 {
	return NowMillis() - t
}

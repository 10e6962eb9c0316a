// Package lifecycle tracks process-wide drain state for the health endpoint.
package lifecycle

import (
	"sync/atomic"
	"time"
)

var (
	shuttingDown atomic.Bool
	drainStarted atomic.Int64 // unix nanos, 0 when not draining
)

// BeginShutdown marks the process as draining and records when draining began. It returns
// false if a shutdown was already in progress, so a second signal can be ignored.
func BeginShutdown() bool {
	if !shuttingDown.CompareAndSwap(false, true) {
		return false
	}
	drainStarted.Store(time.Now().UnixNano())
	return true
}

// SetShuttingDown sets the drain flag directly. Health returns 503 shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
	if !v {
		drainStarted.Store(0)
	}
}

// IsShuttingDown returns true if the process is draining and should not receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// DrainDuration reports how long the process has been draining, or 0 when it is not.
func DrainDuration() time.Duration {
	started := drainStarted.Load()
	if started == 0 || !shuttingDown.Load() {
		return 0
	}
	return time.Since(time.Unix(0, started))
}

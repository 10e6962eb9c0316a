package http

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// InFlightTracker counts requests currently being served so shutdown can drain them.
type InFlightTracker struct {
	count atomic.Int64
	peak  atomic.Int64
}

// Enter marks a request as started and returns the func that marks it finished.
func (t *InFlightTracker) Enter() (leave func()) {
	n := t.count.Add(1)
	for {
		p := t.peak.Load()
		if n <= p || t.peak.CompareAndSwap(p, n) {
			break
		}
	}
	var left atomic.Bool
	return func() {
		if left.CompareAndSwap(false, true) {
			t.count.Add(-1)
		}
	}
}

// Count returns the number of requests currently in flight.
func (t *InFlightTracker) Count() int64 {
	return t.count.Load()
}

// Peak returns the highest concurrent count seen.
func (t *InFlightTracker) Peak() int64 {
	return t.peak.Load()
}

// Drain polls every checkInterval until nothing is in flight. When ctx ends first the error
// reports how many requests were abandoned.
func (t *InFlightTracker) Drain(ctx context.Context, checkInterval time.Duration) error {
	if t.Count() == 0 {
		return nil
	}
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%d requests still in flight: %w", t.Count(), ctx.Err())
		case <-ticker.C:
			if t.Count() == 0 {
				return nil
			}
		}
	}
}

// globalInFlightTracker is fed by MetricsMiddleware.
var globalInFlightTracker = &InFlightTracker{}

// InFlightCount returns the current number of in-flight requests.
func InFlightCount() int64 {
	return globalInFlightTracker.Count()
}

// PeakInFlight returns the highest number of concurrent requests served by this process.
func PeakInFlight() int64 {
	return globalInFlightTracker.Peak()
}

// WaitForInFlight blocks until in-flight requests reach zero or ctx is done.
func WaitForInFlight(ctx context.Context, checkInterval time.Duration) error {
	return globalInFlightTracker.Drain(ctx, checkInterval)
}

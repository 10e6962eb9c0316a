// Package traffic keeps sliding windows of weather request outcomes. The health handler
// uses them to report degraded upstreams and the metrics package exposes them as gauges.
package traffic

import (
	"sync"
	"time"
)

// retention bounds how far back outcomes are kept; windows longer than this undercount.
const retention = 15 * time.Minute

var defaultTracker Tracker

// RecordSuccess records a weather request answered with 200.
func RecordSuccess() {
	defaultTracker.RecordSuccess()
}

// RecordError records a weather request that failed upstream (500).
func RecordError() {
	defaultTracker.RecordError()
}

// RecordDenied records a rate-limit denial (429).
func RecordDenied() {
	defaultTracker.RecordDenied()
}

// RequestCount returns the number of outcomes (success + error + denied) within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.Snapshot(window).Total()
}

// DenialCount returns the number of denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.Snapshot(window).Denied
}

// ErrorRate returns (errorCount, totalCount) within the window. totalCount = successes + errors (denied excluded).
func ErrorRate(window time.Duration) (errors, total int) {
	c := defaultTracker.Snapshot(window)
	return c.Errors, c.Successes + c.Errors
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Counts is a snapshot of outcomes within one window.
type Counts struct {
	Successes int
	Errors    int
	Denied    int
}

// Total returns all outcomes in the snapshot.
func (c Counts) Total() int {
	return c.Successes + c.Errors + c.Denied
}

// ErrorPct returns errors as a percentage of successes + errors, or 0 with no traffic.
func (c Counts) ErrorPct() float64 {
	answered := c.Successes + c.Errors
	if answered == 0 {
		return 0
	}
	return float64(c.Errors) * 100 / float64(answered)
}

// Tracker maintains sliding windows of outcome timestamps. The zero value is ready to use.
type Tracker struct {
	mu           sync.Mutex
	now          func() time.Time
	successTimes []time.Time
	errorTimes   []time.Time
	deniedTimes  []time.Time
}

func (t *Tracker) RecordSuccess() {
	t.record(&t.successTimes)
}

func (t *Tracker) RecordError() {
	t.record(&t.errorTimes)
}

func (t *Tracker) RecordDenied() {
	t.record(&t.deniedTimes)
}

func (t *Tracker) record(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// Snapshot counts outcomes recorded within the window ending now.
func (t *Tracker) Snapshot(window time.Duration) Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock().Add(-window)
	return Counts{
		Successes: countSince(t.successTimes, cutoff),
		Errors:    countSince(t.errorTimes, cutoff),
		Denied:    countSince(t.deniedTimes, cutoff),
	}
}

// Reset clears all recorded outcomes from the tracker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successTimes = nil
	t.errorTimes = nil
	t.deniedTimes = nil
}

func (t *Tracker) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func countSince(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than retention. Must be called with mu held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-retention)
	for _, slice := range []*[]time.Time{&t.successTimes, &t.errorTimes, &t.deniedTimes} {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
}

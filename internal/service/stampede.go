package service

import (
	"sync"
)

// stampedeTracker counts in-flight cache misses per coordinate key. Misses are not coalesced,
// so a count above 1 means that many upstream fetches are running for the same key.
type stampedeTracker struct {
	mu     sync.Mutex
	active map[string]int
}

func newStampedeTracker() *stampedeTracker {
	return &stampedeTracker{
		active: make(map[string]int),
	}
}

// Begin records a miss for key and returns the in-flight count including this one.
// Callers defer Done(key) once their upstream fetch finishes.
func (st *stampedeTracker) Begin(key string) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.active[key]++
	return st.active[key]
}

// Done records that one miss for key has finished.
func (st *stampedeTracker) Done(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active[key] <= 1 {
		delete(st.active, key)
		return
	}
	st.active[key]--
}

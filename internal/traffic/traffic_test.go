package traffic

import (
	"testing"
	"time"
)

func TestRequestCount_Empty(t *testing.T) {
	Reset()
	if n := RequestCount(1 * time.Minute); n != 0 {
		t.Errorf("RequestCount() = %d, want 0", n)
	}
}

func TestRecordDenied_AndCounts(t *testing.T) {
	Reset()
	RecordDenied()
	RecordDenied()
	RecordSuccess()
	if n := DenialCount(1 * time.Minute); n != 2 {
		t.Errorf("DenialCount() = %d, want 2", n)
	}
	if n := RequestCount(1 * time.Minute); n != 3 {
		t.Errorf("RequestCount() = %d, want 3", n)
	}
}

// TestErrorRate_DeniedExcluded verifies that denials do not count toward the error rate denominator.
func TestErrorRate_DeniedExcluded(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordSuccess()
	RecordError()
	RecordDenied()
	errors, total := ErrorRate(1 * time.Minute)
	if errors != 1 || total != 3 {
		t.Errorf("ErrorRate() = (%d, %d), want (1, 3)", errors, total)
	}
}

func TestReset(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordError()
	RecordDenied()
	Reset()
	if n := RequestCount(1 * time.Minute); n != 0 {
		t.Errorf("RequestCount() = %d, want 0", n)
	}
}

// TestTracker_WindowAndPrune drives a tracker with a fake clock to check that the window
// excludes older outcomes and that pruning drops anything past retention.
func TestTracker_WindowAndPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := &Tracker{now: func() time.Time { return now }}

	tr.RecordError()
	now = now.Add(2 * time.Minute)
	tr.RecordSuccess()

	if c := tr.Snapshot(time.Minute); c.Errors != 0 || c.Successes != 1 {
		t.Errorf("Snapshot(1m) = %+v, want only the recent success", c)
	}
	if c := tr.Snapshot(5 * time.Minute); c.Errors != 1 || c.Successes != 1 {
		t.Errorf("Snapshot(5m) = %+v, want both outcomes", c)
	}

	now = now.Add(retention + time.Minute)
	tr.RecordDenied()
	tr.mu.Lock()
	n := len(tr.errorTimes) + len(tr.successTimes)
	tr.mu.Unlock()
	if n != 0 {
		t.Errorf("after retention, %d old outcomes remain, want 0", n)
	}
}

func TestCounts_ErrorPct(t *testing.T) {
	tests := []struct {
		c    Counts
		want float64
	}{
		{Counts{}, 0},
		{Counts{Successes: 3, Errors: 1}, 25},
		{Counts{Errors: 2, Denied: 10}, 100},
	}
	for _, tc := range tests {
		if got := tc.c.ErrorPct(); got != tc.want {
			t.Errorf("%+v.ErrorPct() = %v, want %v", tc.c, got, tc.want)
		}
	}
}

package lifecycle

import (
	"testing"
	"time"
)

func TestIsShuttingDown_DefaultFalse(t *testing.T) {
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true, want false by default")
	}
	if d := DrainDuration(); d != 0 {
		t.Errorf("DrainDuration() = %v, want 0 when not draining", d)
	}
}

func TestSetShuttingDown_True(t *testing.T) {
	SetShuttingDown(true)
	defer SetShuttingDown(false)
	if !IsShuttingDown() {
		t.Error("IsShuttingDown() = false after SetShuttingDown(true), want true")
	}
}

func TestBeginShutdown_OnlyFirstCallWins(t *testing.T) {
	SetShuttingDown(false)
	defer SetShuttingDown(false)

	if !BeginShutdown() {
		t.Fatal("BeginShutdown() = false on first call, want true")
	}
	if BeginShutdown() {
		t.Error("BeginShutdown() = true on second call, want false")
	}
	if !IsShuttingDown() {
		t.Error("IsShuttingDown() = false after BeginShutdown()")
	}

	time.Sleep(5 * time.Millisecond)
	if d := DrainDuration(); d < 5*time.Millisecond {
		t.Errorf("DrainDuration() = %v, want at least 5ms", d)
	}
}

func TestSetShuttingDown_FalseResetsDrain(t *testing.T) {
	BeginShutdown()
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true after SetShuttingDown(false), want false")
	}
	if d := DrainDuration(); d != 0 {
		t.Errorf("DrainDuration() = %v after reset, want 0", d)
	}
}

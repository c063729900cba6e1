package raft

import (
	"testing"
	"time"
)

func fixedClock(times ...time.Time) nowFunc {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestStopwatch_ElapsedAccumulatesAcrossStartStop(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	clock := fixedClock(
		base,                     // start()
		base.Add(5*time.Second),  // stop()
		base.Add(5*time.Second),  // start() again
		base.Add(12*time.Second), // stop() again
	)

	sw := newStopwatch(clock)
	sw.start()
	sw.stop()
	sw.start()
	sw.stop()

	if got := sw.elapsedDuration(); got != 12*time.Second {
		t.Fatalf("elapsedDuration() = %v, want 12s", got)
	}
}

func TestStopwatch_ElapsedWhileRunningIncludesInFlightSpan(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	clock := fixedClock(base, base.Add(3*time.Second))

	sw := newStopwatch(clock)
	sw.start()

	if got := sw.elapsedDuration(); got != 3*time.Second {
		t.Fatalf("elapsedDuration() while running = %v, want 3s", got)
	}
}

func TestStopwatch_ResetClearsElapsedAndRunningState(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	clock := fixedClock(base, base.Add(5*time.Second))

	sw := newStopwatch(clock)
	sw.start()
	sw.stop()
	sw.reset()

	if got := sw.elapsedDuration(); got != 0 {
		t.Fatalf("elapsedDuration() after reset = %v, want 0", got)
	}
}

func TestStopwatch_StartIsIdempotentWhileRunning(t *testing.T) {
	t.Parallel()

	base := time.Unix(0, 0)
	clock := fixedClock(base, base.Add(9*time.Second))

	sw := newStopwatch(clock)
	sw.start()
	sw.start() // second call must not consult the clock or reset started
	if got := sw.elapsedDuration(); got != 9*time.Second {
		t.Fatalf("elapsedDuration() = %v, want 9s (started timestamp must not move)", got)
	}
}

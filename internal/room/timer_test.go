package room

import (
	"testing"
	"time"
)

func TestComputeRemainingStoppedUsesCheckpoint(t *testing.T) {
	timer := Timer{DurationSec: 120, RemainingSec: 45}
	now := time.Now()
	if got := ComputeRemaining(timer, now); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
	if got := ComputeRemaining(timer, now.Add(time.Hour)); got != 45 {
		t.Fatalf("expected checkpoint to hold while stopped, got %d", got)
	}
}

func TestComputeRemainingClampsCheckpoint(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		timer Timer
		want  int
	}{
		{name: "negative checkpoint", timer: Timer{DurationSec: 60, RemainingSec: -5}, want: 0},
		{name: "checkpoint above duration", timer: Timer{DurationSec: 60, RemainingSec: 90}, want: 60},
		{name: "running past zero", timer: running(Timer{DurationSec: 60, RemainingSec: 10}, now.Add(-time.Minute)), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeRemaining(tc.timer, now); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestComputeRemainingMonotonicWhileRunning(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := StartTimer(Timer{DurationSec: 120, RemainingSec: 120}, start)

	prev := ComputeRemaining(timer, start)
	for i := 0; i <= 150; i++ {
		now := start.Add(time.Duration(i) * time.Second)
		got := ComputeRemaining(timer, now)
		if got > prev {
			t.Fatalf("remaining increased from %d to %d at +%ds", prev, got, i)
		}
		if got < 0 || got > timer.DurationSec {
			t.Fatalf("remaining %d out of [0,%d] at +%ds", got, timer.DurationSec, i)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("expected 0 after duration elapsed, got %d", prev)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := StartTimer(Timer{DurationSec: 120, RemainingSec: 120}, start)

	at := start.Add(17 * time.Second)
	before := ComputeRemaining(timer, at)

	paused := PauseTimer(timer, at)
	if paused.Running || paused.StartedAt != nil {
		t.Fatalf("expected stopped timer after pause, got %+v", paused)
	}
	resumed := StartTimer(paused, at)
	if got := ComputeRemaining(resumed, at); got != before {
		t.Fatalf("pause/resume at the same instant changed remaining: %d != %d", got, before)
	}
}

func TestStartPauseScenario(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := Timer{DurationSec: 120, RemainingSec: 120}

	timer = StartTimer(timer, start)
	at := start.Add(30 * time.Second)
	if got := ComputeRemaining(timer, at); got != 90 {
		t.Fatalf("expected 90 before pause, got %d", got)
	}
	timer = PauseTimer(timer, at)
	if timer.RemainingSec != 90 {
		t.Fatalf("expected checkpoint 90 after pause, got %d", timer.RemainingSec)
	}
}

func TestStartTimerIsNoOpWhileRunning(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := StartTimer(Timer{DurationSec: 60, RemainingSec: 60}, start)
	again := StartTimer(timer, start.Add(30*time.Second))
	if !again.StartedAt.Equal(start) {
		t.Fatalf("expected start instant preserved, got %v", again.StartedAt)
	}
}

func TestPauseTimerIsNoOpWhileStopped(t *testing.T) {
	timer := Timer{DurationSec: 60, RemainingSec: 42}
	got := PauseTimer(timer, time.Now())
	if got != timer {
		t.Fatalf("expected no-op pause, got %+v", got)
	}
}

func TestResetTimerRewinds(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := StartTimer(Timer{DurationSec: 90, RemainingSec: 40}, start)
	got := ResetTimer(timer)
	if got.Running || got.StartedAt != nil || got.RemainingSec != 90 {
		t.Fatalf("unexpected timer after reset: %+v", got)
	}
}

func TestSetDurationClampsAndStops(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	timer := StartTimer(Timer{DurationSec: 120, RemainingSec: 120}, start)

	tests := []struct {
		name    string
		seconds int
		want    int
	}{
		{name: "below floor", seconds: 3, want: 10},
		{name: "above ceiling", seconds: 4000, want: 1800},
		{name: "in range", seconds: 300, want: 300},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SetDuration(timer, tc.seconds)
			if got.DurationSec != tc.want || got.RemainingSec != tc.want {
				t.Fatalf("expected duration %d, got %+v", tc.want, got)
			}
			if got.Running || got.StartedAt != nil {
				t.Fatalf("expected stopped timer after duration change, got %+v", got)
			}
		})
	}
}

func running(t Timer, startedAt time.Time) Timer {
	t.Running = true
	t.StartedAt = &startedAt
	return t
}

package room

import "time"

// ComputeRemaining derives seconds remaining from the persisted timer
// fields and a caller-supplied instant. While the timer is stopped the
// checkpoint is authoritative; while running the elapsed whole seconds
// since StartedAt are subtracted. The result is always within
// [0, DurationSec].
func ComputeRemaining(t Timer, now time.Time) int {
	if !t.Running || t.StartedAt == nil {
		return Clamp(t.RemainingSec, 0, t.DurationSec)
	}
	elapsed := int(now.Sub(*t.StartedAt) / time.Second)
	return Clamp(t.RemainingSec-elapsed, 0, t.DurationSec)
}

// StartTimer begins the countdown at a server-assigned instant. No-op if
// already running.
func StartTimer(t Timer, now time.Time) Timer {
	if t.Running {
		return t
	}
	started := now
	t.Running = true
	t.StartedAt = &started
	return t
}

// PauseTimer checkpoints the remaining seconds and stops the countdown.
// No-op unless running with a start instant.
func PauseTimer(t Timer, now time.Time) Timer {
	if !t.Running || t.StartedAt == nil {
		return t
	}
	t.RemainingSec = ComputeRemaining(t, now)
	t.Running = false
	t.StartedAt = nil
	return t
}

// ResetTimer rewinds to the full duration, stopped.
func ResetTimer(t Timer) Timer {
	t.Running = false
	t.StartedAt = nil
	t.RemainingSec = t.DurationSec
	return t
}

// SetDuration replaces the whole timer sub-record. Changing duration
// always stops and rewinds the clock; it never adjusts a running timer
// in place. Seconds are clamped to [MinTimerSec, MaxTimerSec].
func SetDuration(t Timer, seconds int) Timer {
	d := Clamp(seconds, MinTimerSec, MaxTimerSec)
	return Timer{DurationSec: d, RemainingSec: d}
}

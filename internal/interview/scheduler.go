package interview

import (
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel stops the callback and reports whether it had not run yet.
	Cancel() bool
}

// Scheduler runs fn after d. It models the assistant typing delay.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// TimerScheduler schedules callbacks on real timers.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

// ImmediateScheduler runs callbacks synchronously, ignoring the delay.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(_ time.Duration, fn func()) Handle {
	fn()
	return doneHandle{}
}

type doneHandle struct{}

func (doneHandle) Cancel() bool { return false }

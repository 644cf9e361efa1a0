package dispatch

import "time"

// Handle controls one scheduled callback.
type Handle interface {
	// Stop cancels the callback if it has not fired yet. Returns true if
	// the cancellation won.
	Stop() bool
}

// Scheduler schedules a callback after a delay. Abstracted so tests can
// fire debounce windows deterministically.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// timerScheduler is the production Scheduler, backed by time.AfterFunc.
type timerScheduler struct{}

// NewTimerScheduler returns the production timer-backed scheduler.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Stop() bool {
	return h.timer.Stop()
}

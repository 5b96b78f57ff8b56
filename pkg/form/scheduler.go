package form

import (
	"time"

	"github.com/facebookgo/clock"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay. Tests inject a fake to drive
// debounced validation without waiting on the wall clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// ClockScheduler schedules callbacks on a clock.Clock.
type ClockScheduler struct {
	clock clock.Clock
}

// NewClockScheduler wraps c; a nil clock uses the real wall clock.
func NewClockScheduler(c clock.Clock) *ClockScheduler {
	if c == nil {
		c = clock.New()
	}
	return &ClockScheduler{clock: c}
}

// AfterFunc implements Scheduler.
func (s *ClockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return &clockTimer{timer: s.clock.AfterFunc(d, fn)}
}

// clockTimer adapts *clock.Timer to Timer.
type clockTimer struct {
	timer   *clock.Timer
	stopped bool
}

func (t *clockTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

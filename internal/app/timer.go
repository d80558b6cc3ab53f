package app

import (
	"fmt"
	"time"
)

// Timer accumulates wall-clock time for a session and drives display ticks.
// It is not safe for concurrent use; the owning Engine serialises access.
type Timer struct {
	clock    func() time.Time
	sched    Scheduler
	interval time.Duration

	startedAt time.Time
	endedAt   time.Time
	running   bool
	cancel    func()
}

func NewTimer(clock func() time.Time, sched Scheduler, interval time.Duration) *Timer {
	return &Timer{clock: clock, sched: sched, interval: interval}
}

// Start records the start time and calls onTick every interval until stopped.
func (t *Timer) Start(onTick func()) {
	t.Cancel()
	t.startedAt = t.clock()
	t.endedAt = time.Time{}
	t.running = true
	t.cancel = t.sched.Every(t.interval, onTick)
}

// Stop freezes the timer and returns the total elapsed time.
func (t *Timer) Stop() time.Duration {
	if t.running {
		t.stopTicks()
		t.endedAt = t.clock()
		t.running = false
	}
	return t.Elapsed()
}

// Cancel stops ticking without recording an end time.
func (t *Timer) Cancel() {
	t.stopTicks()
	t.running = false
}

func (t *Timer) stopTicks() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Elapsed is the running duration, or the frozen total once stopped.
func (t *Timer) Elapsed() time.Duration {
	switch {
	case t.running:
		return t.clock().Sub(t.startedAt)
	case !t.endedAt.IsZero():
		return t.endedAt.Sub(t.startedAt)
	default:
		return 0
	}
}

func (t *Timer) Running() bool {
	return t.running
}

func (t *Timer) StartedAt() time.Time {
	return t.startedAt
}

func (t *Timer) EndedAt() time.Time {
	return t.endedAt
}

// FormatElapsed renders d as zero-padded MM:SS, flooring to whole seconds.
// Minutes keep counting past 59; there is no hour field.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

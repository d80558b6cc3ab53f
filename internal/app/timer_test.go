package app_test

import (
	"testing"
	"time"

	"github.com/randomchill-vibes/findthestate/internal/app"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "00:00"},
		{in: 999 * time.Millisecond, want: "00:00"},
		{in: time.Second, want: "00:01"},
		{in: 125 * time.Second, want: "02:05"},
		{in: 125999 * time.Millisecond, want: "02:05"},
		{in: 59*time.Minute + 59*time.Second, want: "59:59"},
		{in: -time.Second, want: "00:00"},
	}
	for _, tc := range cases {
		if got := app.FormatElapsed(tc.in); got != tc.want {
			t.Fatalf("FormatElapsed(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestTimerStopFreezesElapsed(t *testing.T) {
	sched := newFakeScheduler()
	timer := app.NewTimer(sched.Now, sched, 100*time.Millisecond)

	ticks := 0
	timer.Start(func() { ticks++ })
	sched.Advance(time.Second)
	if ticks != 10 {
		t.Fatalf("expected 10 ticks, got %d", ticks)
	}
	if got := timer.Elapsed(); got != time.Second {
		t.Fatalf("expected 1s elapsed, got %v", got)
	}

	if got := timer.Stop(); got != time.Second {
		t.Fatalf("expected stop to report 1s, got %v", got)
	}
	sched.Advance(time.Second)
	if ticks != 10 || timer.Elapsed() != time.Second || timer.Running() {
		t.Fatalf("timer kept running after stop: ticks=%d elapsed=%v", ticks, timer.Elapsed())
	}
	if got := timer.Stop(); got != time.Second {
		t.Fatalf("second stop changed elapsed to %v", got)
	}
}

func TestTimerCancelDropsEnd(t *testing.T) {
	sched := newFakeScheduler()
	timer := app.NewTimer(sched.Now, sched, 100*time.Millisecond)
	timer.Start(func() {})
	sched.Advance(time.Second)
	timer.Cancel()
	if timer.Running() || !timer.EndedAt().IsZero() || timer.Elapsed() != 0 {
		t.Fatalf("cancelled timer should have no elapsed time")
	}
	if sched.Pending() != 0 {
		t.Fatalf("expected ticker to be cancelled")
	}
}

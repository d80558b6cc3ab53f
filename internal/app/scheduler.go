package app

import (
	"sync"
	"time"
)

// Scheduler runs callbacks later on its own goroutines. Returned cancel funcs are
// idempotent and never wait for an in-flight callback.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
	Every(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

// NewRealScheduler returns a Scheduler backed by the runtime timers.
func NewRealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func (realScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

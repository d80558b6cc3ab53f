package app

import (
	"math/rand"
	"sync"
	"time"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// NewRandomPicker returns a time-seeded source. It is not safe for concurrent use.
func NewRandomPicker() Picker {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewLockedPicker wraps p so one source can be shared between engines.
func NewLockedPicker(p Picker) Picker {
	return &lockedPicker{p: p}
}

type lockedPicker struct {
	mu sync.Mutex
	p  Picker
}

func (l *lockedPicker) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Intn(n)
}

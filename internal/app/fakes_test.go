package app_test

import (
	"sort"
	"sync"
	"time"

	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/domain"
)

// fakeScheduler is a manual clock plus scheduler; tasks only fire inside Advance.
type fakeScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	seq       int
	at        time.Time
	every     time.Duration
	fn        func()
	cancelled bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeScheduler) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() {
	return f.add(d, 0, fn)
}

func (f *fakeScheduler) Every(d time.Duration, fn func()) func() {
	return f.add(d, d, fn)
}

func (f *fakeScheduler) add(d, every time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	task := &fakeTask{seq: f.seq, at: f.now.Add(d), every: every, fn: fn}
	f.tasks = append(f.tasks, task)
	return func() {
		f.mu.Lock()
		task.cancelled = true
		f.mu.Unlock()
	}
}

// Advance moves the clock forward, firing due tasks in time order.
func (f *fakeScheduler) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		live := f.tasks[:0]
		for _, t := range f.tasks {
			if !t.cancelled {
				live = append(live, t)
			}
		}
		f.tasks = live
		sort.SliceStable(f.tasks, func(i, j int) bool {
			if !f.tasks[i].at.Equal(f.tasks[j].at) {
				return f.tasks[i].at.Before(f.tasks[j].at)
			}
			return f.tasks[i].seq < f.tasks[j].seq
		})
		if len(f.tasks) == 0 || f.tasks[0].at.After(target) {
			break
		}
		next := f.tasks[0]
		f.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.cancelled = true
		}
		f.mu.Unlock()
		next.fn()
		f.mu.Lock()
	}
	f.now = target
	f.mu.Unlock()
}

// Pending counts tasks that have not been cancelled or fired.
func (f *fakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type recorder struct {
	mu         sync.Mutex
	views      []domain.View
	highlights []domain.Highlight
	ticks      []string
	summaries  []domain.Summary
}

func (r *recorder) Render(v domain.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recorder) Highlight(h domain.Highlight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlights = append(r.highlights, h)
}

func (r *recorder) Tick(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, text)
}

func (r *recorder) GameOver(s domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
}

func (r *recorder) lastView() domain.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return domain.View{}
	}
	return r.views[len(r.views)-1]
}

func (r *recorder) counts() (views, highlights, ticks, summaries int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views), len(r.highlights), len(r.ticks), len(r.summaries)
}

// firstPicker always picks index 0, so prompts follow the remaining slice order.
type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

func twoStates() domain.Catalog {
	return domain.Catalog{
		ID:      "test",
		Title:   "Two states",
		Regions: map[string]string{"CA": "California", "NY": "New York"},
	}
}

func newTestEngine(catalog domain.Catalog, picker app.Picker) (*app.Engine, *recorder, *fakeScheduler) {
	sched := newFakeScheduler()
	rec := &recorder{}
	engine := app.NewEngine(catalog, rec, app.EngineConfig{
		Clock:     sched.Now,
		Scheduler: sched,
		Rand:      picker,
	})
	return engine, rec, sched
}

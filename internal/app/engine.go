package app

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/randomchill-vibes/findthestate/internal/domain"
)

// Renderer is the display side of a game. Calls arrive synchronously, in event order,
// while the engine holds its lock, so implementations must not call back into the Engine.
type Renderer interface {
	Render(view domain.View)
	Highlight(h domain.Highlight)
	Tick(timerText string)
	GameOver(summary domain.Summary)
}

const (
	defaultTickInterval   = 100 * time.Millisecond
	defaultCorrectSettle  = 500 * time.Millisecond
	defaultIncorrectClear = time.Second
)

// EngineConfig injects time, scheduling and randomness. Zero fields take defaults.
type EngineConfig struct {
	Clock          func() time.Time
	Scheduler      Scheduler
	Rand           Picker
	TickInterval   time.Duration
	CorrectSettle  time.Duration
	IncorrectClear time.Duration
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Scheduler == nil {
		c.Scheduler = NewRealScheduler()
	}
	if c.Rand == nil {
		c.Rand = NewRandomPicker()
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.CorrectSettle <= 0 {
		c.CorrectSettle = defaultCorrectSettle
	}
	if c.IncorrectClear <= 0 {
		c.IncorrectClear = defaultIncorrectClear
	}
	return c
}

// session is the mutable state of one play-through. It is replaced, never reused.
type session struct {
	phase            domain.Phase
	current          string
	score            int
	attempts         int
	totalAttempts    int
	remaining        []string
	completed        []string
	firstTry         bool
	pointsPerCorrect int
	options          domain.Options
	feedback         domain.Feedback
}

func newSession(catalog domain.Catalog) *session {
	return &session{
		phase:            domain.PhaseIdle,
		remaining:        catalog.Codes(),
		completed:        []string{},
		firstTry:         true,
		pointsPerCorrect: 1,
		feedback:         domain.Feedback{Kind: domain.FeedbackNone},
	}
}

type highlightTask struct {
	id     uint64
	cancel func()
}

// Engine owns the state of a single quiz: round selection, scoring, timing and
// termination. All operations are serialised; ignored operations mutate nothing.
type Engine struct {
	mu      sync.Mutex
	catalog domain.Catalog
	render  Renderer
	cfg     EngineConfig
	timer   *Timer

	s           *session
	prefs       domain.Preferences
	lastOptions domain.Options
	hasLast     bool

	highlights map[string]highlightTask
	nextTaskID uint64
	gen        uint64
	closed     bool
}

// NewEngine builds an idle engine for catalog. Nothing is rendered until the first event.
func NewEngine(catalog domain.Catalog, render Renderer, cfg EngineConfig) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		catalog:    catalog.Clone(),
		render:     render,
		cfg:        cfg,
		timer:      NewTimer(cfg.Clock, cfg.Scheduler, cfg.TickInterval),
		prefs:      domain.Preferences{Options: domain.Options{KeepHighlightOnCorrect: true}},
		highlights: make(map[string]highlightTask),
	}
	e.initializeLocked()
	return e
}

// CatalogID identifies the catalog the engine plays.
func (e *Engine) CatalogID() string {
	return e.catalog.ID
}

// Catalog returns a copy of the engine's catalog.
func (e *Engine) Catalog() domain.Catalog {
	return e.catalog.Clone()
}

// Initialize discards the current session and starts a fresh idle one.
func (e *Engine) Initialize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.initializeLocked()
	e.render.Render(e.viewLocked())
}

// Start activates an idle session. It reports false when the session is not idle.
func (e *Engine) Start(opts domain.Options) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(opts)
}

// SubmitClick evaluates a click on regionID. Unknown ids count as wrong guesses.
// It reports false when the click was ignored.
func (e *Engine) SubmitClick(regionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.s.phase != domain.PhaseActive || e.s.current == "" {
		return false
	}

	s := e.s
	s.attempts++
	s.totalAttempts++

	if regionID == s.current {
		if s.firstTry {
			s.score += s.pointsPerCorrect
		}
		s.remaining = removeCode(s.remaining, regionID)
		s.completed = append(s.completed, regionID)
		s.current = ""
		s.feedback = domain.Feedback{Kind: domain.FeedbackCorrect}

		settled := domain.HighlightCleared
		if s.options.KeepHighlightOnCorrect {
			settled = domain.HighlightCompleted
		}
		e.highlightLocked(regionID, domain.HighlightCorrect, settled, e.cfg.CorrectSettle)
		e.render.Render(e.viewLocked())
		e.selectNextLocked()
		return true
	}

	s.firstTry = false
	clicked, known := e.catalog.Name(regionID)
	if !known {
		clicked = regionID
	}
	answer, _ := e.catalog.Name(s.current)
	s.feedback = domain.Feedback{
		Kind:    domain.FeedbackIncorrect,
		Text:    fmt.Sprintf("That's %s, try again!", clicked),
		Clicked: clicked,
		Answer:  answer,
	}
	if known {
		settled := domain.HighlightCleared
		if s.options.KeepHighlightOnCorrect && containsCode(s.completed, regionID) {
			settled = domain.HighlightCompleted
		}
		e.highlightLocked(regionID, domain.HighlightIncorrect, settled, e.cfg.IncorrectClear)
	}
	e.render.Render(e.viewLocked())
	return true
}

// GoHome returns to an idle session awaiting a new Start.
func (e *Engine) GoHome() {
	e.Initialize()
}

// Reset replays with the options of the previous Start, or the current preferences
// when the engine was never started.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.initializeLocked()
	e.render.Render(e.viewLocked())

	opts := e.prefs.Options
	if e.hasLast {
		opts = e.lastOptions
	}
	e.startLocked(opts)
}

// SetPreferences records the input surface toggles. Game options apply at the next
// Start; the floating prompt applies immediately.
func (e *Engine) SetPreferences(p domain.Preferences) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.prefs = p
	e.render.Render(e.viewLocked())
}

func (e *Engine) Preferences() domain.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

// View returns what the render surface should currently display.
func (e *Engine) View() domain.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Snapshot copies the session state.
func (e *Engine) Snapshot() domain.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	remaining := append([]string(nil), s.remaining...)
	sort.Strings(remaining)
	state := domain.SessionState{
		CatalogID:         e.catalog.ID,
		Phase:             s.phase,
		CurrentRegion:     s.current,
		Score:             s.score,
		Attempts:          s.attempts,
		TotalAttempts:     s.totalAttempts,
		Remaining:         remaining,
		Completed:         append([]string{}, s.completed...),
		FirstTryRemaining: s.firstTry,
		PointsPerCorrect:  s.pointsPerCorrect,
		TimerEnabled:      s.options.TimerEnabled,
	}
	if s.options.TimerEnabled && s.phase != domain.PhaseIdle {
		started := e.timer.StartedAt()
		state.StartedAt = &started
		if ended := e.timer.EndedAt(); !ended.IsZero() {
			state.EndedAt = &ended
		}
	}
	return state
}

// Close tears the engine down. Scheduled work is cancelled and every later call is a no-op.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.gen++
	e.cancelScheduledLocked()
}

func (e *Engine) initializeLocked() {
	e.gen++
	e.cancelScheduledLocked()
	e.s = newSession(e.catalog)
}

func (e *Engine) cancelScheduledLocked() {
	e.timer.Cancel()
	for region, task := range e.highlights {
		task.cancel()
		delete(e.highlights, region)
	}
}

func (e *Engine) startLocked(opts domain.Options) bool {
	if e.closed || e.s.phase != domain.PhaseIdle {
		return false
	}
	s := e.s
	s.phase = domain.PhaseActive
	s.options = opts
	s.pointsPerCorrect = opts.PointsPerCorrect()
	e.lastOptions = opts
	e.hasLast = true

	if opts.TimerEnabled {
		gen := e.gen
		e.timer.Start(func() { e.tick(gen) })
	}
	e.selectNextLocked()
	return true
}

func (e *Engine) selectNextLocked() {
	s := e.s
	if len(s.remaining) == 0 {
		e.endLocked()
		return
	}
	s.firstTry = true
	s.attempts = 0
	s.feedback = domain.Feedback{Kind: domain.FeedbackNone}
	s.current = s.remaining[e.cfg.Rand.Intn(len(s.remaining))]
	e.render.Render(e.viewLocked())
}

func (e *Engine) endLocked() {
	s := e.s
	s.phase = domain.PhaseEnded
	s.current = ""

	summary := domain.Summary{
		Score:         s.score,
		MaxScore:      e.catalog.Len() * s.pointsPerCorrect,
		TotalAttempts: s.totalAttempts,
	}
	if s.options.TimerEnabled {
		elapsed := e.timer.Stop()
		summary.Timed = true
		summary.Elapsed = elapsed
		summary.ElapsedMs = elapsed.Milliseconds()
		summary.ElapsedText = FormatElapsed(elapsed)
	}
	e.render.Render(e.viewLocked())
	e.render.GameOver(summary)
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen || e.s.phase != domain.PhaseActive || !e.timer.Running() {
		return
	}
	e.render.Tick(FormatElapsed(e.timer.Elapsed()))
}

// highlightLocked paints region now and schedules the follow-up paint, replacing any
// pending one for the same region.
func (e *Engine) highlightLocked(region string, now, later domain.HighlightKind, delay time.Duration) {
	e.render.Highlight(domain.Highlight{Region: region, Kind: now})
	if prev, ok := e.highlights[region]; ok {
		prev.cancel()
	}
	e.nextTaskID++
	id := e.nextTaskID
	cancel := e.cfg.Scheduler.AfterFunc(delay, func() { e.settle(region, id, later) })
	e.highlights[region] = highlightTask{id: id, cancel: cancel}
}

func (e *Engine) settle(region string, id uint64, kind domain.HighlightKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	task, ok := e.highlights[region]
	if e.closed || !ok || task.id != id {
		return
	}
	delete(e.highlights, region)
	e.render.Highlight(domain.Highlight{Region: region, Kind: kind})
}

func (e *Engine) viewLocked() domain.View {
	s := e.s
	v := domain.View{
		Phase:                 s.phase,
		Score:                 s.score,
		MaxScore:              e.catalog.Len() * s.pointsPerCorrect,
		Attempts:              s.attempts,
		Region:                s.current,
		Feedback:              s.feedback,
		Remaining:             len(s.remaining),
		Completed:             len(s.completed),
		FloatingPromptVisible: e.prefs.FloatingPrompt && s.phase == domain.PhaseActive,
	}
	if s.current != "" {
		v.Prompt, _ = e.catalog.Name(s.current)
	}
	if s.options.TimerEnabled && s.phase != domain.PhaseIdle {
		v.TimerVisible = true
		v.TimerText = FormatElapsed(e.timer.Elapsed())
	}
	return v
}

// removeCode swap-removes code; order of the remaining set is irrelevant.
func removeCode(codes []string, code string) []string {
	for i, c := range codes {
		if c == code {
			last := len(codes) - 1
			codes[i] = codes[last]
			return codes[:last]
		}
	}
	return codes
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

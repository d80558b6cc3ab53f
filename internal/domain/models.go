package domain

import (
	"fmt"
	"time"
)

// Phase is the lifecycle stage of a game session.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseActive Phase = "active"
	PhaseEnded  Phase = "ended"
)

// Options are fixed for a session when it starts.
type Options struct {
	TimerEnabled           bool `json:"timerEnabled"`
	KeepHighlightOnCorrect bool `json:"keepHighlightOnCorrect"`
}

// PointsPerCorrect is 1 when solved regions stay highlighted and 2 when they are cleared.
func (o Options) PointsPerCorrect() int {
	if o.KeepHighlightOnCorrect {
		return 1
	}
	return 2
}

// Preferences mirror the toggles on the input surface.
type Preferences struct {
	Options
	FloatingPrompt bool `json:"floatingPrompt"`
}

// FeedbackKind classifies the transient feedback line.
type FeedbackKind string

const (
	FeedbackNone      FeedbackKind = "none"
	FeedbackCorrect   FeedbackKind = "correct"
	FeedbackIncorrect FeedbackKind = "incorrect"
)

// Feedback describes the outcome of the latest click.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Text    string       `json:"text,omitempty"`
	Clicked string       `json:"clicked,omitempty"` // display name of the clicked region
	Answer  string       `json:"answer,omitempty"`  // display name of the prompted region
}

// HighlightKind is a cosmetic transition of a single region.
type HighlightKind string

const (
	HighlightCorrect   HighlightKind = "correct"
	HighlightIncorrect HighlightKind = "incorrect"
	HighlightCompleted HighlightKind = "completed"
	HighlightCleared   HighlightKind = "cleared"
)

// Highlight tells the render surface how to paint one region.
type Highlight struct {
	Region string        `json:"region"`
	Kind   HighlightKind `json:"kind"`
}

// View carries everything the render surface displays after a state change.
type View struct {
	Phase                 Phase    `json:"phase"`
	Score                 int      `json:"score"`
	MaxScore              int      `json:"maxScore"`
	Attempts              int      `json:"attempts"`
	Region                string   `json:"region,omitempty"`
	Prompt                string   `json:"prompt,omitempty"`
	Feedback              Feedback `json:"feedback"`
	TimerVisible          bool     `json:"timerVisible"`
	TimerText             string   `json:"timerText,omitempty"`
	Remaining             int      `json:"remaining"`
	Completed             int      `json:"completed"`
	FloatingPromptVisible bool     `json:"floatingPromptVisible"`
}

// Summary is emitted once when a session runs out of regions.
type Summary struct {
	Score         int           `json:"score"`
	MaxScore      int           `json:"maxScore"`
	TotalAttempts int           `json:"totalAttempts"`
	Timed         bool          `json:"timed"`
	Elapsed       time.Duration `json:"-"`
	ElapsedMs     int64         `json:"elapsedMs,omitempty"`
	ElapsedText   string        `json:"elapsedText,omitempty"`
}

// ScoreText renders the final score as "score / max".
func (s Summary) ScoreText() string {
	return fmt.Sprintf("%d / %d", s.Score, s.MaxScore)
}

// SessionState is a point-in-time copy of a game session.
type SessionState struct {
	CatalogID         string     `json:"catalogId"`
	Phase             Phase      `json:"phase"`
	CurrentRegion     string     `json:"currentRegion,omitempty"`
	Score             int        `json:"score"`
	Attempts          int        `json:"attempts"`
	TotalAttempts     int        `json:"totalAttempts"`
	Remaining         []string   `json:"remaining"`
	Completed         []string   `json:"completed"`
	FirstTryRemaining bool       `json:"firstTryRemaining"`
	PointsPerCorrect  int        `json:"pointsPerCorrect"`
	TimerEnabled      bool       `json:"timerEnabled"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
}

// Active reports whether clicks are currently accepted.
func (s SessionState) Active() bool {
	return s.Phase == PhaseActive
}

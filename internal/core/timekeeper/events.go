package timekeeper

import (
	"time"

	"breaktime/internal/core/model"
)

// State represents the current TimeKeeper mode.
type State string

const (
	StateWork      State = "work"
	StateMiniBreak State = "mini_break"
	StateLongBreak State = "long_break"
	StatePaused    State = "paused"
)

// IsBreak reports whether the state is a mini or long break.
func (state State) IsBreak() bool {
	return state == StateMiniBreak || state == StateLongBreak
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventHeld         EventType = "held"
	EventNaturalBreak EventType = "natural_break"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type       EventType
	State      State
	Remaining  time.Duration
	Progress   float64
	StrictMode bool
	Prompt     model.BreakPrompt
	Countdown  model.Progress
	At         time.Time
}

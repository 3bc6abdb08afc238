package naturalbreak

import "time"

// EventType defines the type of natural break event.
type EventType string

const (
	// EventStarted fires when idle time crosses the onset threshold.
	EventStarted EventType = "natural_break_started"
	// EventFinished fires when the user returns from an idle period longer
	// than the break duration. Idle carries that period.
	EventFinished EventType = "natural_break_finished"
	// EventClearScheduler fires on every sample of a natural break that is
	// already longer than the break duration.
	EventClearScheduler EventType = "clear_break_scheduler"
)

// Event is a natural break lifecycle update.
type Event struct {
	Type EventType
	Idle time.Duration
	At   time.Time
}

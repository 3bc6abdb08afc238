package timekeeper

import (
	"sync"
	"time"

	"breaktime/internal/core/model"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Now          func() time.Time
	AfterFunc    func(time.Duration, func()) Timer
}

// TimeKeeper is a state machine that manages break scheduling.
type TimeKeeper struct {
	mu               sync.Mutex
	config           model.TimeKeeperConfig
	options          Config
	state            State
	previousState    State
	remaining        time.Duration
	nextMini         time.Duration
	nextLong         time.Duration
	countdown        model.Progress
	prompt           model.BreakPrompt
	nextPrompts      map[State]model.BreakPrompt
	events           []chan Event
	stopCh           chan struct{}
	running          bool
	paused           bool
	held             bool
	pauseTimer       Timer
	pauseGeneration  int
	lastProgressSent time.Time
}

// New creates a TimeKeeper with the provided configuration.
func New(config model.TimeKeeperConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.AfterFunc == nil {
		options.AfterFunc = func(delay time.Duration, fn func()) Timer {
			return time.AfterFunc(delay, fn)
		}
	}

	keeper := &TimeKeeper{
		config:        config,
		options:       options,
		state:         StateWork,
		previousState: StateWork,
		nextPrompts:   make(map[State]model.BreakPrompt),
		stopCh:        make(chan struct{}),
	}
	keeper.resetWorkTimersLocked()
	return keeper
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	keeper.remaining = 0
	if !keeper.paused {
		keeper.state = StateWork
		keeper.previousState = StateWork
	}
	state := keeper.state
	keeper.mu.Unlock()

	keeper.emit(Event{
		Type:  EventStateChange,
		State: state,
		At:    keeper.options.Now(),
	})

	go keeper.run()
}

// Stop terminates the ticking loop and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	keeper.cancelPauseTimerLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// State returns the current state.
func (keeper *TimeKeeper) State() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Paused reports whether breaks are paused.
func (keeper *TimeKeeper) Paused() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.paused
}

// Held reports whether a natural break currently holds the work countdown.
func (keeper *TimeKeeper) Held() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.held
}

// Pause freezes the timer and resumes automatically once duration elapses.
// A zero or negative duration resumes right away. Pausing while paused
// replaces the previous duration.
func (keeper *TimeKeeper) Pause(duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	keeper.pause(duration, true)
}

// PauseIndefinitely freezes the timer until Resume.
func (keeper *TimeKeeper) PauseIndefinitely() {
	keeper.pause(0, false)
}

func (keeper *TimeKeeper) pause(duration time.Duration, timed bool) {
	keeper.mu.Lock()
	keeper.cancelPauseTimerLocked()
	// A natural break cut short by the pause is never credited.
	keeper.held = false
	if timed {
		generation := keeper.pauseGeneration
		keeper.pauseTimer = keeper.options.AfterFunc(duration, func() {
			keeper.resumeAfterPause(generation)
		})
	}
	if keeper.paused {
		keeper.mu.Unlock()
		return
	}
	keeper.paused = true
	keeper.previousState = keeper.state
	keeper.state = StatePaused
	keeper.mu.Unlock()

	keeper.emit(Event{
		Type:  EventStateChange,
		State: StatePaused,
		At:    keeper.options.Now(),
	})
}

// Resume unfreezes the timer.
func (keeper *TimeKeeper) Resume() {
	keeper.mu.Lock()
	keeper.cancelPauseTimerLocked()
	keeper.resumeLocked()
}

// Toggle resumes when paused and pauses indefinitely otherwise.
func (keeper *TimeKeeper) Toggle() {
	if keeper.Paused() {
		keeper.Resume()
		return
	}
	keeper.PauseIndefinitely()
}

func (keeper *TimeKeeper) resumeAfterPause(generation int) {
	keeper.mu.Lock()
	if generation != keeper.pauseGeneration {
		keeper.mu.Unlock()
		return
	}
	keeper.pauseTimer = nil
	keeper.pauseGeneration++
	keeper.resumeLocked()
}

// resumeLocked releases the lock before emitting.
func (keeper *TimeKeeper) resumeLocked() {
	if !keeper.paused {
		keeper.mu.Unlock()
		return
	}
	keeper.paused = false
	keeper.state = keeper.previousState
	currentState := keeper.state
	keeper.mu.Unlock()

	keeper.emit(Event{
		Type:  EventStateChange,
		State: currentState,
		At:    keeper.options.Now(),
	})
}

func (keeper *TimeKeeper) cancelPauseTimerLocked() {
	if keeper.pauseTimer != nil {
		keeper.pauseTimer.Stop()
		keeper.pauseTimer = nil
	}
	keeper.pauseGeneration++
}

// UpdateConfig updates runtime configuration and resets work timers.
func (keeper *TimeKeeper) UpdateConfig(config model.TimeKeeperConfig) {
	keeper.mu.Lock()
	keeper.config = config
	keeper.resetWorkTimersLocked()
	keeper.mu.Unlock()
}

// Reset restarts the work countdowns, ending any break in progress.
// A pause stays in effect.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	keeper.held = false
	keeper.resetWorkTimersLocked()
	if keeper.paused {
		keeper.previousState = StateWork
		keeper.mu.Unlock()
		return
	}
	wasBreak := keeper.state.IsBreak()
	keeper.state = StateWork
	keeper.remaining = 0
	keeper.mu.Unlock()

	if wasBreak {
		keeper.emit(Event{
			Type:  EventStateChange,
			State: StateWork,
			At:    keeper.options.Now(),
		})
	}
}

// Skip ends the current break and returns to work state.
func (keeper *TimeKeeper) Skip() {
	keeper.mu.Lock()
	if !keeper.state.IsBreak() {
		keeper.mu.Unlock()
		return
	}
	keeper.state = StateWork
	keeper.remaining = 0
	keeper.resetWorkTimersLocked()
	keeper.mu.Unlock()

	keeper.emit(Event{
		Type:  EventStateChange,
		State: StateWork,
		At:    keeper.options.Now(),
	})
}

// SkipTo customizes the next break of the given kind and, unless noSkip is
// set, starts it right away.
func (keeper *TimeKeeper) SkipTo(state State, prompt model.BreakPrompt, noSkip bool) {
	if !state.IsBreak() {
		return
	}

	keeper.mu.Lock()
	if !prompt.IsZero() {
		keeper.nextPrompts[state] = prompt
	}
	keeper.mu.Unlock()

	if !noSkip {
		keeper.ForceBreak(state)
	}
}

// ForceBreak triggers an immediate mini or long break.
func (keeper *TimeKeeper) ForceBreak(state State) {
	if !state.IsBreak() {
		return
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running || keeper.paused {
		return
	}
	keeper.enterBreakLocked(state, keeper.options.Now())
}

// Hold freezes the work countdowns while a natural break already covers
// the next break. Repeated calls are no-ops.
func (keeper *TimeKeeper) Hold() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.held || keeper.state != StateWork {
		return
	}
	keeper.held = true
	keeper.emitLocked(Event{
		Type:  EventHeld,
		State: keeper.state,
		At:    keeper.options.Now(),
	})
}

// CreditNaturalBreak counts an idle period as a taken break. The mini
// countdown restarts; the long one too when idle lasted a long break.
func (keeper *TimeKeeper) CreditNaturalBreak(idle time.Duration) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.held = false
	if keeper.state != StateWork {
		return
	}
	if keeper.config.Long.Enabled && idle >= keeper.config.Long.Duration {
		keeper.resetWorkTimersLocked()
	} else {
		keeper.nextMini = keeper.config.Mini.Interval
	}
	keeper.emitLocked(Event{
		Type:      EventNaturalBreak,
		State:     keeper.state,
		Remaining: keeper.nextBreakRemainingLocked(),
		At:        keeper.options.Now(),
	})
}

func (keeper *TimeKeeper) run() {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-keeper.stopCh:
			return
		case tickTime := <-ticker.C:
			keeper.tick(tickTime)
		}
	}
}

func (keeper *TimeKeeper) tick(tickTime time.Time) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running || keeper.paused {
		return
	}

	if keeper.state == StateWork {
		if !keeper.held {
			keeper.advanceWorkLocked(keeper.options.TickInterval, tickTime)
		}
		if keeper.state == StateWork {
			keeper.maybeEmitProgressLocked(tickTime)
		}
	} else {
		keeper.advanceBreakLocked(keeper.options.TickInterval, tickTime)
	}
}

func (keeper *TimeKeeper) advanceWorkLocked(delta time.Duration, now time.Time) {
	if keeper.config.Long.Enabled {
		keeper.nextLong -= delta
		if keeper.nextLong <= 0 {
			keeper.enterBreakLocked(StateLongBreak, now)
			return
		}
	}
	if keeper.config.Mini.Enabled {
		keeper.nextMini -= delta
		if keeper.nextMini <= 0 {
			keeper.enterBreakLocked(StateMiniBreak, now)
			return
		}
	}
}

func (keeper *TimeKeeper) advanceBreakLocked(delta time.Duration, now time.Time) {
	keeper.remaining -= delta
	if keeper.remaining > 0 {
		keeper.emitLocked(Event{
			Type:       EventProgress,
			State:      keeper.state,
			Remaining:  keeper.remaining,
			Progress:   keeper.breakProgressLocked(),
			StrictMode: keeper.strictLocked(),
			Prompt:     keeper.prompt,
			Countdown:  keeper.countdown,
			At:         now,
		})
		return
	}

	keeper.state = StateWork
	keeper.remaining = 0
	keeper.prompt = model.BreakPrompt{}
	keeper.resetWorkTimersLocked()

	keeper.emitLocked(Event{
		Type:  EventStateChange,
		State: StateWork,
		At:    now,
	})
}

func (keeper *TimeKeeper) enterBreakLocked(state State, now time.Time) {
	keeper.state = state
	keeper.held = false

	var defaults model.BreakConfig
	if state == StateLongBreak {
		defaults = keeper.config.Long.BreakConfig
		keeper.resetWorkTimersLocked()
	} else {
		defaults = keeper.config.Mini
		keeper.nextMini = keeper.config.Mini.Interval
	}
	keeper.remaining = defaults.Duration
	keeper.prompt = keeper.nextPrompts[state].Merge(defaults.Prompt)
	delete(keeper.nextPrompts, state)
	keeper.countdown = model.Progress{StartedAt: now, Duration: defaults.Duration}

	keeper.emitLocked(Event{
		Type:       EventStateChange,
		State:      state,
		Remaining:  keeper.remaining,
		StrictMode: keeper.strictLocked(),
		Prompt:     keeper.prompt,
		Countdown:  keeper.countdown,
		At:         now,
	})
}

func (keeper *TimeKeeper) strictLocked() bool {
	return keeper.state == StateLongBreak && keeper.config.Long.StrictMode
}

func (keeper *TimeKeeper) resetWorkTimersLocked() {
	keeper.nextMini = keeper.config.Mini.Interval
	keeper.nextLong = keeper.config.Long.Interval
}

func (keeper *TimeKeeper) breakProgressLocked() float64 {
	var total time.Duration
	switch keeper.state {
	case StateMiniBreak:
		total = keeper.config.Mini.Duration
	case StateLongBreak:
		total = keeper.config.Long.Duration
	}
	if total <= 0 {
		return 1
	}
	progress := float64(total-keeper.remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (keeper *TimeKeeper) maybeEmitProgressLocked(now time.Time) {
	if keeper.lastProgressSent.IsZero() || now.Sub(keeper.lastProgressSent) >= keeper.options.TickInterval {
		keeper.emitLocked(Event{
			Type:      EventProgress,
			State:     keeper.state,
			Remaining: keeper.nextBreakRemainingLocked(),
			Progress:  keeper.workProgressLocked(),
			At:        now,
		})
		keeper.lastProgressSent = now
	}
}

func (keeper *TimeKeeper) nextBreakRemainingLocked() time.Duration {
	if keeper.config.Long.Enabled && keeper.nextLong < keeper.nextMini {
		return keeper.nextLong
	}
	if keeper.config.Mini.Enabled {
		return keeper.nextMini
	}
	if keeper.config.Long.Enabled {
		return keeper.nextLong
	}
	return 0
}

func (keeper *TimeKeeper) workProgressLocked() float64 {
	if keeper.config.Long.Enabled && keeper.config.Long.Interval > 0 {
		return float64(keeper.config.Long.Interval-keeper.nextLong) / float64(keeper.config.Long.Interval)
	}
	if keeper.config.Mini.Enabled && keeper.config.Mini.Interval > 0 {
		return float64(keeper.config.Mini.Interval-keeper.nextMini) / float64(keeper.config.Mini.Interval)
	}
	return 0
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(event)
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

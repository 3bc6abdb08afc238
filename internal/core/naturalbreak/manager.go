// Package naturalbreak detects breaks the user takes on their own by
// sampling system idle time.
package naturalbreak

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultTickInterval is the idle sampling cadence.
	DefaultTickInterval = time.Second
	// DefaultThreshold is the idle time after which a natural break begins.
	DefaultThreshold = 20 * time.Second
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider reports the duration of user inactivity.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// Settings exposes the preferences the manager reads on every sample.
type Settings interface {
	NaturalBreaks() bool
	BreakDuration() time.Duration
}

// Config contains runtime options for Manager.
type Config struct {
	TickInterval time.Duration
	Threshold    time.Duration
	Logger       *slog.Logger
	Now          func() time.Time
}

// Manager is a two-state machine: not on a natural break, or on one.
type Manager struct {
	mu                 sync.Mutex
	settings           Settings
	idle               IdleProvider
	options            Config
	logger             *slog.Logger
	usingNaturalBreaks bool
	isOnNaturalBreak   bool
	lastIdle           time.Duration
	unsupported        bool
	stopCh             chan struct{}
	events             []chan Event
	resetCh            chan struct{}
}

// New creates a Manager and starts sampling when natural breaks are enabled.
func New(settings Settings, idle IdleProvider, options Config) *Manager {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if options.Threshold <= 0 {
		options.Threshold = DefaultThreshold
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	manager := &Manager{
		settings: settings,
		idle:     idle,
		options:  options,
		logger:   logger.With("component", "natural_breaks"),
		resetCh:  make(chan struct{}, 1),
	}
	if settings.NaturalBreaks() {
		manager.Start()
	}
	return manager
}

// Subscribe registers a new observer channel.
func (manager *Manager) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	manager.mu.Lock()
	manager.events = append(manager.events, ch)
	manager.mu.Unlock()
	return ch
}

// ResetRequests returns the channel external callers use to ask for a reset,
// for example when the user explicitly signals activity.
func (manager *Manager) ResetRequests() chan<- struct{} {
	return manager.resetCh
}

// RequestReset queues a reset without blocking. Requests coalesce.
func (manager *Manager) RequestReset() {
	select {
	case manager.resetCh <- struct{}{}:
	default:
	}
}

// Watch serves reset requests until ctx is done.
func (manager *Manager) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-manager.resetCh:
			manager.logger.Debug("resetting")
			manager.Reset()
		}
	}
}

// Start enables sampling. It is a no-op when already sampling or when idle
// detection turned out to be unsupported.
func (manager *Manager) Start() {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.unsupported || manager.stopCh != nil {
		return
	}
	manager.usingNaturalBreaks = true
	manager.lastIdle = 0
	manager.stopCh = make(chan struct{})
	go manager.run(manager.stopCh)
}

// Stop disables sampling and abandons any natural break in progress.
// It is safe to call when not sampling.
func (manager *Manager) Stop() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.stopLocked()
}

// Reset restarts sampling from a clean state.
func (manager *Manager) Reset() {
	manager.Stop()
	manager.Start()
}

// Close stops sampling and closes observers.
func (manager *Manager) Close() {
	manager.mu.Lock()
	manager.stopLocked()
	events := manager.events
	manager.events = nil
	manager.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Enabled reports whether idle time is being sampled.
func (manager *Manager) Enabled() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.usingNaturalBreaks
}

// IsOnNaturalBreak reports whether a natural break is in progress.
func (manager *Manager) IsOnNaturalBreak() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.isOnNaturalBreak
}

func (manager *Manager) run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(manager.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			manager.sample(stopCh)
		}
	}
}

// sample ticks unless stopCh belongs to a loop that was stopped since; its
// select may pick a ready tick over the closed stop channel.
func (manager *Manager) sample(stopCh <-chan struct{}) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.stopCh == nil || manager.stopCh != stopCh {
		return
	}
	manager.tickLocked()
}

func (manager *Manager) tick() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.tickLocked()
}

func (manager *Manager) tickLocked() {
	idle, err := manager.idleTimeLocked()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			manager.logger.Warn("disabling natural breaks for this session", "error", err)
			manager.unsupported = true
			manager.stopLocked()
			return
		}
		manager.logger.Debug("read idle time", "error", err)
		return
	}

	now := manager.options.Now()
	breakDuration := manager.settings.BreakDuration()

	if !manager.isOnNaturalBreak && idle > manager.options.Threshold {
		manager.isOnNaturalBreak = true
		manager.logger.Debug("natural break started", "idle", idle)
		manager.emitLocked(Event{Type: EventStarted, Idle: idle, At: now})
	}
	if manager.isOnNaturalBreak && idle < manager.options.Threshold {
		manager.isOnNaturalBreak = false
		manager.logger.Debug("natural break ended", "idle", manager.lastIdle)
		// The sample that ends the break is already short, so the break is
		// credited with the last reading taken while idle.
		if manager.lastIdle > breakDuration {
			manager.emitLocked(Event{Type: EventFinished, Idle: manager.lastIdle, At: now})
		}
	}
	if manager.isOnNaturalBreak && idle > breakDuration {
		manager.emitLocked(Event{Type: EventClearScheduler, Idle: idle, At: now})
	}
	manager.lastIdle = idle
}

func (manager *Manager) idleTimeLocked() (time.Duration, error) {
	if !manager.usingNaturalBreaks || manager.idle == nil {
		return 0, nil
	}
	return manager.idle.IdleDuration()
}

func (manager *Manager) stopLocked() {
	manager.usingNaturalBreaks = false
	manager.isOnNaturalBreak = false
	manager.lastIdle = 0
	if manager.stopCh != nil {
		close(manager.stopCh)
		manager.stopCh = nil
	}
}

func (manager *Manager) emitLocked(event Event) {
	for _, ch := range manager.events {
		select {
		case ch <- event:
		default:
		}
	}
}

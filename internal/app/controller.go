// Package app applies parsed commands to the running instance and routes
// natural break events to the break scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"breaktime/internal/core/command"
	"breaktime/internal/core/model"
	"breaktime/internal/core/naturalbreak"
	"breaktime/internal/core/timekeeper"
	"breaktime/internal/metrics"
)

var (
	// ErrInvalidDuration indicates a pause duration that could not be parsed.
	ErrInvalidDuration = errors.New("invalid pause duration")
	// ErrLocalCommand indicates a command that only runs in the invoking process.
	ErrLocalCommand = errors.New("command runs in the invoking process")
)

// Scheduler is the break scheduler the controller drives.
type Scheduler interface {
	Pause(duration time.Duration)
	PauseIndefinitely()
	Resume()
	Toggle()
	Paused() bool
	Reset()
	SkipTo(state timekeeper.State, prompt model.BreakPrompt, noSkip bool)
	Hold()
	CreditNaturalBreak(idle time.Duration)
	Subscribe(buffer int) <-chan timekeeper.Event
}

// NaturalBreaks is the natural break detector the controller drives.
type NaturalBreaks interface {
	Start()
	Stop()
	RequestReset()
	Subscribe(buffer int) <-chan naturalbreak.Event
}

// Controller executes commands against the scheduler and detector.
type Controller struct {
	scheduler Scheduler
	natural   NaturalBreaks
	settings  naturalbreak.Settings
	morning   command.MorningClock
	metrics   *metrics.Recorder
	logger    *slog.Logger

	naturalEvents   <-chan naturalbreak.Event
	schedulerEvents <-chan timekeeper.Event
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(controller *Controller) {
		if logger != nil {
			controller.logger = logger
		}
	}
}

// WithMetrics records executed commands and break events.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(controller *Controller) {
		controller.metrics = recorder
	}
}

// WithMorningClock resolves "until-morning" pause durations.
func WithMorningClock(morning command.MorningClock) Option {
	return func(controller *Controller) {
		controller.morning = morning
	}
}

// New creates a Controller. It subscribes to both event sources right away
// so no event is lost before Run starts.
func New(scheduler Scheduler, natural NaturalBreaks, settings naturalbreak.Settings, opts ...Option) *Controller {
	controller := &Controller{
		scheduler: scheduler,
		natural:   natural,
		settings:  settings,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(controller)
	}
	controller.logger = controller.logger.With("component", "controller")
	controller.naturalEvents = natural.Subscribe(16)
	controller.schedulerEvents = scheduler.Subscribe(16)
	return controller
}

// Execute applies cmd to the running instance.
func (controller *Controller) Execute(cmd *command.Command) error {
	err := controller.execute(cmd)
	name := cmd.Name
	if name == "" {
		name = "unsupported"
	}
	controller.metrics.CommandExecuted(name, err)
	if err != nil {
		controller.logger.Warn("command rejected", "command", name, "error", err)
		return err
	}
	controller.logger.Info("command executed", "command", name)
	return nil
}

func (controller *Controller) execute(cmd *command.Command) error {
	if err := cmd.Err(); err != nil {
		return err
	}

	switch cmd.Name {
	case "help", "version":
		return fmt.Errorf("%s: %w", cmd.Name, ErrLocalCommand)
	case "pause":
		return controller.pause(cmd)
	case "resume":
		controller.scheduler.Resume()
		controller.startNaturalBreaks()
	case "toggle":
		controller.scheduler.Toggle()
		if controller.scheduler.Paused() {
			controller.natural.Stop()
		} else {
			controller.startNaturalBreaks()
		}
	case "reset":
		controller.scheduler.Reset()
		controller.natural.RequestReset()
	case "mini":
		controller.skipTo(timekeeper.StateMiniBreak, cmd)
	case "long":
		controller.skipTo(timekeeper.StateLongBreak, cmd)
	default:
		return fmt.Errorf("%q: %w", cmd.Name, command.ErrUnsupportedCommand)
	}
	return nil
}

func (controller *Controller) pause(cmd *command.Command) error {
	ms := cmd.DurationToMs(controller.morning)
	if ms == command.InvalidDuration {
		return fmt.Errorf("%q: %w", cmd.Duration(), ErrInvalidDuration)
	}

	if ms == command.NoDelay {
		controller.scheduler.PauseIndefinitely()
	} else {
		controller.scheduler.Pause(time.Duration(ms) * time.Millisecond)
	}
	controller.natural.Stop()
	return nil
}

func (controller *Controller) skipTo(state timekeeper.State, cmd *command.Command) {
	prompt := model.BreakPrompt{Title: cmd.Title(), Text: cmd.Text()}
	controller.scheduler.SkipTo(state, prompt, cmd.NoSkip())
}

func (controller *Controller) startNaturalBreaks() {
	if controller.settings.NaturalBreaks() {
		controller.natural.Start()
	}
}

// Run routes events until ctx is done or both event sources close.
func (controller *Controller) Run(ctx context.Context) {
	naturalEvents := controller.naturalEvents
	schedulerEvents := controller.schedulerEvents
	for naturalEvents != nil || schedulerEvents != nil {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-naturalEvents:
			if !ok {
				naturalEvents = nil
				continue
			}
			controller.handleNaturalBreak(event)
		case event, ok := <-schedulerEvents:
			if !ok {
				schedulerEvents = nil
				continue
			}
			controller.handleSchedulerEvent(event)
		}
	}
}

// handleSchedulerEvent keeps natural break sampling in step with the
// scheduler, including pauses that end on their own timer.
func (controller *Controller) handleSchedulerEvent(event timekeeper.Event) {
	if event.Type != timekeeper.EventStateChange {
		return
	}
	switch {
	case event.State == timekeeper.StatePaused:
		controller.natural.Stop()
	case event.State.IsBreak():
		controller.metrics.BreakStarted(string(event.State))
	default:
		controller.startNaturalBreaks()
	}
}

func (controller *Controller) handleNaturalBreak(event naturalbreak.Event) {
	controller.metrics.NaturalBreakEvent(string(event.Type), event.Idle)
	switch event.Type {
	case naturalbreak.EventStarted:
		controller.logger.Info("natural break started", "idle", event.Idle)
	case naturalbreak.EventFinished:
		controller.logger.Info("natural break finished", "idle", event.Idle)
		controller.scheduler.CreditNaturalBreak(event.Idle)
	case naturalbreak.EventClearScheduler:
		controller.scheduler.Hold()
	}
}

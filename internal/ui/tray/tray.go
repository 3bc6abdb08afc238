// Package tray renders the BreakTime system tray menu. Every menu action is
// a command line run through the command parser, so the tray and the CLI
// drive the instance the same way.
package tray

import (
	"fmt"
	"log/slog"
	"time"

	"breaktime/internal/core/command"
	"breaktime/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "BreakTime"

// Executor runs a parsed command in this instance.
type Executor interface {
	Execute(cmd *command.Command) error
}

// Icons holds the tray icons for each mode.
type Icons struct {
	Active fyne.Resource
	Paused fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app      desktop.App
	executor Executor
	icons    Icons
	version  string
	logger   *slog.Logger
	onQuit   func()

	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	pauseFor   *fyne.MenuItem
	miniItem   *fyne.MenuItem
	longItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem

	paused      bool
	state       timekeeper.State
	statusLabel string
}

// New creates a tray manager and installs its menu.
func New(app desktop.App, executor Executor, icons Icons, version string, logger *slog.Logger, onQuit func()) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	manager := &Manager{
		app:         app,
		executor:    executor,
		icons:       icons,
		version:     version,
		logger:      logger.With("component", "tray"),
		onQuit:      onQuit,
		state:       timekeeper.StateWork,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Pause", manager.run("toggle"))

	manager.pauseFor = fyne.NewMenuItem("Pause breaks for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("30 minutes", manager.run("pause", "-d", "30m")),
		fyne.NewMenuItem("1 hour", manager.run("pause", "-d", "1h")),
		fyne.NewMenuItem("2 hours", manager.run("pause", "-d", "2h")),
		fyne.NewMenuItem("Until morning", manager.run("pause", "-d", "until-morning")),
		fyne.NewMenuItem("Indefinitely", manager.run("pause", "-d", "indefinitely")),
	)

	manager.miniItem = fyne.NewMenuItem("Mini break now", manager.run("mini"))
	manager.longItem = fyne.NewMenuItem("Long break now", manager.run("long"))
	manager.resetItem = fyne.NewMenuItem("Reset breaks", manager.run("reset"))

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.onQuit != nil {
			manager.onQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.refreshStatus()
	if app != nil && icons.Active != nil {
		app.SetSystemTrayIcon(icons.Active)
	}
	return manager
}

func (manager *Manager) run(args ...string) func() {
	return func() {
		cmd := command.New(args, manager.version, command.WithLogger(manager.logger))
		if err := manager.executor.Execute(cmd); err != nil {
			manager.logger.Error("menu command failed", "command", cmd.Name, "error", err)
		}
	}
}

// HandleEvent updates the menu from a scheduler event. It must run on the
// fyne UI goroutine.
func (manager *Manager) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange:
		manager.state = event.State
		manager.setPaused(event.State == timekeeper.StatePaused)
		switch {
		case event.State.IsBreak():
			manager.statusLabel = breakLabel(event.State)
		case event.State == timekeeper.StateWork:
			manager.statusLabel = "working"
		}
	case timekeeper.EventProgress, timekeeper.EventNaturalBreak:
		switch {
		case manager.state == timekeeper.StateWork:
			manager.statusLabel = "next break in " + FormatRemaining(event.Remaining)
		case manager.state.IsBreak():
			manager.statusLabel = fmt.Sprintf("%s, %s left", breakLabel(manager.state), FormatRemaining(event.Remaining))
		}
	case timekeeper.EventHeld:
		manager.statusLabel = "on a natural break"
	}
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) setPaused(paused bool) {
	if manager.paused == paused {
		return
	}
	manager.paused = paused
	icon := manager.icons.Active
	if paused {
		manager.toggleItem.Label = "Resume"
		icon = manager.icons.Paused
	} else {
		manager.toggleItem.Label = "Pause"
	}
	if manager.app != nil && icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = "paused"
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.miniItem.Disabled = manager.paused
	manager.longItem.Disabled = manager.paused
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.pauseFor,
		manager.miniItem,
		manager.longItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	))
}

func breakLabel(state timekeeper.State) string {
	if state == timekeeper.StateLongBreak {
		return "long break"
	}
	return "mini break"
}

// FormatRemaining renders a countdown as MM:SS, or H:MM:SS past an hour.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Round(time.Second).Seconds())
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds %= 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

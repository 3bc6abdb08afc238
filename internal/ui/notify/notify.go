// Package notify presents break prompts as desktop notifications.
package notify

import (
	"fmt"
	"time"

	"breaktime/internal/core/timekeeper"

	"fyne.io/fyne/v2"
)

// Sender delivers notifications. fyne.App satisfies it.
type Sender interface {
	SendNotification(notification *fyne.Notification)
}

// Presenter turns scheduler events into notifications.
type Presenter struct {
	sender  Sender
	inBreak bool
}

// New creates a Presenter.
func New(sender Sender) *Presenter {
	return &Presenter{sender: sender}
}

// HandleEvent notifies when a break starts and when it ends.
func (presenter *Presenter) HandleEvent(event timekeeper.Event) {
	if event.Type != timekeeper.EventStateChange {
		return
	}

	switch {
	case event.State.IsBreak():
		presenter.inBreak = true
		presenter.sender.SendNotification(breakNotification(event))
	case event.State == timekeeper.StateWork && presenter.inBreak:
		presenter.inBreak = false
		presenter.sender.SendNotification(fyne.NewNotification("Break over", "Back to work."))
	case event.State == timekeeper.StatePaused:
		presenter.inBreak = false
	}
}

func breakNotification(event timekeeper.Event) *fyne.Notification {
	message := event.Prompt.Message()
	text := message[1]
	if event.Countdown.Duration > 0 {
		length := fmt.Sprintf("%s break.", formatLength(event.Countdown.Duration))
		if text == "" {
			text = length
		} else {
			text = text + " " + length
		}
	}
	if event.StrictMode {
		text += " This break cannot be skipped."
	}
	return fyne.NewNotification(message[0], text)
}

func formatLength(duration time.Duration) string {
	if duration < time.Minute {
		return fmt.Sprintf("%d second", int(duration.Round(time.Second).Seconds()))
	}
	return fmt.Sprintf("%d minute", int(duration.Round(time.Minute).Minutes()))
}

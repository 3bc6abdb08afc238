package notify

import (
	"testing"
	"time"

	"breaktime/internal/core/model"
	"breaktime/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*fyne.Notification
}

func (sender *recordingSender) SendNotification(notification *fyne.Notification) {
	sender.sent = append(sender.sent, notification)
}

func TestBreakStartAndEnd(t *testing.T) {
	sender := &recordingSender{}
	presenter := New(sender)

	presenter.HandleEvent(timekeeper.Event{
		Type:      timekeeper.EventStateChange,
		State:     timekeeper.StateMiniBreak,
		Prompt:    model.BreakPrompt{Title: "Mini break", Text: "Look away."},
		Countdown: model.Progress{Duration: 15 * time.Second},
	})
	presenter.HandleEvent(timekeeper.Event{Type: timekeeper.EventProgress, State: timekeeper.StateMiniBreak})
	presenter.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateWork})

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "Mini break", sender.sent[0].Title)
	assert.Equal(t, "Look away. 15 second break.", sender.sent[0].Content)
	assert.Equal(t, "Break over", sender.sent[1].Title)
}

func TestStrictLongBreak(t *testing.T) {
	sender := &recordingSender{}
	presenter := New(sender)

	presenter.HandleEvent(timekeeper.Event{
		Type:       timekeeper.EventStateChange,
		State:      timekeeper.StateLongBreak,
		StrictMode: true,
		Prompt:     model.BreakPrompt{Title: "Stretch up !"},
		Countdown:  model.Progress{Duration: 5 * time.Minute},
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Stretch up !", sender.sent[0].Title)
	assert.Equal(t, "5 minute break. This break cannot be skipped.", sender.sent[0].Content)
}

func TestWorkWithoutBreakIsSilent(t *testing.T) {
	sender := &recordingSender{}
	presenter := New(sender)

	presenter.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateWork})
	presenter.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StatePaused})
	presenter.HandleEvent(timekeeper.Event{Type: timekeeper.EventStateChange, State: timekeeper.StateWork})
	assert.Empty(t, sender.sent)
}

// Package storage loads BreakTime preferences.
package storage

import (
	"time"

	"breaktime/internal/core/model"
	"breaktime/internal/core/morning"
)

// Settings defines user preferences.
type Settings struct {
	MiniInterval time.Duration
	MiniDuration time.Duration
	LongInterval time.Duration
	LongDuration time.Duration
	StrictMode   bool

	UseNaturalBreaks bool
	MorningHour      int
	MetricsAddr      string

	MiniPrompt model.BreakPrompt
	LongPrompt model.BreakPrompt
}

// DefaultSettings returns default settings for BreakTime.
func DefaultSettings() Settings {
	return Settings{
		MiniInterval:     15 * time.Minute,
		MiniDuration:     15 * time.Second,
		LongInterval:     50 * time.Minute,
		LongDuration:     5 * time.Minute,
		StrictMode:       false,
		UseNaturalBreaks: true,
		MorningHour:      morning.DefaultHour,
		MiniPrompt: model.BreakPrompt{
			Title: "Time for a mini break",
			Text:  "Look at something far away for a few seconds.",
		},
		LongPrompt: model.BreakPrompt{
			Title: "Time for a long break",
			Text:  "Stand up, stretch and walk around.",
		},
	}
}

// NaturalBreaks reports whether natural break detection is enabled.
func (settings Settings) NaturalBreaks() bool {
	return settings.UseNaturalBreaks
}

// BreakDuration is the idle time a natural break needs to count as a break.
func (settings Settings) BreakDuration() time.Duration {
	return settings.MiniDuration
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{
		Mini: model.BreakConfig{
			Interval: settings.MiniInterval,
			Duration: settings.MiniDuration,
			Enabled:  true,
			Prompt:   settings.MiniPrompt,
		},
		Long: model.LongBreakConfig{
			BreakConfig: model.BreakConfig{
				Interval: settings.LongInterval,
				Duration: settings.LongDuration,
				Enabled:  true,
				Prompt:   settings.LongPrompt,
			},
			StrictMode: settings.StrictMode,
		},
	}
}

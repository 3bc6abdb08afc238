package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"breaktime/internal/platform"

	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	envPrefix        = "BREAKTIME_"
)

// ErrInvalidSettings is returned when a setting is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

type yamlSettings struct {
	MiniIntervalMinutes *int    `yaml:"mini_break_interval_minutes"`
	MiniDurationSeconds *int    `yaml:"mini_break_duration_seconds"`
	LongIntervalMinutes *int    `yaml:"long_break_interval_minutes"`
	LongDurationMinutes *int    `yaml:"long_break_duration_minutes"`
	StrictMode          *bool   `yaml:"strict_mode"`
	NaturalBreaks       *bool   `yaml:"natural_breaks"`
	MorningHour         *int    `yaml:"morning_hour"`
	MetricsAddr         *string `yaml:"metrics_addr"`
	MiniTitle           *string `yaml:"mini_break_title"`
	MiniText            *string `yaml:"mini_break_text"`
	LongTitle           *string `yaml:"long_break_title"`
	LongText            *string `yaml:"long_break_text"`
}

// LoadSettings reads user preferences. An empty path selects
// <config dir>/<appName>/settings.yaml. A missing file yields defaults;
// BREAKTIME_* environment variables override both.
func LoadSettings(appName, path string) (Settings, error) {
	settings := DefaultSettings()

	if path == "" {
		resolved, err := DefaultPath(appName)
		if err != nil {
			return settings, err
		}
		path = resolved
	}

	rawData, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return settings, fmt.Errorf("read settings file: %w", err)
	default:
		var fileData yamlSettings
		if err := yaml.Unmarshal(rawData, &fileData); err != nil {
			return settings, fmt.Errorf("parse settings yaml: %w", err)
		}
		applyYamlSettings(&settings, fileData)
	}

	if err := applyEnv(&settings, os.LookupEnv); err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// DefaultPath returns the settings file location for appName.
func DefaultPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Validate checks that durations are positive and the morning hour is a
// valid hour of the day.
func (settings Settings) Validate() error {
	switch {
	case settings.MiniInterval <= 0:
		return fmt.Errorf("%w: mini break interval must be positive", ErrInvalidSettings)
	case settings.MiniDuration <= 0:
		return fmt.Errorf("%w: mini break duration must be positive", ErrInvalidSettings)
	case settings.LongInterval <= 0:
		return fmt.Errorf("%w: long break interval must be positive", ErrInvalidSettings)
	case settings.LongDuration <= 0:
		return fmt.Errorf("%w: long break duration must be positive", ErrInvalidSettings)
	case settings.MorningHour < 0 || settings.MorningHour > 23:
		return fmt.Errorf("%w: morning hour %d out of range 0-23", ErrInvalidSettings, settings.MorningHour)
	}
	return nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.MiniIntervalMinutes != nil {
		settings.MiniInterval = time.Duration(*fileData.MiniIntervalMinutes) * time.Minute
	}
	if fileData.MiniDurationSeconds != nil {
		settings.MiniDuration = time.Duration(*fileData.MiniDurationSeconds) * time.Second
	}
	if fileData.LongIntervalMinutes != nil {
		settings.LongInterval = time.Duration(*fileData.LongIntervalMinutes) * time.Minute
	}
	if fileData.LongDurationMinutes != nil {
		settings.LongDuration = time.Duration(*fileData.LongDurationMinutes) * time.Minute
	}
	if fileData.StrictMode != nil {
		settings.StrictMode = *fileData.StrictMode
	}
	if fileData.NaturalBreaks != nil {
		settings.UseNaturalBreaks = *fileData.NaturalBreaks
	}
	if fileData.MorningHour != nil {
		settings.MorningHour = *fileData.MorningHour
	}
	if fileData.MetricsAddr != nil {
		settings.MetricsAddr = *fileData.MetricsAddr
	}
	if fileData.MiniTitle != nil {
		settings.MiniPrompt.Title = *fileData.MiniTitle
	}
	if fileData.MiniText != nil {
		settings.MiniPrompt.Text = *fileData.MiniText
	}
	if fileData.LongTitle != nil {
		settings.LongPrompt.Title = *fileData.LongTitle
	}
	if fileData.LongText != nil {
		settings.LongPrompt.Text = *fileData.LongText
	}
}

type lookupFunc func(string) (string, bool)

func applyEnv(settings *Settings, lookup lookupFunc) error {
	durations := []struct {
		key    string
		unit   time.Duration
		target *time.Duration
	}{
		{"MINI_BREAK_INTERVAL_MINUTES", time.Minute, &settings.MiniInterval},
		{"MINI_BREAK_DURATION_SECONDS", time.Second, &settings.MiniDuration},
		{"LONG_BREAK_INTERVAL_MINUTES", time.Minute, &settings.LongInterval},
		{"LONG_BREAK_DURATION_MINUTES", time.Minute, &settings.LongDuration},
	}
	for _, entry := range durations {
		value, ok, err := envInt(lookup, entry.key)
		if err != nil {
			return err
		}
		if ok {
			*entry.target = time.Duration(value) * entry.unit
		}
	}

	flags := []struct {
		key    string
		target *bool
	}{
		{"STRICT_MODE", &settings.StrictMode},
		{"NATURAL_BREAKS", &settings.UseNaturalBreaks},
	}
	for _, entry := range flags {
		raw, ok := lookup(envPrefix + entry.key)
		if !ok {
			continue
		}
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, entry.key, err)
		}
		*entry.target = value
	}

	hour, ok, err := envInt(lookup, "MORNING_HOUR")
	if err != nil {
		return err
	}
	if ok {
		settings.MorningHour = hour
	}
	if addr, ok := lookup(envPrefix + "METRICS_ADDR"); ok {
		settings.MetricsAddr = strings.TrimSpace(addr)
	}
	return nil
}

func envInt(lookup lookupFunc, key string) (int, bool, error) {
	raw, ok := lookup(envPrefix + key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("parse %s%s: %w", envPrefix, key, err)
	}
	return value, true, nil
}

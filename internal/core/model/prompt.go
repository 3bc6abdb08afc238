package model

import "time"

// BreakPrompt is the message shown when a break starts.
type BreakPrompt struct {
	Title string
	Text  string
}

// Message returns the prompt as the [title, text] pair used by presenters.
func (prompt BreakPrompt) Message() [2]string {
	return [2]string{prompt.Title, prompt.Text}
}

// IsZero reports whether neither title nor text is set.
func (prompt BreakPrompt) IsZero() bool {
	return prompt.Title == "" && prompt.Text == ""
}

// Merge returns prompt with empty fields taken from fallback.
func (prompt BreakPrompt) Merge(fallback BreakPrompt) BreakPrompt {
	if prompt.Title == "" {
		prompt.Title = fallback.Title
	}
	if prompt.Text == "" {
		prompt.Text = fallback.Text
	}
	return prompt
}

// Progress drives a break countdown.
type Progress struct {
	StartedAt time.Time
	Duration  time.Duration
}

// Remaining returns the time left at now, never negative.
func (progress Progress) Remaining(now time.Time) time.Duration {
	remaining := progress.Duration - now.Sub(progress.StartedAt)
	if remaining < 0 {
		return 0
	}
	if remaining > progress.Duration {
		return progress.Duration
	}
	return remaining
}

// Fraction returns the elapsed share of the break in [0, 1].
func (progress Progress) Fraction(now time.Time) float64 {
	if progress.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(progress.StartedAt)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= progress.Duration {
		return 1
	}
	return float64(elapsed) / float64(progress.Duration)
}

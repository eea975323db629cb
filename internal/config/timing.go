package config

import "time"

// Timing collects every delay and attempt ceiling used against a live page.
type Timing struct {
	// Scroll loader
	ScrollSettle        time.Duration
	StableIterations    int
	MaxScrollIterations int

	// User message reads
	UserAttempts int
	UserDelay    time.Duration

	// Assistant copy-control round trips
	CopyAttempts   int
	HoverDelay     time.Duration
	StepDelay      time.Duration
	ClipboardDelay time.Duration

	// Pause between conversations in bulk export
	BulkInterval time.Duration
}

// DefaultTiming returns the timing used when neither the site nor the
// config file says otherwise.
func DefaultTiming() Timing {
	return Timing{
		ScrollSettle:        2 * time.Second,
		StableIterations:    4,
		MaxScrollIterations: 60,
		UserAttempts:        3,
		UserDelay:           100 * time.Millisecond,
		CopyAttempts:        10,
		HoverDelay:          200 * time.Millisecond,
		StepDelay:           300 * time.Millisecond,
		ClipboardDelay:      300 * time.Millisecond,
		BulkInterval:        2 * time.Second,
	}
}

// Override keys under the [timing] table. Durations are milliseconds.
const (
	KeyScrollSettle        = "timing.scroll_settle_ms"
	KeyStableIterations    = "timing.stable_iterations"
	KeyMaxScrollIterations = "timing.max_scroll_iterations"
	KeyUserAttempts        = "timing.user_attempts"
	KeyUserDelay           = "timing.user_delay_ms"
	KeyCopyAttempts        = "timing.copy_attempts"
	KeyHoverDelay          = "timing.hover_delay_ms"
	KeyStepDelay           = "timing.step_delay_ms"
	KeyClipboardDelay      = "timing.clipboard_delay_ms"
	KeyBulkInterval        = "timing.bulk_interval_ms"
)

// WithOverrides returns t with any [timing] values from s applied.
// Non-positive values are ignored.
func (t Timing) WithOverrides(s *Store) Timing {
	if s == nil {
		return t
	}
	ms := func(key string, dst *time.Duration) {
		if v, ok := s.GetInt(key); ok && v > 0 {
			*dst = time.Duration(v) * time.Millisecond
		}
	}
	count := func(key string, dst *int) {
		if v, ok := s.GetInt(key); ok && v > 0 {
			*dst = v
		}
	}

	ms(KeyScrollSettle, &t.ScrollSettle)
	count(KeyStableIterations, &t.StableIterations)
	count(KeyMaxScrollIterations, &t.MaxScrollIterations)
	count(KeyUserAttempts, &t.UserAttempts)
	ms(KeyUserDelay, &t.UserDelay)
	count(KeyCopyAttempts, &t.CopyAttempts)
	ms(KeyHoverDelay, &t.HoverDelay)
	ms(KeyStepDelay, &t.StepDelay)
	ms(KeyClipboardDelay, &t.ClipboardDelay)
	ms(KeyBulkInterval, &t.BulkInterval)
	return t
}

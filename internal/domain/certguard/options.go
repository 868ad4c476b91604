package certguard

import "github.com/velamar/crewops/internal/domain/dedupe"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThresholdWindows switches alert generation to the legacy schedule
// that only fires within 7 days of each threshold {180, 90, 60, 30, 14, 0}.
// Use when alert-volume parity with historical notifications matters.
func WithThresholdWindows() Option {
	return func(e *Engine) {
		e.windowed = true
	}
}

// WithAlertDeduper sets the suppression cache for repeated alerts.
func WithAlertDeduper(d dedupe.Deduper) Option {
	return func(e *Engine) {
		if d != nil {
			e.deduper = d
		}
	}
}

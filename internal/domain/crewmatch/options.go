package crewmatch

import (
	"time"

	"github.com/velamar/crewops/internal/domain/model"
)

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithPerformanceScorer replaces the performance-history sub-scorer.
func WithPerformanceScorer(s SubScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.performance = s
		}
	}
}

// WithCostScorer replaces the travel-cost sub-scorer.
func WithCostScorer(s SubScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.cost = s
		}
	}
}

// WithPreferenceScorer replaces the crew-preference sub-scorer.
func WithPreferenceScorer(s SubScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.preference = s
		}
	}
}

// WithContinuityScorer replaces the prior-vessel-service sub-scorer.
func WithContinuityScorer(s SubScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.continuity = s
		}
	}
}

// WithExperienceEstimator replaces the experience-years estimate used in the
// technical score.
func WithExperienceEstimator(f func(p Profile) float64) Option {
	return func(m *Matcher) {
		if f != nil {
			m.experienceYears = f
		}
	}
}

// WithFamiliarityEstimator replaces the vessel-type familiarity points
// (0-30) used in the technical score.
func WithFamiliarityEstimator(f func(p Profile, vessel model.Vessel) float64) Option {
	return func(m *Matcher) {
		if f != nil {
			m.familiarity = f
		}
	}
}

// WithClock fixes the time source. Tests use this to pin risk-window and
// availability calculations.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) {
		if now != nil {
			m.now = now
		}
	}
}

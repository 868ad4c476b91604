// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BatchWorkerCount sets the number of batch evaluation workers.
	BatchWorkerCount int `koanf:"batch_worker_count"`

	// BatchQueueSize bounds the pending batch job queue.
	BatchQueueSize int `koanf:"batch_queue_size"`

	// AlertDedupeSize bounds the expiry-alert suppression cache.
	AlertDedupeSize int `koanf:"alert_dedupe_size"`

	// ExpiryLookaheadDays is the default expiring-certificate scan window.
	ExpiryLookaheadDays int `koanf:"expiry_lookahead_days"`

	// UseThresholdWindows selects the legacy sparse alert schedule instead
	// of the continuous severity table.
	UseThresholdWindows bool `koanf:"use_threshold_windows"`

	// ComplianceDefaultDays is the default lookback for the compliance
	// overview when the request does not specify one.
	ComplianceDefaultDays int `koanf:"compliance_default_days"`

	// CORSAllowedOrigins lists origins allowed by the HTTP layer.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// Compliance and alerting defaults.
const (
	defaultBatchQueueSize        = 1024
	defaultAlertDedupeSize       = 50_000
	defaultExpiryLookaheadDays   = 180
	defaultComplianceDefaultDays = 30
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		BatchWorkerCount:      runtime.NumCPU(),
		BatchQueueSize:        defaultBatchQueueSize,
		AlertDedupeSize:       defaultAlertDedupeSize,
		ExpiryLookaheadDays:   defaultExpiryLookaheadDays,
		UseThresholdWindows:   false,
		ComplianceDefaultDays: defaultComplianceDefaultDays,
		CORSAllowedOrigins:    []string{"*"},
	}
}

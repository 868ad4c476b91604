package compliance

import "errors"

// Sentinel kinds for compliance input errors.
var (
	ErrHoursOutOfRange = errors.New("hours out of range")
	ErrHoursSum        = errors.New("work and rest hours must sum to 24")
	ErrOutOfOrder      = errors.New("records not in chronological order")
)

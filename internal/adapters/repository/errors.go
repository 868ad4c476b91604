package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrValidation      = errors.New("invalid record")
	ErrDuplicateRecord = errors.New("record already exists for this date")
	ErrContractOverlap = errors.New("overlapping contract for crew member")
)

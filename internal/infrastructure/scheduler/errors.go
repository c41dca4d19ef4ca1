package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrRunInProgress is returned when a run is requested while one is active
	ErrRunInProgress = errors.New("vacuum run already in progress")
)

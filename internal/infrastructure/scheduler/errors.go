package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSyncAlreadyRunning is returned when a batch run is requested while
	// another one holds the run lock
	ErrSyncAlreadyRunning = errors.New("sync batch already in progress")
)

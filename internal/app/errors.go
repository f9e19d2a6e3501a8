package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoDirectory = errors.New("no employee directory configured")
	ErrNoTasks     = errors.New("no tasks supplied and no task source configured")
)

package attendance

import "errors"

var (
	// ErrSummaryLocked protects completed payroll: a locked summary is never
	// recomputed or overwritten by the aggregator.
	ErrSummaryLocked = errors.New("attendance summary is locked")

	ErrSummaryNotFound = errors.New("attendance summary not found")
)

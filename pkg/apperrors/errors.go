package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSelfNeighbor     = errors.New("a table cannot be its own neighbor")
	ErrRefreshInFlight  = errors.New("a neighbor refresh is already running")
	ErrNoCoverageData   = errors.New("resource has no coverage data")
	ErrInvalidCoverage  = errors.New("coverage must reference exactly one resource")
	ErrInvalidDateRange = errors.New("date range start must not be after end")
)

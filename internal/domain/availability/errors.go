package availability

import "errors"

var (
	ErrEntryNotFound = errors.New("availability entry not found")
	ErrNoLabels      = errors.New("at least one time label is required")
	ErrUnknownLabel  = errors.New("time label is not in the slot vocabulary")
	ErrInvalidDate   = errors.New("date must be a valid YYYY-MM-DD calendar date")
)

package entity

import "errors"

var (
	// ErrNotFound is the absence value for single-row lookups. It is a
	// normal outcome, not a failure: callers check it with errors.Is.
	ErrNotFound = errors.New("record not found")

	// ErrBackendUnavailable is returned by every data operation when the
	// process was started without a configured backend. Construction never
	// fails; the degradation surfaces per call.
	ErrBackendUnavailable = errors.New("no data backend configured")
)

package weather

import "errors"

// Error classes shared by every component. Concrete errors wrap one of these,
// so callers decide between log-and-continue and abort with errors.Is.
var (
	// ErrConfiguration marks a missing credential or connection parameter.
	// It is the only class allowed to terminate a process.
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork marks a failed provider request: timeout, bad status or
	// malformed payload.
	ErrNetwork = errors.New("network error")

	// ErrStorage marks a connection, query or insert failure.
	ErrStorage = errors.New("storage error")

	// ErrEmptyInput is returned by aggregations that need at least one row.
	ErrEmptyInput = errors.New("empty input")
)

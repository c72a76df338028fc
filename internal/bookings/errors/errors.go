package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSyncLost marks a live feed that failed terminally; the snapshot is
	// frozen and the consumer must be told rather than left silently stale.
	ErrSyncLost = errors.New("booking feed sync lost")

	ErrStoreClosed = errors.New("booking store is closed")
)

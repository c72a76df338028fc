// Package store maintains a client-visible mirror of the remote booking
// collection: an always-current snapshot fed by a live feed, plus the two
// mutating intents (create, remove).
package store

import (
	"context"

	"equipbook/pkg/model"
)

// UpdateFunc receives the full current snapshot. It is invoked once
// immediately on subscribe and again after every remote change. Snapshots
// are ordered by date then start time, ascending.
type UpdateFunc func(snapshot []model.Booking)

// Store mirrors the remote collection. Mutations go through the remote
// service; the local snapshot is never optimistically updated, so a caller
// sees its own write only once the feed delivers it.
type Store interface {
	// Subscribe registers fn and delivers the current snapshot to it
	// immediately (the empty snapshot before first data arrives). The
	// returned subscription must be cancelled by the consumer; duplicate
	// cancellation is a no-op.
	Subscribe(fn UpdateFunc) (*Subscription, error)

	// Create appends a record. The store assigns the ID; no validation
	// happens here, the caller has already validated.
	Create(ctx context.Context, booking *model.Booking) error

	// Remove deletes by ID, unconditionally. Authorization is the caller's
	// job; the password check happens one layer up.
	Remove(ctx context.Context, id string) error

	// Snapshot returns a copy of the current snapshot.
	Snapshot() []model.Booking
}

// Subscription is the cancellation handle for a live feed registration.
type Subscription struct {
	cancel func()
	done   chan struct{}
	err    func() error
}

// Cancel stops further callbacks and releases the registration. Safe to
// call any number of times; only the first has effect.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Done is closed when the subscription ends, whether by Cancel or because
// the underlying feed failed terminally.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports why the subscription ended: nil until Done is closed and after
// a consumer-initiated Cancel, or the terminal feed error (sync lost).
func (s *Subscription) Err() error {
	return s.err()
}

package store

import (
	"sync"

	"equipbook/pkg/model"
)

// view is the shared snapshot plus subscriber registry behind every Store
// implementation. Callbacks run synchronously under the view lock and must
// not call back into the store.
type view struct {
	mu       sync.Mutex
	snapshot []model.Booking
	subs     map[uint64]*subEntry
	nextID   uint64
	failed   error
}

type subEntry struct {
	fn   UpdateFunc
	done chan struct{}
	err  error
	once sync.Once
}

func newView() *view {
	return &view{subs: make(map[uint64]*subEntry)}
}

func (v *view) subscribe(fn UpdateFunc) (*Subscription, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.failed != nil {
		return nil, v.failed
	}

	id := v.nextID
	v.nextID++

	entry := &subEntry{
		fn:   fn,
		done: make(chan struct{}),
	}
	v.subs[id] = entry

	// Most-recent-value delivery: the subscriber always starts from the
	// present state, even if that is the empty snapshot.
	fn(copySnapshot(v.snapshot))

	return &Subscription{
		cancel: func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			entry.close(nil)
		},
		done: entry.done,
		err: func() error {
			v.mu.Lock()
			defer v.mu.Unlock()
			return entry.err
		},
	}, nil
}

// apply replaces the snapshot and notifies subscribers. Delivering the same
// snapshot twice is idempotent: subscribers are not re-notified.
func (v *view) apply(snapshot []model.Booking) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.failed != nil {
		return
	}
	if equalSnapshots(v.snapshot, snapshot) {
		return
	}

	v.snapshot = copySnapshot(snapshot)
	for _, entry := range v.subs {
		entry.fn(copySnapshot(v.snapshot))
	}
}

// fail marks the feed as terminally broken. The snapshot freezes and every
// subscriber is released with err, so consumers see "sync lost" instead of
// silently stale data.
func (v *view) fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.failed != nil {
		return
	}
	v.failed = err

	for id, entry := range v.subs {
		entry.close(err)
		delete(v.subs, id)
	}
}

func (v *view) current() []model.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copySnapshot(v.snapshot)
}

func (e *subEntry) close(err error) {
	e.once.Do(func() {
		e.err = err
		close(e.done)
	})
}

func copySnapshot(snapshot []model.Booking) []model.Booking {
	out := make([]model.Booking, len(snapshot))
	copy(out, snapshot)
	return out
}

func equalSnapshots(a, b []model.Booking) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

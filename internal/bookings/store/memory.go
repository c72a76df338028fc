package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "equipbook/internal/bookings/errors"
	"equipbook/pkg/model"
)

// MemoryStore is a self-contained Store for tests and offline runs. It keeps
// the same contract as MongoStore: IDs are store-assigned, snapshots are
// ordered by date then start time, and writes become visible through the
// subscription feed.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]model.Booking
	view *view

	// CreateErr / RemoveErr let tests inject connectivity failures.
	CreateErr error
	RemoveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]model.Booking),
		view: newView(),
	}
}

func (s *MemoryStore) Subscribe(fn UpdateFunc) (*Subscription, error) {
	return s.view.subscribe(fn)
}

func (s *MemoryStore) Snapshot() []model.Booking {
	return s.view.current()
}

func (s *MemoryStore) Create(_ context.Context, booking *model.Booking) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	booking.ID = uuid.New().String()
	s.docs[booking.ID] = *booking
	snapshot := s.sorted()
	s.mu.Unlock()

	s.view.apply(snapshot)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}

	s.mu.Lock()
	if _, ok := s.docs[id]; !ok {
		s.mu.Unlock()
		return bookingserrors.ErrNotFound
	}
	delete(s.docs, id)
	snapshot := s.sorted()
	s.mu.Unlock()

	s.view.apply(snapshot)
	return nil
}

// Fail simulates a terminal feed failure.
func (s *MemoryStore) Fail(err error) {
	s.view.fail(err)
}

// Seed loads bookings directly, bypassing ID assignment, and publishes the
// resulting snapshot.
func (s *MemoryStore) Seed(bookings ...model.Booking) {
	s.mu.Lock()
	for _, b := range bookings {
		s.docs[b.ID] = b
	}
	snapshot := s.sorted()
	s.mu.Unlock()

	s.view.apply(snapshot)
}

func (s *MemoryStore) sorted() []model.Booking {
	out := make([]model.Booking, 0, len(s.docs))
	for _, b := range s.docs {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

package booking

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]Booking
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{bookings: make(map[int64]Booking)}
}

func (r *memoryRepository) Insert(_ context.Context, d Draft) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.bookings[r.nextID] = *d.Persisted(r.nextID)
	return r.nextID, nil
}

func (r *memoryRepository) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]*Booking, error) {
	return r.filter(func(*Booking) bool { return true }), nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.UserID == userID }), nil
}

func (r *memoryRepository) ListByResource(_ context.Context, resourceID int64) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.ResourceID == resourceID }), nil
}

func (r *memoryRepository) ListByResourceOnDate(_ context.Context, resourceID int64, dayStart, dayEnd time.Time) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool {
		return b.ResourceID == resourceID && startsWithin(b, dayStart, dayEnd)
	}), nil
}

func (r *memoryRepository) ListByDate(_ context.Context, dayStart, dayEnd time.Time) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return startsWithin(b, dayStart, dayEnd) }), nil
}

// filter returns copies ordered like the SQL repository: by start time, then id.
func (r *memoryRepository) filter(keep func(*Booking) bool) []*Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Booking{}
	for _, b := range r.bookings {
		if keep(&b) {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *Booking) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func startsWithin(b *Booking, from, to time.Time) bool {
	return !b.StartTime.Before(from) && b.StartTime.Before(to)
}

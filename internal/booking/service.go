package booking

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strconv"
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/resource"
	"github.com/nekogravitycat/coworking-booking-backend/internal/user"
)

type CreateRequest struct {
	UserID     int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

// Locker serializes the check-then-write sequence for a key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// UserReader is the part of the user service bookings depend on.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ResourceReader is the part of the resource service bookings depend on.
type ResourceReader interface {
	GetByID(ctx context.Context, id int64) (*resource.Resource, error)
	ListAll(ctx context.Context) ([]*resource.Resource, error)
}

// EventPublisher receives booking events after a mutation succeeded.
// Implementations must not block the caller on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Update(ctx context.Context, b *Booking) (*Booking, error)
	Cancel(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*Booking, error)
	ListAll(ctx context.Context) ([]*Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*Booking, error)
	ListByResource(ctx context.Context, resourceID int64) ([]*Booking, error)
	ListByDate(ctx context.Context, date time.Time) ([]*Booking, error)

	AvailableSlots(ctx context.Context, resourceID int64, date time.Time, durationMinutes int) ([]TimeSlot, error)
	AvailableSlotsAll(ctx context.Context, date time.Time, durationMinutes int) ([]TimeSlot, error)
	AvailableResources(ctx context.Context, start, end time.Time) ([]*resource.Resource, error)
}

type service struct {
	repo      Repository
	users     UserReader
	resources ResourceReader
	locker    Locker
	events    EventPublisher
	calc      *AvailabilityCalculator
	loc       *time.Location
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*service)

// WithLocation sets the location used to interpret calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(s *service) { s.loc = loc }
}

// WithBusinessHours overrides DefaultBusinessHours.
func WithBusinessHours(h BusinessHours) Option {
	return func(s *service) { s.calc = NewAvailabilityCalculator(h) }
}

// WithEventPublisher sets where booking events are sent.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *service) { s.events = p }
}

func NewService(repo Repository, users UserReader, resources ResourceReader, locker Locker, opts ...Option) Service {
	s := &service{
		repo:      repo,
		users:     users,
		resources: resources,
		locker:    locker,
		calc:      NewAvailabilityCalculator(DefaultBusinessHours),
		loc:       time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storagePrecision drops what a timestamptz column cannot hold, so the
// returned booking, the stored one and the conflict check agree.
func storagePrecision(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}

// LockKey is the lock key guarding writes to a resource's bookings.
func LockKey(resourceID int64) string {
	return "booking:resource:" + strconv.FormatInt(resourceID, 10)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	req.StartTime, req.EndTime = storagePrecision(req.StartTime), storagePrecision(req.EndTime)
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.ensureResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, LockKey(req.ResourceID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.repo.ListByResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if HasConflict(req.StartTime, req.EndTime, existing) {
		return nil, ErrTimeConflict
	}

	draft := Draft{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	id, err := s.repo.Insert(ctx, draft)
	if err != nil {
		return nil, err
	}

	b := draft.Persisted(id)
	s.publish(ctx, EventCreated, b)
	return b, nil
}

// Update moves a booking to a new interval and possibly a new resource.
// The owner of the booking is kept from the stored record.
func (s *service) Update(ctx context.Context, b *Booking) (*Booking, error) {
	b = &Booking{
		ID:         b.ID,
		ResourceID: b.ResourceID,
		StartTime:  storagePrecision(b.StartTime),
		EndTime:    storagePrecision(b.EndTime),
	}
	if !b.StartTime.Before(b.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	current, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureResource(ctx, b.ResourceID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, LockKey(b.ResourceID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.repo.ListByResource(ctx, b.ResourceID)
	if err != nil {
		return nil, err
	}
	others := slices.DeleteFunc(existing, func(o *Booking) bool { return o.ID == b.ID })
	if HasConflict(b.StartTime, b.EndTime, others) {
		return nil, ErrTimeConflict
	}

	updated := &Booking{
		ID:         current.ID,
		UserID:     current.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// Cancel deletes a booking. Cancelling a booking that does not exist succeeds.
func (s *service) Cancel(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.publish(ctx, EventCancelled, &Booking{ID: id})
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAll(ctx context.Context) ([]*Booking, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]*Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByResource(ctx context.Context, resourceID int64) ([]*Booking, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

// ListByDate returns bookings starting on the calendar date of date.
func (s *service) ListByDate(ctx context.Context, date time.Time) ([]*Booking, error) {
	dayStart, dayEnd := DayBounds(s.localDate(date))
	return s.repo.ListByDate(ctx, dayStart, dayEnd)
}

func (s *service) AvailableSlots(ctx context.Context, resourceID int64, date time.Time, durationMinutes int) ([]TimeSlot, error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}
	if err := s.ensureResource(ctx, resourceID); err != nil {
		return nil, err
	}
	seq, err := s.slotsFor(ctx, resourceID, s.localDate(date), durationMinutes)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// AvailableSlotsAll concatenates the free slots of every resource, in resource order.
func (s *service) AvailableSlotsAll(ctx context.Context, date time.Time, durationMinutes int) ([]TimeSlot, error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}
	resources, err := s.resources.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	day := s.localDate(date)
	slots := []TimeSlot{}
	for _, r := range resources {
		seq, err := s.slotsFor(ctx, r.ID, day, durationMinutes)
		if err != nil {
			return nil, err
		}
		slots = slices.AppendSeq(slots, seq)
	}
	return slots, nil
}

// AvailableResources returns the resources that could take a booking for [start,end).
func (s *service) AvailableResources(ctx context.Context, start, end time.Time) ([]*resource.Resource, error) {
	start, end = storagePrecision(start), storagePrecision(end)
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	resources, err := s.resources.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	free := []*resource.Resource{}
	for _, r := range resources {
		existing, err := s.repo.ListByResource(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if !HasConflict(start, end, existing) {
			free = append(free, r)
		}
	}
	return free, nil
}

func (s *service) slotsFor(ctx context.Context, resourceID int64, day time.Time, durationMinutes int) (iter.Seq[TimeSlot], error) {
	dayStart, dayEnd := DayBounds(day)
	bookings, err := s.repo.ListByResourceOnDate(ctx, resourceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return s.calc.Slots(resourceID, day, durationMinutes, bookings)
}

// localDate reinterprets the calendar date of t in the service location.
func (s *service) localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *service) ensureResource(ctx context.Context, id int64) error {
	if _, err := s.resources.GetByID(ctx, id); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	return nil
}

func (s *service) publish(ctx context.Context, typ EventType, b *Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(context.WithoutCancel(ctx), string(typ), Event{
		Type:       typ,
		BookingID:  b.ID,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: s.now().UTC(),
	})
}

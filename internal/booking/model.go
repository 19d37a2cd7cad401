package booking

import (
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "booking not found")
	ErrTimeConflict     = apperror.New(apperror.KindConflict, "time slot already booked")
	ErrInvalidTimeRange = apperror.New(apperror.KindValidation, "start time must be before end time")
	ErrInvalidDuration  = apperror.New(apperror.KindValidation, "duration must be a positive multiple of 30 minutes")
	ErrUserNotFound     = apperror.New(apperror.KindNotFound, "user not found")
	ErrResourceNotFound = apperror.New(apperror.KindNotFound, "resource not found")
	ErrPermissionDenied = apperror.New(apperror.KindForbidden, "permission denied")
)

// Booking is a persisted reservation. ID is assigned by the store.
type Booking struct {
	ID         int64
	UserID     int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

// Draft is a booking that has not been stored yet and therefore has no ID.
type Draft struct {
	UserID     int64
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

// Persisted returns the booking the draft becomes once the store assigned id.
func (d Draft) Persisted(id int64) *Booking {
	return &Booking{
		ID:         id,
		UserID:     d.UserID,
		ResourceID: d.ResourceID,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
	}
}

// TimeSlot is a free interval on a resource. It is computed, never stored.
type TimeSlot struct {
	ResourceID int64
	StartTime  time.Time
	EndTime    time.Time
}

type EventType string

const (
	EventCreated   EventType = "booking.created"
	EventUpdated   EventType = "booking.updated"
	EventCancelled EventType = "booking.cancelled"
)

// Event describes a completed booking mutation.
type Event struct {
	Type       EventType `json:"type"`
	BookingID  int64     `json:"booking_id"`
	UserID     int64     `json:"user_id,omitempty"`
	ResourceID int64     `json:"resource_id,omitempty"`
	StartTime  time.Time `json:"start_time,omitzero"`
	EndTime    time.Time `json:"end_time,omitzero"`
	OccurredAt time.Time `json:"occurred_at"`
}

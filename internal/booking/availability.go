package booking

import (
	"iter"
	"time"
)

// SlotStep is the granularity of candidate slot starts and of valid durations.
const SlotStep = 30 * time.Minute

// BusinessHours are offsets from local midnight.
type BusinessHours struct {
	Open  time.Duration
	Close time.Duration
}

// DefaultBusinessHours is 09:00 to 18:00.
var DefaultBusinessHours = BusinessHours{Open: 9 * time.Hour, Close: 18 * time.Hour}

// AvailabilityCalculator derives free slots for one resource on one date.
type AvailabilityCalculator struct {
	hours BusinessHours
}

func NewAvailabilityCalculator(hours BusinessHours) *AvailabilityCalculator {
	return &AvailabilityCalculator{hours: hours}
}

// Hours returns the configured business hours.
func (c *AvailabilityCalculator) Hours() BusinessHours {
	return c.hours
}

// Slots returns the free slots of durationMinutes on date, in ascending order.
// Only bookings starting on date (in date's location) are considered.
// The returned sequence may be ranged over more than once.
func (c *AvailabilityCalculator) Slots(resourceID int64, date time.Time, durationMinutes int, bookings []*Booking) (iter.Seq[TimeSlot], error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}
	// Checked before converting so a large count cannot overflow time.Duration.
	if durationMinutes > int((c.hours.Close-c.hours.Open)/time.Minute) {
		return func(func(TimeSlot) bool) {}, nil
	}
	dur := time.Duration(durationMinutes) * time.Minute

	open := atOffset(date, c.hours.Open)
	closeAt := atOffset(date, c.hours.Close)
	sameDay := onDate(date, bookings)

	return func(yield func(TimeSlot) bool) {
		for start := open; !start.Add(dur).After(closeAt); start = start.Add(SlotStep) {
			end := start.Add(dur)
			if HasConflict(start, end, sameDay) {
				continue
			}
			if !yield(TimeSlot{ResourceID: resourceID, StartTime: start, EndTime: end}) {
				return
			}
		}
	}, nil
}

// ValidateDuration checks that minutes is a positive multiple of SlotStep.
func ValidateDuration(minutes int) error {
	step := int(SlotStep / time.Minute)
	if minutes <= 0 || minutes%step != 0 {
		return ErrInvalidDuration
	}
	return nil
}

// DayBounds returns local midnight of date and of the following day.
func DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return start, time.Date(y, m, d+1, 0, 0, 0, 0, date.Location())
}

// atOffset builds the wall-clock time at offset from midnight of date.
// Going through time.Date keeps the wall clock right across DST changes.
func atOffset(date time.Time, offset time.Duration) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, int(offset/time.Minute), 0, 0, date.Location())
}

func onDate(date time.Time, bookings []*Booking) []*Booking {
	y, m, d := date.Date()
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		by, bm, bd := b.StartTime.In(date.Location()).Date()
		if by == y && bm == m && bd == d {
			out = append(out, b)
		}
	}
	return out
}

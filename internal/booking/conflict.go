package booking

import "time"

// Conflicts reports whether [s1,e1) and [s2,e2) may not both be granted.
// Intervals that overlap, or that share a start or an end, conflict.
// Intervals that merely touch (e1 == s2) do not.
func Conflicts(s1, e1, s2, e2 time.Time) bool {
	return (s1.Before(e2) && s2.Before(e1)) || s1.Equal(s2) || e1.Equal(e2)
}

// HasConflict reports whether [start,end) conflicts with any of existing.
// Callers pass only bookings of the resource being checked.
func HasConflict(start, end time.Time, existing []*Booking) bool {
	for _, b := range existing {
		if Conflicts(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

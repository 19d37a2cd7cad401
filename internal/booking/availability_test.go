package booking

import (
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func startsOf(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.Format("15:04")
	}
	return out
}

func collect(t *testing.T, calc *AvailabilityCalculator, date time.Time, minutes int, bookings []*Booking) []TimeSlot {
	t.Helper()
	seq, err := calc.Slots(7, date, minutes, bookings)
	require.NoError(t, err)
	return slices.Collect(seq)
}

func TestSlotsEmptyDay(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	slots := collect(t, calc, day, 60, nil)

	want := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00",
		"13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}
	if diff := cmp.Diff(want, startsOf(slots)); diff != "" {
		t.Errorf("slot starts mismatch (-want +got):\n%s", diff)
	}
	for _, s := range slots {
		assert.Equal(t, int64(7), s.ResourceID)
		assert.Equal(t, time.Hour, s.EndTime.Sub(s.StartTime))
	}
}

func TestSlotsLastSlotEndsAtClose(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	slots := collect(t, calc, day, 30, nil)

	require.Len(t, slots, 18)
	last := slots[len(slots)-1]
	assert.Equal(t, "17:30", last.StartTime.Format("15:04"))
	assert.Equal(t, "18:00", last.EndTime.Format("15:04"))

	whole := collect(t, calc, day, 540, nil)
	require.Len(t, whole, 1)
	assert.Equal(t, "09:00", whole[0].StartTime.Format("15:04"))
}

func TestSlotsSkipConflicts(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)
	bookings := []*Booking{{ID: 1, ResourceID: 7, StartTime: at(10, 0), EndTime: at(11, 0)}}

	slots := collect(t, calc, day, 60, bookings)

	got := startsOf(slots)
	assert.Len(t, got, 14)
	assert.Contains(t, got, "09:00")
	assert.Contains(t, got, "11:00")
	assert.NotContains(t, got, "09:30")
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "10:30")

	for _, s := range slots {
		assert.False(t, HasConflict(s.StartTime, s.EndTime, bookings), "slot %s conflicts", s.StartTime)
	}
}

func TestSlotsIgnoreOtherDates(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)
	nextDay := []*Booking{{ID: 1, StartTime: at(10, 0).AddDate(0, 0, 1), EndTime: at(11, 0).AddDate(0, 0, 1)}}

	assert.Len(t, collect(t, calc, day, 60, nextDay), 17)
}

func TestSlotsAreRestartable(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)
	bookings := []*Booking{{ID: 1, StartTime: at(12, 0), EndTime: at(13, 30)}}

	seq, err := calc.Slots(7, day, 90, bookings)
	require.NoError(t, err)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}

	again, err := calc.Slots(7, day, 90, bookings)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, slices.Collect(again)))

	var taken []TimeSlot
	for s := range seq {
		taken = append(taken, s)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], taken)
}

func TestSlotsDurationValidation(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	for _, minutes := range []int{0, -30, 45, 61} {
		_, err := calc.Slots(7, day, minutes, nil)
		assert.ErrorIs(t, err, ErrInvalidDuration, "duration %d", minutes)
	}
}

func TestSlotsDurationLongerThanDay(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	assert.Empty(t, collect(t, calc, day, 600, nil))
}

func TestSlotsDurationBeyondTimeRange(t *testing.T) {
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	// 153722880 minutes does not fit in a time.Duration.
	for _, minutes := range []int{570, 1440, 153722880} {
		assert.Empty(t, collect(t, calc, day, minutes, nil), "duration %d", minutes)
	}
	assert.Len(t, collect(t, calc, day, 540, nil), 1)
}

func TestSlotsCustomHours(t *testing.T) {
	calc := NewAvailabilityCalculator(BusinessHours{Open: 8*time.Hour + 30*time.Minute, Close: 10 * time.Hour})

	assert.Equal(t, []string{"08:30", "09:00", "09:30"}, startsOf(collect(t, calc, day, 30, nil)))
}

func TestSlotsFollowWallClockAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	calc := NewAvailabilityCalculator(DefaultBusinessHours)

	// Clocks go forward at 02:00 on this date.
	dstDay := time.Date(2024, time.March, 10, 0, 0, 0, 0, ny)
	slots := collect(t, calc, dstDay, 60, nil)

	require.Len(t, slots, 17)
	assert.Equal(t, 9, slots[0].StartTime.Hour())
	assert.Equal(t, 18, slots[len(slots)-1].EndTime.Hour())
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(at(15, 45))
	assert.Equal(t, day, start)
	assert.Equal(t, day.AddDate(0, 0, 1), end)
}

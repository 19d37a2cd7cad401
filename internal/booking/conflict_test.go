package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"partial overlap", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"contained", at(10, 15), at(10, 45), at(10, 0), at(11, 0), true},
		{"containing", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"same start", at(10, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"same end", at(10, 30), at(11, 0), at(10, 0), at(11, 0), true},
		{"touching after", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"touching before", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(14, 0), at(15, 0), at(10, 0), at(11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, Conflicts(tt.s2, tt.e2, tt.s1, tt.e1), "symmetric")
		})
	}
}

func TestConflictsComparesInstants(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	s2 := time.Date(2025, time.March, 3, 13, 0, 0, 0, moscow)
	e2 := time.Date(2025, time.March, 3, 14, 0, 0, 0, moscow)

	assert.True(t, Conflicts(at(10, 0), at(11, 0), s2, e2))
}

func TestHasConflict(t *testing.T) {
	existing := []*Booking{
		{ID: 1, StartTime: at(9, 0), EndTime: at(10, 0)},
		{ID: 2, StartTime: at(13, 0), EndTime: at(14, 0)},
	}

	assert.False(t, HasConflict(at(10, 0), at(13, 0), existing))
	assert.True(t, HasConflict(at(12, 30), at(13, 30), existing))
	assert.False(t, HasConflict(at(10, 0), at(11, 0), nil))
}

package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	// Disjoint ranges
	assert.False(t, Overlaps(
		day(2026, 3, 2), day(2026, 3, 4),
		day(2026, 3, 5), day(2026, 3, 6),
	))

	// Touching ranges conflict: a ends the day b starts
	assert.True(t, Overlaps(
		day(2026, 3, 2), day(2026, 3, 4),
		day(2026, 3, 4), day(2026, 3, 6),
	))

	// Contained range
	assert.True(t, Overlaps(
		day(2026, 3, 1), day(2026, 3, 31),
		day(2026, 3, 10), day(2026, 3, 12),
	))

	// Identical single day
	assert.True(t, Overlaps(
		day(2026, 3, 2), day(2026, 3, 2),
		day(2026, 3, 2), day(2026, 3, 2),
	))

	// Order does not matter
	assert.True(t, Overlaps(
		day(2026, 3, 4), day(2026, 3, 6),
		day(2026, 3, 2), day(2026, 3, 4),
	))
}

func TestCountWeekdays(t *testing.T) {
	// Mon 2026-03-09 .. Fri 2026-03-13
	assert.Equal(t, 5, CountWeekdays(day(2026, 3, 9), day(2026, 3, 13)))

	// Full week including the weekend still counts 5
	assert.Equal(t, 5, CountWeekdays(day(2026, 3, 9), day(2026, 3, 15)))

	// Sat .. Sun
	assert.Equal(t, 0, CountWeekdays(day(2026, 3, 14), day(2026, 3, 15)))

	// Single weekday
	assert.Equal(t, 1, CountWeekdays(day(2026, 3, 11), day(2026, 3, 11)))

	// Two calendar weeks
	assert.Equal(t, 10, CountWeekdays(day(2026, 3, 9), day(2026, 3, 20)))

	// Inverted range
	assert.Equal(t, 0, CountWeekdays(day(2026, 3, 13), day(2026, 3, 9)))
}

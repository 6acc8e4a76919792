package leave

import "time"

// Overlaps reports whether two inclusive calendar-day ranges intersect.
// Ranges that merely touch (a ends the day b starts) do overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// CountWeekdays counts Monday through Friday in the inclusive range.
// A single weekday start==end counts as 1, a weekend day as 0.
func CountWeekdays(start, end time.Time) int {
	if start.After(end) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// normalizeDay strips the time-of-day component so date comparisons work on
// whole calendar days.
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

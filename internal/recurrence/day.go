package recurrence

import (
	"iter"
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60

	// DayLayout is the calendar day format used in synthetic occurrence ids.
	DayLayout = "2006-01-02"
)

// dayNumber is the count of days since 1970-01-01 of t's calendar date in t's
// own location.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// DaysBetween returns the signed number of whole calendar days from from to to.
// Time of day is ignored.
func DaysBetween(from, to time.Time) int {
	return int(dayNumber(to) - dayNumber(from))
}

// SameDay reports whether a and b fall on the same calendar date, each read in
// its own location.
func SameDay(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AtTimeOf combines the calendar date of day with the time of day and location
// of clock.
func AtTimeOf(day, clock time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), clock.Location())
}

// Days yields the start of every calendar day from start to end inclusive, in
// start's location.
func Days(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := StartOfDay(start); DaysBetween(d, end) >= 0; d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Package recurrence decides which calendar days a stored event occurs on.
//
// All comparisons are made on calendar days: the civil date of each timestamp
// in its own location. Time of day never affects whether an event occurs.
package recurrence

import (
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// OccursOn reports whether e has an occurrence on the calendar day of day.
//
// A non-recurring event occurs only on the day of its anchor date. A recurring
// event never occurs before its anchor day, after its rule's end date, on one
// of its exception days or past its occurrence count. Unknown rule types never
// occur.
func OccursOn(e *model.Event, day time.Time) bool {
	if !e.IsRecurring() {
		return SameDay(e.Date, day)
	}

	r := e.Recurrence

	delta := DaysBetween(e.Date, day)
	if delta < 0 {
		return false
	}
	if r.EndDate != nil && DaysBetween(*r.EndDate, day) > 0 {
		return false
	}

	n, ok := ordinal(e, day, delta)
	if !ok {
		return false
	}
	if r.Occurrences > 0 && n >= r.Occurrences {
		return false
	}

	for _, ex := range r.Exceptions {
		if SameDay(ex, day) {
			return false
		}
	}

	return true
}

// Dates returns every occurrence of e between start and end, both inclusive,
// each combined with the anchor's time of day.
func Dates(e *model.Event, start, end time.Time) []time.Time {
	var res []time.Time
	for d := range Days(start, end) {
		if OccursOn(e, d) {
			res = append(res, AtTimeOf(d, e.Date))
		}
	}

	return res
}

// ordinal reports whether the rule of e matches day, which lies delta days
// after the anchor, and if so the zero-based index of that match counted from
// the anchor. Exceptions and the end date are not taken into account.
func ordinal(e *model.Event, day time.Time, delta int) (int, bool) {
	step := e.Recurrence.Step()

	switch e.Recurrence.Type {
	case model.RecurrenceTypeDaily, model.RecurrenceTypeCustom:
		if delta%step != 0 {
			return 0, false
		}
		return delta / step, true

	case model.RecurrenceTypeWeekly:
		return weeklyOrdinal(e, day, delta, step)

	case model.RecurrenceTypeMonthly:
		return monthlyOrdinal(e.Date, day, step)

	default:
		return 0, false
	}
}

// weeklyOrdinal splits the days after the anchor into seven day blocks, the
// first block starting on the anchor day. Every step-th block is active and
// contributes one match per selected weekday.
func weeklyOrdinal(e *model.Event, day time.Time, delta, step int) (int, bool) {
	mask := weekdayMask(e)
	if !mask[day.Weekday()] {
		return 0, false
	}

	block := delta / 7
	if block%step != 0 {
		return 0, false
	}

	selected := 0
	for _, ok := range mask {
		if ok {
			selected++
		}
	}

	n := (block / step) * selected
	anchor := int(e.Date.Weekday())
	for offset := block * 7; offset < delta; offset++ {
		if mask[(anchor+offset)%7] {
			n++
		}
	}

	return n, true
}

// weekdayMask returns the selected weekdays of a weekly rule. An empty
// selection means the anchor's own weekday. The stored rule is left untouched.
func weekdayMask(e *model.Event) [7]bool {
	var mask [7]bool
	found := false
	for _, wd := range e.Recurrence.Weekdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			mask[wd] = true
			found = true
		}
	}

	if !found {
		mask[e.Date.Weekday()] = true
	}

	return mask
}

// monthlyOrdinal matches days sharing the anchor's day of month in every
// step-th month. Months too short to contain that day are skipped and do not
// count towards the ordinal.
func monthlyOrdinal(anchor, day time.Time, step int) (int, bool) {
	ay, am, ad := anchor.Date()
	dy, dm, dd := day.Date()

	if dd != ad {
		return 0, false
	}

	months := (dy-ay)*12 + int(dm-am)
	if months < 0 || months%step != 0 {
		return 0, false
	}

	if ad <= 28 {
		return months / step, true
	}

	n := 0
	for k := 0; k < months; k += step {
		if daysIn(ay, am+time.Month(k)) >= ad {
			n++
		}
	}

	return n, true
}

// daysIn returns the number of days in month m of year y. Months past December
// roll over into the following years.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package events

import (
	"iter"
	"slices"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// InstanceID returns the synthetic id of the occurrence of a template on the
// calendar day of day. The date suffix has a fixed width, so distinct
// (template, day) pairs never share an id.
func InstanceID(templateID string, day time.Time) string {
	return templateID + "-" + day.Format(recurrence.DayLayout)
}

// ParseInstanceID splits a synthetic occurrence id back into the template id
// and the occurrence day (midnight UTC).
func ParseInstanceID(id string) (string, time.Time, bool) {
	n := len(recurrence.DayLayout) + 1
	if len(id) <= n || id[len(id)-n] != '-' {
		return "", time.Time{}, false
	}

	day, err := time.Parse(recurrence.DayLayout, id[len(id)-n+1:])
	if err != nil {
		return "", time.Time{}, false
	}

	return id[:len(id)-n], day, true
}

// Materialize builds the occurrence record of template e on the given day.
func Materialize(e *model.Event, day time.Time) *model.Event {
	occ := e.Clone()
	occ.ID = InstanceID(e.ID, day)
	occ.Date = recurrence.AtTimeOf(day, e.Date)
	occ.ParentID = e.ID
	return occ
}

// OccurrencesOnDay returns, in input order, every event that takes place on the
// calendar day of day. An event whose own date falls on that day is returned as
// is; other recurring events are returned as materialized occurrences.
func OccurrencesOnDay(events []*model.Event, day time.Time) []*model.Event {
	var res []*model.Event

	for _, e := range events {
		switch {
		case recurrence.SameDay(e.Date, day):
			res = append(res, e)
		case e.IsRecurring() && recurrence.OccursOn(e, day):
			res = append(res, Materialize(e, day))
		}
	}

	return res
}

// OccurrencesInRange yields the materialized occurrences of all recurring
// events between start and end, both inclusive. Occurrences are ordered by day
// and, within a day, by input order. The sequence may be iterated any number of
// times and always yields the same records.
func OccurrencesInRange(events []*model.Event, start, end time.Time) iter.Seq[*model.Event] {
	var recurring []*model.Event
	for _, e := range events {
		if e.IsRecurring() {
			recurring = append(recurring, e)
		}
	}

	return func(yield func(*model.Event) bool) {
		for day := range recurrence.Days(start, end) {
			for _, e := range recurring {
				if !recurrence.OccursOn(e, day) {
					continue
				}
				if !yield(Materialize(e, day)) {
					return
				}
			}
		}
	}
}

func (s *Service) OccurrencesOnDay(day time.Time) []*model.Event {
	return OccurrencesOnDay(s.snapshot(), day)
}

func (s *Service) OccurrencesInRange(filter model.EventsFilter) []*model.Event {
	return slices.Collect(OccurrencesInRange(s.snapshot(), filter.From, filter.To))
}

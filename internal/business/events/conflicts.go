package events

import (
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// FindConflicts returns every event other than candidate that falls on the
// same calendar day as candidate. Time of day is not considered.
func FindConflicts(events []*model.Event, candidate *model.Event) []*model.Event {
	var res []*model.Event
	for _, e := range events {
		if e.ID != candidate.ID && recurrence.SameDay(e.Date, candidate.Date) {
			res = append(res, e)
		}
	}

	return res
}

// FindConflicts checks candidate against the projected view of its day, so
// occurrences of recurring series are reported as well as stored events.
func (s *Service) FindConflicts(candidate *model.Event) []*model.Event {
	return FindConflicts(s.OccurrencesOnDay(candidate.Date), candidate)
}

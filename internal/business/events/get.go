package events

import (
	"strings"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

func (s *Service) Events() []*model.Event {
	return s.snapshot()
}

// Resolve returns the stored record with the given id or, when id is the
// synthetic id of an occurrence of a stored template, that occurrence.
func (s *Service) Resolve(id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.events[i].Clone(), nil
	}

	if tpl, day, ok := s.occurrenceOf(id); ok {
		return Materialize(tpl, day), nil
	}

	return nil, model.ErrNoRecord
}

// occurrenceOf resolves a synthetic occurrence id to its stored template.
// Must be called with mu held.
func (s *Service) occurrenceOf(id string) (*model.Event, time.Time, bool) {
	templateID, day, ok := ParseInstanceID(id)
	if !ok {
		return nil, time.Time{}, false
	}

	i := s.indexOf(templateID)
	if i < 0 {
		return nil, time.Time{}, false
	}

	tpl := s.events[i]
	if !tpl.IsRecurring() || !recurrence.OccursOn(tpl, day) {
		return nil, time.Time{}, false
	}

	return tpl, day, true
}

// Search returns the stored events whose title or description contains term,
// ignoring case. An empty term matches everything.
func (s *Service) Search(term string) []*model.Event {
	events := s.snapshot()
	if term == "" {
		return events
	}

	term = strings.ToLower(term)

	var res []*model.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Description), term) {
			res = append(res, e)
		}
	}

	return res
}

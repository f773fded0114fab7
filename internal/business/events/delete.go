package events

import (
	"context"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// DeleteEvent removes the record with the given id. With deleteSeries the whole
// series is removed: the template the id resolves to and every record whose id
// or parent id equals that template's id.
//
// An id that is not stored but names an occurrence of a stored template is
// resolved to that template. Deleting such an occurrence alone adds its day to
// the template's exceptions and keeps the template.
func (s *Service) DeleteEvent(ctx context.Context, id string, deleteSeries bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deleteSeries {
		return s.deleteSeries(ctx, id)
	}

	if i := s.indexOf(id); i >= 0 {
		s.events = append(s.events[:i:i], s.events[i+1:]...)
		s.persist(ctx)

		metrics.Mutations.WithLabelValues("delete").Inc()
		return nil
	}

	return s.deleteEventInstance(ctx, id)
}

func (s *Service) deleteSeries(ctx context.Context, id string) error {
	parentID := id
	if i := s.indexOf(id); i >= 0 {
		if p := s.events[i].ParentID; p != "" {
			parentID = p
		}
	} else if tpl, _, ok := s.occurrenceOf(id); ok {
		parentID = tpl.ID
	}

	kept := RemoveSeries(s.events, id, parentID)
	if len(kept) == len(s.events) {
		return model.ErrNoRecord
	}

	s.events = kept
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("delete_series").Inc()
	s.logger.Debugw("series deleted", "id", id, "parent_id", parentID)
	return nil
}

// deleteEventInstance hides a single materialized occurrence by recording its
// day as an exception of the template. Must be called with mu held.
func (s *Service) deleteEventInstance(ctx context.Context, id string) error {
	tpl, day, ok := s.occurrenceOf(id)
	if !ok {
		return model.ErrNoRecord
	}

	y, m, d := day.Date()
	updated := tpl.Clone()
	updated.Recurrence.Exceptions = append(updated.Recurrence.Exceptions, time.Date(y, m, d, 0, 0, 0, 0, s.loc))
	s.events[s.indexOf(tpl.ID)] = updated
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("delete_instance").Inc()
	return nil
}

// RemoveSeries returns events without the record id, the template parentID and
// every record pointing at parentID. The input slice is not modified.
func RemoveSeries(events []*model.Event, id, parentID string) []*model.Event {
	res := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if e.ID == id || e.ID == parentID || e.ParentID == parentID {
			continue
		}
		res = append(res, e)
	}

	return res
}

package events

import (
	"context"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// Relocate decides what dragging event onto the calendar day of newDate
// produces. The time of day of event is kept.
//
// An event with a parent is an occurrence of a series: the result is a new
// standalone event with a fresh id and detached is true. Anything else is moved
// itself, so moving a template shifts its whole series.
func Relocate(event *model.Event, newDate time.Time) (res *model.Event, detached bool) {
	date := recurrence.AtTimeOf(newDate, event.Date)

	if event.ParentID != "" {
		return model.NewEvent(model.EventCreate{
			Title:       event.Title,
			Date:        date,
			Description: event.Description,
			Color:       event.Color,
			Recurrence:  model.Recurrence{Type: model.RecurrenceTypeNone},
		}), true
	}

	moved := event.Clone()
	moved.Date = date
	return moved, false
}

// MoveEvent applies Relocate to the store and returns the record that now sits
// on the new date. Templates of detached occurrences are left untouched.
func (s *Service) MoveEvent(ctx context.Context, event *model.Event, newDate time.Time) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ParentID != "" {
		created, _ := Relocate(event, newDate)
		s.events = append(s.events, created)
		s.persist(ctx)

		metrics.Mutations.WithLabelValues("detach").Inc()
		s.logger.Debugw("occurrence detached", "parent_id", event.ParentID, "id", created.ID, "date", created.Date)
		return created.Clone(), nil
	}

	i := s.indexOf(event.ID)
	if i < 0 {
		return nil, model.ErrNoRecord
	}

	moved, _ := Relocate(s.events[i], newDate)
	s.events[i] = moved
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("move").Inc()
	return moved.Clone(), nil
}

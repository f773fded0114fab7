package events

import (
	"context"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

func (s *Service) CreateEvent(ctx context.Context, info *model.EventCreate) *model.Event {
	event := model.NewEvent(*info)
	s.Add(ctx, event)
	return event.Clone()
}

// Add appends event to the store as is.
func (s *Service) Add(ctx context.Context, event *model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event.Clone())
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("add").Inc()
	s.logger.Debugw("event added", "id", event.ID, "recurrence", event.Recurrence.Type)
}

// SetEvents replaces the whole list.
func (s *Service) SetEvents(ctx context.Context, events []*model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = cloneAll(events)
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("set").Inc()
}

package events

import (
	"context"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// UpdateEvent replaces the stored record that has the id of event. Unknown ids
// leave the store untouched and report model.ErrNoRecord.
func (s *Service) UpdateEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(event.ID)
	if i < 0 {
		return model.ErrNoRecord
	}

	s.events[i] = event.Clone()
	s.persist(ctx)

	metrics.Mutations.WithLabelValues("update").Inc()
	return nil
}

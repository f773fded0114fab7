package events

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// RemoteCalendar is an authenticated session with an external calendar.
type RemoteCalendar interface {
	ExportEvents(ctx context.Context, events []*model.Event) error
	ImportEvents(ctx context.Context) ([]*model.Event, error)
}

// Sync connects to the remote calendar, pushes every stored event to it and
// appends the events pulled back to the store. Pulled events whose id is
// already stored are skipped, so repeated syncs do not duplicate records.
// Nothing is retried or rolled back: events exported before a failure stay
// exported. The returned count is the number of events added.
func (s *Service) Sync(ctx context.Context, connect func(ctx context.Context) (RemoteCalendar, error)) (int, error) {
	imported, err := s.sync(ctx, connect)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return 0, err
	}

	s.mu.Lock()
	added := 0
	for _, e := range imported {
		if s.indexOf(e.ID) >= 0 {
			continue
		}
		s.events = append(s.events, e.Clone())
		added++
	}
	if added > 0 {
		s.persist(ctx)
	}
	s.mu.Unlock()

	metrics.SyncRuns.WithLabelValues("ok").Inc()
	s.logger.Infow("remote calendar synced", "pulled", len(imported), "imported", added)
	return added, nil
}

func (s *Service) sync(ctx context.Context, connect func(ctx context.Context) (RemoteCalendar, error)) ([]*model.Event, error) {
	remote, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := remote.ExportEvents(ctx, s.snapshot()); err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}

	imported, err := remote.ImportEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("import events: %w", err)
	}

	return imported, nil
}

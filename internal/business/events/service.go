package events

import (
	"context"
	"sync"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"go.uber.org/zap"
)

// Service is the event store: it owns the ordered list of stored events and
// the currently viewed date, and writes the list to storage after every
// mutation. One Service is built at startup and shared by all consumers.
type Service struct {
	logger  *zap.SugaredLogger
	storage eventsStorage
	loc     *time.Location
	now     func() time.Time

	mu          sync.RWMutex
	events      []*model.Event
	currentDate time.Time
}

type eventsStorage interface {
	Save(ctx context.Context, events []*model.Event) error
	Load(ctx context.Context) ([]*model.Event, error)
}

func NewService(ctx context.Context, logger *zap.SugaredLogger, storage eventsStorage, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	s := &Service{
		logger:  logger,
		storage: storage,
		loc:     loc,
		now:     time.Now,
	}
	s.currentDate = s.now().In(loc)

	events, err := storage.Load(ctx)
	if err != nil {
		logger.Errorw("failed to load events, starting empty", "err", err)
		metrics.PersistFailures.WithLabelValues("load").Inc()
		events = nil
	}
	s.events = events

	logger.Infow("event store ready", "events", len(events))
	return s
}

// persist writes the current list. Failures are logged and otherwise ignored:
// the in-memory list stays authoritative. Must be called with mu held.
func (s *Service) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.events); err != nil {
		s.logger.Errorw("failed to save events", "err", err, "events", len(s.events))
		metrics.PersistFailures.WithLabelValues("save").Inc()
	}
}

// snapshot returns deep copies of the stored events.
func (s *Service) snapshot() []*model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.events)
}

// indexOf returns the position of the stored record with the given id or -1.
// Must be called with mu held.
func (s *Service) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) CurrentDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentDate
}

func (s *Service) SetCurrentDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentDate = date
}

func cloneAll(events []*model.Event) []*model.Event {
	res := make([]*model.Event, len(events))
	for i, e := range events {
		res[i] = e.Clone()
	}
	return res
}

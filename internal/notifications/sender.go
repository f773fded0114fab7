// Package notifications reminds about upcoming events, recurring occurrences
// included, a fixed lead time before they start.
package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/metrics"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Reminder struct {
	Event *model.Event
	Lead  time.Duration
}

func (r *Reminder) Message() string {
	return fmt.Sprintf("%s starts %s", r.Event.Title, describeLead(r.Lead))
}

type Notifier interface {
	Notify(ctx context.Context, r *Reminder) error
}

type eventsService interface {
	OccurrencesOnDay(day time.Time) []*model.Event
}

type Sender struct {
	logger        *zap.SugaredLogger
	eventsService eventsService
	notifier      Notifier
	lead          time.Duration
	loc           *time.Location

	mu   sync.Mutex
	last time.Time
}

func NewSender(
	logger *zap.SugaredLogger,
	eventsService eventsService,
	notifier Notifier,
	lead time.Duration,
	loc *time.Location,
) *Sender {
	return &Sender{
		logger:        logger,
		eventsService: eventsService,
		notifier:      notifier,
		lead:          lead,
		loc:           loc,
	}
}

// Start runs the sender on the cron schedule spec until the returned cron is
// stopped. Every run covers the time since the previous one.
func (s *Sender) Start(ctx context.Context, spec string) (*cron.Cron, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s.mu.Lock()
	s.last = time.Now()
	s.mu.Unlock()

	c.Schedule(schedule, cron.FuncJob(func() {
		s.Tick(ctx, time.Now())
	}))
	c.Start()

	s.logger.Infow("reminders scheduled", "schedule", spec, "lead", s.lead)
	return c, nil
}

// Tick sends reminders for every event whose reminder time falls between the
// previous tick and now.
func (s *Sender) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	from := s.last
	s.last = now
	s.mu.Unlock()

	if from.IsZero() || !from.Before(now) {
		return
	}

	s.findAndSendNotifications(ctx, from, now)
}

func (s *Sender) findAndSendNotifications(ctx context.Context, from, to time.Time) {
	s.logger.Debugw("sending notifications", "from", from, "to", to)

	var events []*model.Event
	for day := range recurrence.Days(from.Add(s.lead).In(s.loc), to.Add(s.lead).In(s.loc)) {
		events = append(events, s.eventsService.OccurrencesOnDay(day)...)
	}

	for _, n := range getPossibleNotifications(events, from, to, s.lead) {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Errorw("failed to send notification", "id", n.Event.ID, "err", err)
			continue
		}
		metrics.RemindersSent.Inc()
	}
}

// getPossibleNotifications picks the events whose reminder time, lead before
// their start, lies in [from, to).
func getPossibleNotifications(events []*model.Event, from, to time.Time, lead time.Duration) []*Reminder {
	var res []*Reminder
	for _, e := range events {
		notifyTime := e.Date.Add(-lead)
		if !notifyTime.Before(from) && notifyTime.Before(to) {
			res = append(res, &Reminder{
				Event: e,
				Lead:  lead,
			})
		}
	}

	return res
}

// LogNotifier delivers reminders to the log.
type LogNotifier struct {
	logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, r *Reminder) error {
	n.logger.Infow(r.Message(),
		"id", r.Event.ID,
		"parent_id", r.Event.ParentID,
		"start", r.Event.Date,
	)
	return nil
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "err", err)...)
}

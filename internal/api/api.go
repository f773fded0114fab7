package api

import (
	"context"
	"net/http"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/business/events"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.uber.org/zap"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger
	loc     *time.Location
	dates   *when.Parser
	now     func() time.Time

	eventsService eventsService
	connect       CalendarConnector
	metrics       http.Handler
}

type eventsService interface {
	Events() []*model.Event
	Search(term string) []*model.Event
	Resolve(id string) (*model.Event, error)
	CreateEvent(ctx context.Context, info *model.EventCreate) *model.Event
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id string, deleteSeries bool) error
	MoveEvent(ctx context.Context, event *model.Event, newDate time.Time) (*model.Event, error)
	FindConflicts(candidate *model.Event) []*model.Event
	OccurrencesOnDay(day time.Time) []*model.Event
	OccurrencesInRange(filter model.EventsFilter) []*model.Event
	Month(date time.Time) *model.CalendarMonth
	Week(date time.Time) []*model.CalendarDay
	CurrentDate() time.Time
	SetCurrentDate(date time.Time)
	Sync(ctx context.Context, connect func(ctx context.Context) (events.RemoteCalendar, error)) (int, error)
}

// CalendarConnector opens a remote calendar session authorized by authCode.
type CalendarConnector func(ctx context.Context, authCode string) (events.RemoteCalendar, error)

// NewApi builds the HTTP surface. A nil connect disables remote sync and a nil
// metrics handler disables /metrics.
func NewApi(
	logger *zap.SugaredLogger,
	loc *time.Location,
	eventsService eventsService,
	connect CalendarConnector,
	metrics http.Handler,
) (*Api, error) {
	dates := when.New(nil)
	dates.Add(en.All...)
	dates.Add(common.All...)

	a := &Api{
		logger:        logger,
		loc:           loc,
		dates:         dates,
		now:           time.Now,
		eventsService: eventsService,
		connect:       connect,
		metrics:       metrics,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics)
	}

	r.Route("/events", func(r chi.Router) {
		r.Get("/", a.getEventsHandler)
		r.Post("/", a.createEventHandler)
		r.Post("/conflicts", a.findConflictsHandler)

		r.With(a.eventCtx).Route("/{eventID}", func(r chi.Router) {
			r.Get("/", a.getEventHandler)
			r.Put("/", a.updateEventHandler)
			r.Delete("/", a.deleteEventHandler)
			r.Post("/move", a.moveEventHandler)
		})
	})

	r.Route("/occurrences", func(r chi.Router) {
		r.Get("/", a.getOccurrencesHandler)
		r.Get("/day", a.getDayHandler)
	})

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/month", a.getMonthHandler)
		r.Get("/week", a.getWeekHandler)
		r.Get("/current", a.getCurrentDateHandler)
	})
	r.Get("/calendar.ics", a.exportCalendarHandler)

	r.Post("/sync", a.syncHandler)

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

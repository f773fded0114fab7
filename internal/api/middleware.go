package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const contextKeyEvent = contextKey("event")

var errCantRetrieveEvent = errors.New("can't retrieve event from context")

// eventCtx resolves the {eventID} route parameter, stored record or occurrence
// of a stored series, and puts the event into the request context.
func (a *Api) eventCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := a.eventsService.Resolve(chi.URLParam(r, "eventID"))
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.notFoundResponse(w, r)
			default:
				a.serverErrorResponse(w, r, fmt.Errorf("resolve event: %w", err))
			}
			return
		}

		eventCtx := context.WithValue(r.Context(), contextKeyEvent, event)
		next.ServeHTTP(w, r.WithContext(eventCtx))
	})
}

func eventFromContext(r *http.Request) (*model.Event, error) {
	event, ok := r.Context().Value(contextKeyEvent).(*model.Event)
	if !ok {
		return nil, errCantRetrieveEvent
	}
	return event, nil
}

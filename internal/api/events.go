package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/pkg/validator"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

const maxTitleLength = 256

type recurrenceReq struct {
	Type        model.RecurrenceType `json:"type"`
	Interval    int                  `json:"interval"`
	Weekdays    []time.Weekday       `json:"weekdays"`
	EndDate     *dateTime            `json:"end_date"`
	Occurrences int                  `json:"occurrences"`
}

type eventReq struct {
	Title       string         `json:"title"`
	Date        dateTime       `json:"date"`
	EndDate     *dateTime      `json:"end_date"`
	Description string         `json:"description"`
	Color       model.Color    `json:"color"`
	Recurrence  *recurrenceReq `json:"recurrence"`
}

func validateEvent(v *validator.Validator, req *eventReq) {
	date := time.Time(req.Date)

	v.Check(!date.IsZero(), "date", "date must be provided")
	v.Check(utf8.RuneCountInString(req.Title) <= maxTitleLength, "title", fmt.Sprintf("title must not be longer than %d characters", maxTitleLength))
	v.Check(req.Color == "" || req.Color.Valid(), "color", "unknown color")
	if req.EndDate != nil {
		v.Check(!time.Time(*req.EndDate).Before(date), "end_date", "end_date must not be before date")
	}

	rec := req.Recurrence
	if rec == nil {
		return
	}

	v.Check(rec.Type == "" || rec.Type.Valid(), "recurrence.type", "unknown recurrence type")
	v.Check(rec.Interval >= 0, "recurrence.interval", "interval must not be negative")
	v.Check(rec.Occurrences >= 0, "recurrence.occurrences", "occurrences must not be negative")
	v.Check(validator.Unique(rec.Weekdays), "recurrence.weekdays", "weekdays must be unique")
	for _, wd := range rec.Weekdays {
		v.Check(wd >= time.Sunday && wd <= time.Saturday, "recurrence.weekdays", "weekdays must be between 0 (Sunday) and 6 (Saturday)")
	}
	if rec.EndDate != nil {
		v.Check(recurrence.DaysBetween(date, time.Time(*rec.EndDate)) >= 0, "recurrence.end_date", "end_date must not be before date")
	}
}

func (a *Api) toEventCreate(req *eventReq) *model.EventCreate {
	info := &model.EventCreate{
		Title:       req.Title,
		Date:        time.Time(req.Date).In(a.loc),
		Description: req.Description,
		Color:       req.Color,
	}

	if req.EndDate != nil {
		end := time.Time(*req.EndDate).In(a.loc)
		info.EndDate = &end
	}

	if rec := req.Recurrence; rec != nil {
		info.Recurrence = model.Recurrence{
			Type:        rec.Type,
			Interval:    rec.Interval,
			Weekdays:    rec.Weekdays,
			Occurrences: rec.Occurrences,
		}
		if rec.EndDate != nil {
			end := time.Time(*rec.EndDate).In(a.loc)
			info.Recurrence.EndDate = &end
		}
	}

	return info
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	req := &eventReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if validateEvent(v, req); !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	event := a.eventsService.CreateEvent(r.Context(), a.toEventCreate(req))

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	events := a.eventsService.Search(r.URL.Query().Get("q"))

	resp, _ := mapSlice(events, mapToEventResp)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromContext(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	resp, _ := mapToEventResp(event)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	existing, err := eventFromContext(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	req := &eventReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if validateEvent(v, req); !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	updated := model.NewEvent(*a.toEventCreate(req))
	updated.ID = existing.ID
	updated.ParentID = existing.ParentID
	updated.Recurrence.Exceptions = existing.Recurrence.Exceptions

	if err := a.eventsService.UpdateEvent(r.Context(), updated); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			// occurrences of a series are not stored and can't be edited alone
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update event: %w", err))
		}
		return
	}

	resp, _ := mapToEventResp(updated)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromContext(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	deleteSeries := false
	if v := r.URL.Query().Get("series"); v != "" {
		deleteSeries, err = strconv.ParseBool(v)
		if err != nil {
			a.badRequestResponse(w, r, fmt.Errorf("series must be true or false"))
			return
		}
	}

	if err := a.eventsService.DeleteEvent(r.Context(), event.ID, deleteSeries); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete event: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) moveEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromContext(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	req := &struct {
		Date string `json:"date"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	newDate, err := a.parseDay(req.Date)
	if err != nil {
		a.failedValidationResponse(w, r, map[string]string{"date": err.Error()})
		return
	}

	moved, err := a.eventsService.MoveEvent(r.Context(), event, newDate)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("move event: %w", err))
		}
		return
	}

	resp, _ := mapToEventResp(moved)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) findConflictsHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		ID   string   `json:"id"`
		Date dateTime `json:"date"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if time.Time(req.Date).IsZero() {
		a.failedValidationResponse(w, r, map[string]string{"date": "date must be provided"})
		return
	}

	conflicts := a.eventsService.FindConflicts(&model.Event{
		ID:          req.ID,
		EventCreate: model.EventCreate{Date: time.Time(req.Date).In(a.loc)},
	})

	resp, _ := mapSlice(conflicts, mapToEventResp)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/pkg/ical"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// getMonthHandler renders the month grid of ?date=, or of the current date when
// absent. A given date becomes the new current date.
func (a *Api) getMonthHandler(w http.ResponseWriter, r *http.Request) {
	date, err := a.viewDate(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	resp := mapToMonthResp(a.eventsService.Month(date))
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getWeekHandler(w http.ResponseWriter, r *http.Request) {
	date, err := a.viewDate(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	resp, _ := mapSlice(a.eventsService.Week(date), mapToDayResp)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) viewDate(r *http.Request) (date time.Time, err error) {
	value := r.URL.Query().Get("date")
	if value == "" {
		return a.eventsService.CurrentDate(), nil
	}

	date, err = a.parseDay(value)
	if err != nil {
		return date, err
	}

	a.eventsService.SetCurrentDate(date)
	return date, nil
}

func (a *Api) getCurrentDateHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"date": a.eventsService.CurrentDate().In(a.loc).Format(recurrence.DayLayout),
	}
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) exportCalendarHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := ical.Export(&buf, a.eventsService.Events(), a.now()); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("export calendar: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

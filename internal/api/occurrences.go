package api

import (
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// maxRangeDays bounds a single range projection.
const maxRangeDays = 366

func (a *Api) getOccurrencesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := a.parseOccurrencesQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	occurrences := a.eventsService.OccurrencesInRange(*filter)

	resp, _ := mapSlice(occurrences, mapToEventResp)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) parseOccurrencesQuery(r *http.Request) (*model.EventsFilter, error) {
	var err error

	res := &model.EventsFilter{}

	res.From, err = a.parseDay(r.URL.Query().Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	res.To, err = a.parseDay(r.URL.Query().Get("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	days := recurrence.DaysBetween(res.From, res.To)
	if days < 0 {
		return nil, fmt.Errorf("to must not be before from")
	}
	if days >= maxRangeDays {
		return nil, fmt.Errorf("range must not exceed %d days", maxRangeDays)
	}

	return res, nil
}

func (a *Api) getDayHandler(w http.ResponseWriter, r *http.Request) {
	day, err := a.parseDay(r.URL.Query().Get("date"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	events := a.eventsService.OccurrencesOnDay(day)

	resp, _ := mapToDayResp(&model.CalendarDay{
		Date:   recurrence.StartOfDay(day),
		Events: events,
	})
	resp.IsToday = recurrence.SameDay(day, a.now().In(a.loc))
	resp.IsCurrentMonth = day.Month() == a.eventsService.CurrentDate().In(a.loc).Month()

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

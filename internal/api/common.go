package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

const dateTimeFormat = time.RFC3339

type dateTime time.Time

func (d dateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dateTimeFormat))
}

func (d *dateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date time must be a string")
	}

	t, err := time.Parse(dateTimeFormat, s)
	if err != nil {
		return fmt.Errorf("invalid date time %q, expected RFC 3339", s)
	}

	*d = dateTime(t)
	return nil
}

func dateTimePtr(t *time.Time) *dateTime {
	if t == nil {
		return nil
	}
	d := dateTime(*t)
	return &d
}

type recurrenceResp struct {
	Type        model.RecurrenceType `json:"type"`
	Interval    int                  `json:"interval,omitempty"`
	Weekdays    []time.Weekday       `json:"weekdays,omitempty"`
	EndDate     *dateTime            `json:"end_date,omitempty"`
	Occurrences int                  `json:"occurrences,omitempty"`
	Exceptions  []string             `json:"exceptions,omitempty"`
	Label       string               `json:"label,omitempty"`
}

type eventResp struct {
	ID          string          `json:"id"`
	ParentID    string          `json:"parent_id,omitempty"`
	Title       string          `json:"title"`
	Date        dateTime        `json:"date"`
	EndDate     *dateTime       `json:"end_date,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       model.Color     `json:"color"`
	Recurrence  *recurrenceResp `json:"recurrence"`
}

func mapToEventResp(e *model.Event) (*eventResp, error) {
	r := e.Recurrence

	exceptions := make([]string, len(r.Exceptions))
	for i, ex := range r.Exceptions {
		exceptions[i] = ex.Format(recurrence.DayLayout)
	}

	return &eventResp{
		ID:          e.ID,
		ParentID:    e.ParentID,
		Title:       e.Title,
		Date:        dateTime(e.Date),
		EndDate:     dateTimePtr(e.EndDate),
		Description: e.Description,
		Color:       e.Color,
		Recurrence: &recurrenceResp{
			Type:        r.Type,
			Interval:    r.Interval,
			Weekdays:    r.Weekdays,
			EndDate:     dateTimePtr(r.EndDate),
			Occurrences: r.Occurrences,
			Exceptions:  exceptions,
			Label:       r.Describe(),
		},
	}, nil
}

type dayResp struct {
	Date           string       `json:"date"`
	IsCurrentMonth bool         `json:"is_current_month"`
	IsToday        bool         `json:"is_today"`
	Events         []*eventResp `json:"events"`
}

func mapToDayResp(d *model.CalendarDay) (*dayResp, error) {
	events, _ := mapSlice(d.Events, mapToEventResp)

	return &dayResp{
		Date:           d.Date.Format(recurrence.DayLayout),
		IsCurrentMonth: d.IsCurrentMonth,
		IsToday:        d.IsToday,
		Events:         events,
	}, nil
}

type monthResp struct {
	Month int        `json:"month"`
	Year  int        `json:"year"`
	Days  []*dayResp `json:"days"`
}

func mapToMonthResp(m *model.CalendarMonth) *monthResp {
	days, _ := mapSlice(m.Days, mapToDayResp)

	return &monthResp{
		Month: int(m.Month),
		Year:  m.Year,
		Days:  days,
	}
}

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// TimeLayout is the stored form of every timestamp, always in UTC. Exception
// days are stored as plain calendar days in recurrence.DayLayout.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Codec converts the event list to and from its JSON document form. Decoded
// timestamps are expressed in the codec's location.
type Codec struct {
	loc *time.Location
}

func NewCodec(loc *time.Location) *Codec {
	if loc == nil {
		loc = time.Local
	}
	return &Codec{loc: loc}
}

type eventDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Date        string         `json:"date"`
	EndDate     *string        `json:"endDate,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       string         `json:"color"`
	Recurrence  *recurrenceDTO `json:"recurrence"`
	ParentID    string         `json:"parentId,omitempty"`
}

type recurrenceDTO struct {
	Type        string   `json:"type"`
	Interval    int      `json:"interval,omitempty"`
	Weekdays    []int    `json:"weekdays,omitempty"`
	EndDate     *string  `json:"endDate"`
	Occurrences *int     `json:"occurrences"`
	Exceptions  []string `json:"exceptions,omitempty"`
}

func (c *Codec) Encode(events []*model.Event) ([]byte, error) {
	dtos := make([]*eventDTO, len(events))
	for i, e := range events {
		dtos[i] = mapFromEvent(e)
	}

	data, err := json.Marshal(dtos)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	return data, nil
}

func (c *Codec) Decode(data []byte) ([]*model.Event, error) {
	var dtos []*eventDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	res := make([]*model.Event, 0, len(dtos))
	for i, d := range dtos {
		if d == nil {
			return nil, fmt.Errorf("event %d: empty record", i)
		}

		e, err := c.mapToEvent(d)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		res = append(res, e)
	}

	return res, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func (c *Codec) parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(c.loc), nil
}

// parseDay reads an exception day as midnight in the codec's location. Full
// timestamps written by older versions name their day in UTC.
func (c *Codec) parseDay(s string) (time.Time, error) {
	if len(s) == len(recurrence.DayLayout) {
		return time.ParseInLocation(recurrence.DayLayout, s, c.loc)
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc), nil
}

func (c *Codec) parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := c.parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapFromEvent(e *model.Event) *eventDTO {
	r := e.Recurrence

	rec := &recurrenceDTO{
		Type:     string(r.Type),
		Interval: r.Interval,
		EndDate:  formatTimePtr(r.EndDate),
	}
	if r.Occurrences > 0 {
		n := r.Occurrences
		rec.Occurrences = &n
	}
	for _, wd := range r.Weekdays {
		rec.Weekdays = append(rec.Weekdays, int(wd))
	}
	for _, ex := range r.Exceptions {
		rec.Exceptions = append(rec.Exceptions, ex.Format(recurrence.DayLayout))
	}

	return &eventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Date:        formatTime(e.Date),
		EndDate:     formatTimePtr(e.EndDate),
		Description: e.Description,
		Color:       string(e.Color),
		Recurrence:  rec,
		ParentID:    e.ParentID,
	}
}

func (c *Codec) mapToEvent(d *eventDTO) (*model.Event, error) {
	date, err := c.parseTime(d.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	endDate, err := c.parseTimePtr(d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}

	rec := model.Recurrence{Type: model.RecurrenceTypeNone}
	if d.Recurrence != nil {
		if rec, err = c.mapToRecurrence(d.Recurrence); err != nil {
			return nil, fmt.Errorf("recurrence: %w", err)
		}
	}

	return &model.Event{
		ID:       d.ID,
		ParentID: d.ParentID,
		EventCreate: model.EventCreate{
			Title:       d.Title,
			Date:        date,
			EndDate:     endDate,
			Description: d.Description,
			Color:       model.Color(d.Color),
			Recurrence:  rec,
		},
	}, nil
}

func (c *Codec) mapToRecurrence(d *recurrenceDTO) (model.Recurrence, error) {
	endDate, err := c.parseTimePtr(d.EndDate)
	if err != nil {
		return model.Recurrence{}, fmt.Errorf("end date: %w", err)
	}

	rec := model.Recurrence{
		Type:     model.RecurrenceType(d.Type),
		Interval: d.Interval,
		EndDate:  endDate,
	}
	if rec.Type == "" {
		rec.Type = model.RecurrenceTypeNone
	}
	if d.Occurrences != nil {
		rec.Occurrences = *d.Occurrences
	}
	for _, wd := range d.Weekdays {
		if wd < 0 || wd > 6 {
			return model.Recurrence{}, fmt.Errorf("weekday %d out of range", wd)
		}
		rec.Weekdays = append(rec.Weekdays, time.Weekday(wd))
	}
	for _, s := range d.Exceptions {
		ex, err := c.parseDay(s)
		if err != nil {
			return model.Recurrence{}, fmt.Errorf("exception: %w", err)
		}
		rec.Exceptions = append(rec.Exceptions, ex)
	}

	return rec, nil
}

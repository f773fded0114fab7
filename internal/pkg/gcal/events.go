package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"google.golang.org/api/calendar/v3"
)

const (
	importLimit   = 100
	eventDuration = time.Hour
)

// ExportEvents inserts every event into the calendar one by one. Events are
// not deduplicated against what the calendar already holds. The first failure
// stops the export; events inserted before it stay inserted.
func (s *Session) ExportEvents(ctx context.Context, events []*model.Event) error {
	for _, e := range events {
		if _, err := s.service.Events.Insert(CalendarID, mapFromEvent(e, s.loc)).Context(ctx).Do(); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	return nil
}

// ImportEvents fetches the upcoming single events of the calendar ordered by
// start time. Recurring remote series arrive expanded into their instances.
func (s *Session) ImportEvents(ctx context.Context) ([]*model.Event, error) {
	resp, err := s.service.Events.List(CalendarID).
		TimeMin(s.now().Format(time.RFC3339)).
		MaxResults(importLimit).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	res := make([]*model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		e, err := mapToEvent(item, s.loc)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", item.Id, err)
		}
		res = append(res, e)
	}

	return res, nil
}

func mapFromEvent(e *model.Event, loc *time.Location) *calendar.Event {
	return &calendar.Event{
		Summary:     e.Title,
		Description: e.Description,
		Start: &calendar.EventDateTime{
			DateTime: e.Date.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: e.Date.Add(eventDuration).Format(time.RFC3339),
			TimeZone: loc.String(),
		},
	}
}

func mapToEvent(item *calendar.Event, loc *time.Location) (*model.Event, error) {
	if item.Start == nil {
		return nil, fmt.Errorf("no start")
	}

	var (
		date time.Time
		err  error
	)
	if item.Start.DateTime != "" {
		date, err = time.Parse(time.RFC3339, item.Start.DateTime)
		date = date.In(loc)
	} else {
		date, err = time.ParseInLocation("2006-01-02", item.Start.Date, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	title := item.Summary
	if title == "" {
		title = model.DefaultTitle
	}

	return &model.Event{
		ID: item.Id,
		EventCreate: model.EventCreate{
			Title:       title,
			Date:        date,
			Description: item.Description,
			Color:       model.ColorBlue,
			Recurrence:  model.Recurrence{Type: model.RecurrenceTypeNone},
		},
	}, nil
}

// Package ical renders stored events as an iCalendar feed. Recurring events
// are written once with an RRULE, so subscribers expand series themselves.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

const (
	ProductID = "-//shared-calendar//EN"

	defaultDuration = time.Hour
	exdateLayout    = "20060102T150405Z"
)

var weekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Export writes events as a VCALENDAR with one VEVENT per event.
func Export(w io.Writer, events []*model.Event, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		if err := addEvent(cal, e, now); err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}

	return cal.SerializeTo(w)
}

func addEvent(cal *ics.Calendar, e *model.Event, now time.Time) error {
	ve := cal.AddEvent(e.ID)
	ve.SetDtStampTime(now)
	ve.SetStartAt(e.Date)
	if e.EndDate != nil {
		ve.SetEndAt(*e.EndDate)
	} else {
		ve.SetEndAt(e.Date.Add(defaultDuration))
	}
	ve.SetSummary(e.Title)
	if e.Description != "" {
		ve.SetDescription(e.Description)
	}
	ve.AddProperty(ics.ComponentPropertyColor, string(e.Color))
	if e.ParentID != "" {
		ve.AddProperty(ics.ComponentProperty("RELATED-TO"), e.ParentID)
	}

	if !e.IsRecurring() {
		return nil
	}

	rule, err := Rule(e)
	if err != nil {
		return err
	}
	ve.AddProperty(ics.ComponentPropertyRrule, rule)

	for _, ex := range e.Recurrence.Exceptions {
		ve.AddProperty(ics.ComponentPropertyExdate, recurrence.AtTimeOf(ex, e.Date).UTC().Format(exdateLayout))
	}

	return nil
}

// Rule returns the RRULE value equivalent to the recurrence of e. Weekly rules
// start their weeks on the anchor's weekday so that intervals count whole
// weeks from the anchor.
func Rule(e *model.Event) (string, error) {
	r := e.Recurrence

	opt := rrule.ROption{
		Interval: r.Step(),
		Dtstart:  e.Date,
		Count:    r.Occurrences,
	}

	switch r.Type {
	case model.RecurrenceTypeDaily, model.RecurrenceTypeCustom:
		opt.Freq = rrule.DAILY
	case model.RecurrenceTypeWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Wkst = weekdays[e.Date.Weekday()]
		days := r.Weekdays
		if len(days) == 0 {
			days = []time.Weekday{e.Date.Weekday()}
		}
		for _, d := range days {
			opt.Byweekday = append(opt.Byweekday, weekdays[d])
		}
	case model.RecurrenceTypeMonthly:
		opt.Freq = rrule.MONTHLY
	default:
		return "", fmt.Errorf("unsupported recurrence type %q", r.Type)
	}

	if r.EndDate != nil {
		opt.Until = recurrence.StartOfDay(*r.EndDate).AddDate(0, 0, 1).Add(-time.Second).UTC()
	}

	if opt.Count > 0 && !opt.Until.IsZero() {
		var err error
		if opt, err = earliestLimit(opt); err != nil {
			return "", fmt.Errorf("creating rule: %w", err)
		}
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return "", fmt.Errorf("creating rule: %w", err)
	}

	return opt.RRuleString(), nil
}

// earliestLimit keeps only the one of COUNT and UNTIL that ends the series
// first, since a rule may not carry both.
func earliestLimit(opt rrule.ROption) (rrule.ROption, error) {
	counted := opt
	counted.Until = time.Time{}

	rule, err := rrule.NewRRule(counted)
	if err != nil {
		return opt, err
	}

	if all := rule.All(); len(all) > 0 && all[len(all)-1].After(opt.Until) {
		opt.Count = 0
	} else {
		opt.Until = time.Time{}
	}

	return opt, nil
}

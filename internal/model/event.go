package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultTitle = "Untitled Event"

type EventCreate struct {
	Title       string
	Date        time.Time
	EndDate     *time.Time
	Description string
	Color       Color
	Recurrence  Recurrence
}

// Event is either a stored template (single event or the defining rule of a
// series) or a materialized occurrence of a template. ParentID is empty for
// templates.
type Event struct {
	ID       string
	ParentID string
	EventCreate
}

// NewEvent assigns a fresh id and fills the defaults for fields left empty.
func NewEvent(info EventCreate) *Event {
	if info.Title == "" {
		info.Title = DefaultTitle
	}
	if info.Color == "" {
		info.Color = ColorBlue
	}
	if info.Recurrence.Type == "" {
		info.Recurrence.Type = RecurrenceTypeNone
	}

	return &Event{
		ID:          uuid.NewString(),
		EventCreate: info,
	}
}

func (e *Event) IsRecurring() bool {
	return e.Recurrence.Type != RecurrenceTypeNone && e.Recurrence.Type != ""
}

// Clone returns a deep copy, so callers may mutate the result without touching
// the stored record.
func (e *Event) Clone() *Event {
	c := *e
	if e.EndDate != nil {
		end := *e.EndDate
		c.EndDate = &end
	}
	c.Recurrence = e.Recurrence.Clone()
	return &c
}

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGray   Color = "gray"
)

func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple, ColorRed, ColorYellow, ColorGray:
		return true
	}
	return false
}

type RecurrenceType string

const (
	RecurrenceTypeNone    RecurrenceType = "none"
	RecurrenceTypeDaily   RecurrenceType = "daily"
	RecurrenceTypeWeekly  RecurrenceType = "weekly"
	RecurrenceTypeMonthly RecurrenceType = "monthly"
	RecurrenceTypeCustom  RecurrenceType = "custom"
)

func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurrenceTypeNone, RecurrenceTypeDaily, RecurrenceTypeWeekly, RecurrenceTypeMonthly, RecurrenceTypeCustom:
		return true
	}
	return false
}

type Recurrence struct {
	Type     RecurrenceType
	Interval int
	// Weekdays is only meaningful for weekly rules.
	Weekdays []time.Weekday
	// EndDate is an inclusive day-level cutoff, nil means unbounded.
	EndDate *time.Time
	// Occurrences caps the number of generated occurrences, 0 means unbounded.
	Occurrences int
	// Exceptions lists calendar days removed from the series.
	Exceptions []time.Time
}

// Step returns the interval, treating unset or invalid values as 1.
func (r Recurrence) Step() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

func (r Recurrence) Clone() Recurrence {
	c := r
	if r.Weekdays != nil {
		c.Weekdays = append([]time.Weekday(nil), r.Weekdays...)
	}
	if r.EndDate != nil {
		end := *r.EndDate
		c.EndDate = &end
	}
	if r.Exceptions != nil {
		c.Exceptions = append([]time.Time(nil), r.Exceptions...)
	}
	return c
}

// Describe returns a short human readable summary of the rule.
func (r Recurrence) Describe() string {
	n := r.Step()

	switch r.Type {
	case RecurrenceTypeDaily:
		if n == 1 {
			return "Daily"
		}
		return fmt.Sprintf("Every %d days", n)
	case RecurrenceTypeWeekly:
		if n == 1 {
			return "Weekly"
		}
		return fmt.Sprintf("Every %d weeks", n)
	case RecurrenceTypeMonthly:
		if n == 1 {
			return "Monthly"
		}
		return fmt.Sprintf("Every %d months", n)
	case RecurrenceTypeCustom:
		return fmt.Sprintf("Custom (every %d days)", n)
	default:
		return ""
	}
}

package model

import "time"

type EventsFilter struct {
	From time.Time
	To   time.Time
}

type CalendarDay struct {
	Date           time.Time
	IsCurrentMonth bool
	IsToday        bool
	Events         []*Event
}

type CalendarMonth struct {
	Days  []*CalendarDay
	Month time.Month
	Year  int
}

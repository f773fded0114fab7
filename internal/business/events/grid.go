package events

import (
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

// Month returns the grid of the month containing date, padded with days of the
// neighbouring months to whole Sunday-first weeks.
func (s *Service) Month(date time.Time) *model.CalendarMonth {
	date = date.In(s.loc)
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)

	return &model.CalendarMonth{
		Days:  s.grid(weekStart(first), weekEnd(last), date.Month()),
		Month: first.Month(),
		Year:  first.Year(),
	}
}

// Week returns the seven days of the Sunday-first week containing date.
func (s *Service) Week(date time.Time) []*model.CalendarDay {
	date = date.In(s.loc)
	return s.grid(weekStart(date), weekEnd(date), date.Month())
}

func (s *Service) grid(start, end time.Time, month time.Month) []*model.CalendarDay {
	events := s.snapshot()
	today := s.now().In(s.loc)

	var days []*model.CalendarDay
	for day := range recurrence.Days(start, end) {
		days = append(days, &model.CalendarDay{
			Date:           day,
			IsCurrentMonth: day.Month() == month,
			IsToday:        recurrence.SameDay(day, today),
			Events:         OccurrencesOnDay(events, day),
		})
	}

	return days
}

func weekStart(t time.Time) time.Time {
	return recurrence.StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func weekEnd(t time.Time) time.Time {
	return recurrence.StartOfDay(t).AddDate(0, 0, int(time.Saturday-t.Weekday()))
}

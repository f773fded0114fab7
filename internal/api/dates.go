package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SergeyKozhin/shared-calendar/internal/recurrence"
)

var errNoDate = errors.New("date must be provided")

// parseDay reads a calendar day given as YYYY-MM-DD, an RFC 3339 timestamp or
// an English phrase such as "tomorrow" or "next friday".
func (a *Api) parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errNoDate
	}

	if t, err := time.ParseInLocation(recurrence.DayLayout, value, a.loc); err == nil {
		return t, nil
	}

	if t, err := time.Parse(dateTimeFormat, value); err == nil {
		return t.In(a.loc), nil
	}

	res, err := a.dates.Parse(value, a.now().In(a.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	if res == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	return res.Time.In(a.loc), nil
}

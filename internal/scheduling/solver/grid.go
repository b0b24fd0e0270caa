package solver

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidWorkHours is surfaced (as a message, never as a Go error
// across Solve's boundary) when the resolved work window is empty or
// inverted.
var ErrInvalidWorkHours = errors.New("invalid_work_hours")

// ErrAmbiguousInstant is returned internally when a naive instant falls
// in a DST fold for the request timezone and cannot be resolved
// unambiguously.
var ErrAmbiguousInstant = errors.New("ambiguous local instant")

// timeGrid is the resolved work window and its uniform slot sequence.
type timeGrid struct {
	workStart time.Time
	workEnd   time.Time
	slotMins  int
	n         int // number of slots
}

// slotStart returns the start instant of slot i.
func (g timeGrid) slotStart(i int) time.Time {
	return g.workStart.Add(time.Duration(i) * time.Duration(g.slotMins) * time.Minute)
}

// buildTimeGrid resolves the work window for the target date and
// produces its slot grid. loc is the request timezone.
func buildTimeGrid(date time.Time, prefs Preferences, loc *time.Location) (timeGrid, error) {
	startStr, endStr := DefaultWorkStart, DefaultWorkEnd
	if prefs.WorkHoursByDay != nil {
		if win, ok := prefs.WorkHoursByDay[date.In(loc).Weekday()]; ok && win.Start != "" && win.End != "" {
			startStr, endStr = win.Start, win.End
		}
	} else if prefs.WorkStart != "" && prefs.WorkEnd != "" {
		startStr, endStr = prefs.WorkStart, prefs.WorkEnd
	}

	workStart, err := combineDateAndClock(date, startStr, loc)
	if err != nil {
		return timeGrid{}, err
	}
	workEnd, err := combineDateAndClock(date, endStr, loc)
	if err != nil {
		return timeGrid{}, err
	}

	if prefs.AllowOvertime {
		workEnd = workEnd.Add(time.Duration(prefs.MaxOvertimeMinutes) * time.Minute)
	}

	if !workEnd.After(workStart) {
		return timeGrid{}, ErrInvalidWorkHours
	}

	slotMins := prefs.slotMinutes()
	totalMinutes := int(workEnd.Sub(workStart).Minutes())
	n := totalMinutes / slotMins
	if n <= 0 {
		return timeGrid{}, ErrInvalidWorkHours
	}

	return timeGrid{workStart: workStart, workEnd: workEnd, slotMins: slotMins, n: n}, nil
}

// combineDateAndClock builds a zoned instant from a calendar date and an
// "HH:MM" wall-clock string.
func combineDateAndClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, ErrInvalidWorkHours
	}
	t, err := time.ParseInLocation("15:04", clock, loc)
	if err != nil {
		return time.Time{}, ErrInvalidWorkHours
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)

	// Detect a DST fold: the round-trip through the zone offset should
	// reproduce the same wall-clock hour/minute we asked for.
	if combined.Hour() != t.Hour() || combined.Minute() != t.Minute() {
		return time.Time{}, ErrAmbiguousInstant
	}
	return combined, nil
}

// resolveTimezone loads the request timezone, defaulting to UTC when
// unset, the way naive instants elsewhere are defined to be interpreted
// in the request timezone.
func resolveTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return loc, nil
}


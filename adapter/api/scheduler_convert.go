package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
)

// decodeJSON decodes the request body into v, writing a 400 response
// and returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "missing request body")
		return false
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func resolveRequestTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}

func resolveRequestDate(date string, loc *time.Location) (time.Time, error) {
	if date == "" {
		return time.Now().In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", date, loc)
}

func toSolverTasksFromDTO(dtos []taskDTO, loc *time.Location) ([]solver.Task, error) {
	tasks := make([]solver.Task, 0, len(dtos))
	for _, d := range dtos {
		startAfter, err := parseOptionalInstant(d.StartAfter, loc)
		if err != nil {
			return nil, fmt.Errorf("task %s: start_after: %w", d.ID, err)
		}
		dueAt, err := parseOptionalInstant(d.DueAt, loc)
		if err != nil {
			return nil, fmt.Errorf("task %s: due_at: %w", d.ID, err)
		}
		tasks = append(tasks, solver.Task{
			ID:               d.ID,
			Title:            d.Title,
			EstimatedMinutes: d.EstimatedMinutes,
			Priority:         d.Priority,
			Energy:           solver.EnergyClass(d.Energy),
			StartAfter:       startAfter,
			DueAt:            dueAt,
			TaskType:         d.TaskType,
		})
	}
	return tasks, nil
}

// toSolverTasksFromPlanned degrades a Shape B planned task, which only
// names a task ID and a duration, into a minimal solver.Task with
// defaulted priority and no energy class or deadline.
func toSolverTasksFromPlanned(dtos []plannedTaskDTO) ([]solver.Task, error) {
	tasks := make([]solver.Task, 0, len(dtos))
	for _, d := range dtos {
		tasks = append(tasks, solver.Task{
			ID:               d.TaskID,
			EstimatedMinutes: d.DurationMin,
			Priority:         solver.DefaultPriority,
		})
	}
	return tasks, nil
}

func toSolverFixedEventsFromDTO(dtos []fixedEventDTO, loc *time.Location) ([]solver.FixedEvent, error) {
	events := make([]solver.FixedEvent, 0, len(dtos))
	for _, d := range dtos {
		start, err := solver.ParseInstant(d.StartDt, loc)
		if err != nil {
			return nil, fmt.Errorf("fixed_event %s: start_dt: %w", d.ID, err)
		}
		end, err := solver.ParseInstant(d.EndDt, loc)
		if err != nil {
			return nil, fmt.Errorf("fixed_event %s: end_dt: %w", d.ID, err)
		}
		blocking := true
		if d.Blocking != nil {
			blocking = *d.Blocking
		}
		events = append(events, solver.FixedEvent{
			ID:       d.ID,
			Start:    start,
			End:      end,
			Blocking: blocking,
		})
	}
	return events, nil
}

func toSolverPrefs(p *prefsDTO) solver.Preferences {
	if p == nil {
		return solver.Preferences{}
	}

	prefs := solver.Preferences{
		WorkStart:          p.WorkStart,
		WorkEnd:            p.WorkEnd,
		AllowOvertime:      p.AllowOvertime,
		MaxOvertimeMinutes: p.MaxOvertimeMinutes,
		BufferMinutes:      p.BufferMinutes,
		DeepWorkMorning:    p.DeepWorkMorning,
		SlotMinutes:        p.SlotMinutes,
	}

	if len(p.WorkHoursByDay) > 0 {
		prefs.WorkHoursByDay = make(map[time.Weekday]solver.DayWindow, len(p.WorkHoursByDay))
		for name, win := range p.WorkHoursByDay {
			if wd, ok := parseWeekday(name); ok {
				prefs.WorkHoursByDay[wd] = solver.DayWindow{Start: win.Start, End: win.End}
			}
		}
	}

	if len(p.EnergyProfileByHour) > 0 {
		prefs.EnergyProfileByHour = make(map[int]float64, len(p.EnergyProfileByHour))
		for hourStr, mult := range p.EnergyProfileByHour {
			var hour int
			if _, err := fmt.Sscanf(hourStr, "%d", &hour); err == nil {
				prefs.EnergyProfileByHour[hour] = mult
			}
		}
	}

	return prefs
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch name {
	case "sunday", "Sunday", "0":
		return time.Sunday, true
	case "monday", "Monday", "1":
		return time.Monday, true
	case "tuesday", "Tuesday", "2":
		return time.Tuesday, true
	case "wednesday", "Wednesday", "3":
		return time.Wednesday, true
	case "thursday", "Thursday", "4":
		return time.Thursday, true
	case "friday", "Friday", "5":
		return time.Friday, true
	case "saturday", "Saturday", "6":
		return time.Saturday, true
	}
	return 0, false
}

func parseOptionalInstant(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := solver.ParseInstant(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toSolveResponse(out solver.SolveOutput) SolveResponse {
	blocks := make([]ScheduledBlockDTO, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		blocks = append(blocks, ScheduledBlockDTO{
			TaskID:     b.TaskID,
			Title:      b.Title,
			Start:      b.Start.Format(time.RFC3339),
			End:        b.End.Format(time.RFC3339),
			BlockType:  string(b.BlockType),
			Confidence: b.Confidence,
			Reason:     b.Reason,
		})
	}
	return SolveResponse{
		Success:     out.Success,
		Blocks:      blocks,
		Unscheduled: out.Unscheduled,
		TotalScore:  out.TotalScore,
		Messages:    out.Messages,
	}
}

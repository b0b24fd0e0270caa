// Package solver implements the single-day, single-resource task
// scheduler: it discretizes a work day into fixed-size slots and solves
// a CP-SAT model for where to place a set of variable-duration tasks
// around fixed blocking events, buffers, and per-task time windows.
package solver

import "time"

// EnergyClass is the discrete energy profile a task is classified under.
type EnergyClass string

const (
	EnergyNone  EnergyClass = ""
	EnergyDeep  EnergyClass = "deep"
	EnergyLight EnergyClass = "light"
)

// BlockKind distinguishes a scheduled task from a synthesized buffer gap.
type BlockKind string

const (
	BlockKindTask   BlockKind = "task"
	BlockKindBuffer BlockKind = "buffer"
)

// DefaultPriority is used when a task does not specify one.
const DefaultPriority = 0.5

// Task is an immutable unit of work to place on the day.
type Task struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	Priority         float64     `json:"priority"` // [0,1], defaults to DefaultPriority
	Energy           EnergyClass `json:"energy,omitempty"`
	StartAfter       *time.Time  `json:"start_after,omitempty"`
	DueAt            *time.Time  `json:"due_at,omitempty"`
	TaskType         string      `json:"task_type,omitempty"` // e.g. "deep_work"
}

func (t Task) priorityOrDefault() float64 {
	if t.Priority == 0 {
		return DefaultPriority
	}
	return t.Priority
}

// FixedEvent is an immutable calendar entry. Non-blocking events are
// ignored by the scheduler core.
type FixedEvent struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Blocking bool      `json:"blocking"`
}

// DayWindow is a wall-clock work window for a single day of the week.
type DayWindow struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

// Preferences captures the scheduling knobs enumerated in the data model.
type Preferences struct {
	// WorkStart/WorkEnd are wall-clock times ("HH:MM") used when
	// WorkHoursByDay is absent or empty for the target weekday.
	WorkStart string `json:"work_start,omitempty"`
	WorkEnd   string `json:"work_end,omitempty"`

	// WorkHoursByDay optionally maps a weekday to its work window; when
	// present, the target date's weekday is looked up here first.
	WorkHoursByDay map[time.Weekday]DayWindow `json:"work_hours_by_day,omitempty"`

	AllowOvertime      bool `json:"allow_overtime,omitempty"`
	MaxOvertimeMinutes int  `json:"max_overtime_minutes,omitempty"`

	BufferMinutes int `json:"buffer_minutes,omitempty"`

	// EnergyProfileByHour maps hour-of-day (0-23) to an energy multiplier.
	EnergyProfileByHour map[int]float64 `json:"energy_profile_by_hour,omitempty"`

	DeepWorkMorning float64 `json:"deep_work_morning,omitempty"` // [0,1]

	SlotMinutes int `json:"slot_minutes,omitempty"` // default 15
}

// DefaultWorkStart/DefaultWorkEnd are used when preferences name no
// window at all for the target weekday.
const (
	DefaultWorkStart = "09:00"
	DefaultWorkEnd   = "18:00"
	DefaultSlotMinutes = 15
	DefaultBufferMinutes = 15
	DefaultDeepWorkMorning = 0.6
)

func (p Preferences) slotMinutes() int {
	if p.SlotMinutes <= 0 {
		return DefaultSlotMinutes
	}
	return p.SlotMinutes
}

func (p Preferences) bufferMinutes() int {
	if p.BufferMinutes < 0 {
		return DefaultBufferMinutes
	}
	return p.BufferMinutes
}

func (p Preferences) deepWorkMorning() float64 {
	if p.DeepWorkMorning == 0 {
		return DefaultDeepWorkMorning
	}
	return p.DeepWorkMorning
}

// SolveInput is everything Solve needs to produce a timeline for one day.
type SolveInput struct {
	Tasks       []Task
	FixedEvents []FixedEvent
	Prefs       Preferences
	Date        time.Time // the target calendar day (time-of-day ignored)
	Timezone    string    // IANA zone; naive instants are interpreted here
}

// ScheduledBlock is one entry of the output timeline.
type ScheduledBlock struct {
	TaskID     string    `json:"task_id,omitempty"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	BlockType  BlockKind `json:"block_type"`
	Confidence float64   `json:"confidence,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// SolveStats carries solver diagnostics.
type SolveStats struct {
	TotalTasks       int           `json:"total_tasks"`
	ScheduledTasks   int           `json:"scheduled_tasks"`
	UnscheduledTasks int           `json:"unscheduled_tasks"`
	SolverStatus     string        `json:"solver_status"`
	WallTime         time.Duration `json:"wall_time"`
}

// SolveOutput is the full result of a Solve call. It never carries a Go
// error: failures are represented by Success=false plus a message, per
// the "never partially apply" propagation policy.
type SolveOutput struct {
	Success     bool             `json:"success"`
	Blocks      []ScheduledBlock `json:"blocks"`
	Unscheduled []string         `json:"unscheduled"`
	TotalScore  float64          `json:"total_score"`
	Stats       SolveStats       `json:"stats"`
	Messages    []string         `json:"messages,omitempty"`
}

// failureOutput builds the canonical all-tasks-unscheduled failure shape.
func failureOutput(tasks []Task, reason string) SolveOutput {
	unscheduled := make([]string, 0, len(tasks))
	for _, t := range tasks {
		unscheduled = append(unscheduled, t.ID)
	}
	return SolveOutput{
		Success:     false,
		Blocks:      nil,
		Unscheduled: unscheduled,
		TotalScore:  0,
		Stats: SolveStats{
			TotalTasks: len(tasks),
		},
		Messages: []string{reason},
	}
}

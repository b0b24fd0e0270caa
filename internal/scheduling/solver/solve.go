package solver

import (
	"context"
	"fmt"
	"log/slog"
)

// Solve builds and runs a single-day, single-resource CP-SAT schedule
// for in.Tasks against in.FixedEvents and in.Prefs. It never returns a
// Go error: every failure mode (invalid work hours, infeasible model,
// a panic inside the CP-SAT bindings) is reported through
// SolveOutput.Success and SolveOutput.Messages so callers always get a
// well-formed response.
func Solve(ctx context.Context, in SolveInput) (out SolveOutput) {
	logger := slog.Default().With("component", "scheduler.solver", "date", in.Date.Format("2006-01-02"))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("solver panicked", "recover", r)
			out = failureOutput(in.Tasks, fmt.Sprintf("exception:%v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failureOutput(in.Tasks, fmt.Sprintf("exception:%v", err))
	}

	loc, err := resolveTimezone(in.Timezone)
	if err != nil {
		logger.Warn("invalid timezone", "timezone", in.Timezone, "error", err)
		return failureOutput(in.Tasks, fmt.Sprintf("exception:%v", err))
	}

	grid, err := buildTimeGrid(in.Date, in.Prefs, loc)
	if err != nil {
		logger.Warn("invalid work hours", "error", err)
		return failureOutput(in.Tasks, "invalid_work_hours")
	}

	tasks, dropped := normalizeTasks(in.Tasks, grid)
	for _, msg := range dropped {
		logger.Info("task dropped during normalization", "message", msg)
	}
	if len(in.Tasks) == 0 {
		return SolveOutput{Success: true, Stats: SolveStats{SolverStatus: "OPTIMAL"}}
	}
	if len(tasks) == 0 {
		out := failureOutput(in.Tasks, "no schedulable tasks")
		out.Messages = append(out.Messages, dropped...)
		return out
	}

	blocked := computeBlockedSlots(in.FixedEvents, grid)

	model := buildModel(tasks, grid, blocked, in.Prefs.bufferMinutes())
	addObjective(model, grid, in.Prefs)

	res, err := runSolver(model, DefaultSolveBudget)
	if err != nil {
		logger.Error("solver backend failed", "error", err)
		out := failureOutput(in.Tasks, fmt.Sprintf("exception:%v", err))
		out.Messages = append(out.Messages, dropped...)
		return out
	}

	logger.Info("solve finished", "status", res.status.String(), "wall_time", res.wallTime)

	if !solverSucceeded(res.status) {
		out := failureOutput(in.Tasks, fmt.Sprintf("solver_status:%s", res.status.String()))
		out.Stats.SolverStatus = res.status.String()
		out.Stats.WallTime = res.wallTime
		out.Messages = append(out.Messages, dropped...)
		return out
	}

	out = assembleOutput(model, grid, in.Prefs, res, dropped)
	out.Messages = append(out.Messages, dropped...)
	return out
}

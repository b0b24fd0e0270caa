package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SolveDayCommand requests a CP-SAT solve of all candidates for a day,
// as an alternative to ScheduleDayCommand's greedy placement.
type SolveDayCommand struct {
	UserID   uuid.UUID
	Date     time.Time
	Timezone string
	Prefs    solver.Preferences
}

// SolveDayResult mirrors ScheduleDayResult's shape so callers can switch
// between the two engines without changing how they read the outcome.
type SolveDayResult struct {
	Date            time.Time
	TotalCandidates int
	Scheduled       int
	Failed          int
	TotalScore      float64
	SolverStatus    string
	Details         []ScheduleItemResult
}

// SolveDayHandler wires the CP-SAT solver's output into the Schedule
// aggregate, reusing the same collection, persistence, and outbox path
// as ScheduleDayHandler.
type SolveDayHandler struct {
	scheduleRepo       schedulingDomain.ScheduleRepository
	candidateCollector *services.CandidateCollector
	idealWeekProvider  *services.IdealWeekConstraintProvider
	outboxRepo         outbox.Repository
	uow                sharedApplication.UnitOfWork
}

// NewSolveDayHandler creates a new handler.
func NewSolveDayHandler(
	scheduleRepo schedulingDomain.ScheduleRepository,
	candidateCollector *services.CandidateCollector,
	idealWeekProvider *services.IdealWeekConstraintProvider,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *SolveDayHandler {
	return &SolveDayHandler{
		scheduleRepo:       scheduleRepo,
		candidateCollector: candidateCollector,
		idealWeekProvider:  idealWeekProvider,
		outboxRepo:         outboxRepo,
		uow:                uow,
	}
}

// Handle executes the command.
func (h *SolveDayHandler) Handle(ctx context.Context, cmd SolveDayCommand) (*SolveDayResult, error) {
	date := time.Date(cmd.Date.Year(), cmd.Date.Month(), cmd.Date.Day(), 0, 0, 0, 0, cmd.Date.Location())

	candidates, err := h.candidateCollector.CollectForDate(ctx, cmd.UserID, date)
	if err != nil {
		return nil, err
	}

	result := &SolveDayResult{
		Date:            date,
		TotalCandidates: len(candidates),
		Details:         make([]ScheduleItemResult, 0, len(candidates)),
	}

	if len(candidates) == 0 {
		return result, nil
	}

	schedule, err := h.scheduleRepo.FindByUserAndDate(ctx, cmd.UserID, date)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		schedule = schedulingDomain.NewSchedule(cmd.UserID, date)
	}

	h.enrichWithIdealWeekConstraints(candidates, date)

	tasks := toSolverTasks(candidates)
	out := solver.Solve(ctx, solver.SolveInput{
		Tasks:    tasks,
		Prefs:    cmd.Prefs,
		Date:     date,
		Timezone: cmd.Timezone,
	})

	result.TotalScore = out.TotalScore
	result.SolverStatus = out.Stats.SolverStatus

	byID := make(map[uuid.UUID]services.SchedulingCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	for _, block := range out.Blocks {
		if block.BlockType != solver.BlockKindTask {
			continue
		}
		taskID, err := uuid.Parse(block.TaskID)
		if err != nil {
			continue
		}
		candidate, ok := byID[taskID]
		if !ok {
			continue
		}

		item := ScheduleItemResult{ID: taskID, Title: candidate.Title, Source: candidate.Source}
		if _, err := schedule.AddBlock(candidate.Type, taskID, candidate.Title, block.Start, block.End); err != nil {
			item.Scheduled = false
			item.Reason = err.Error()
			result.Failed++
		} else {
			item.Scheduled = true
			start, end := block.Start, block.End
			item.StartTime = &start
			item.EndTime = &end
			result.Scheduled++
		}
		result.Details = append(result.Details, item)
	}

	for _, id := range out.Unscheduled {
		taskID, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		candidate, ok := byID[taskID]
		if !ok {
			continue
		}
		result.Failed++
		result.Details = append(result.Details, ScheduleItemResult{
			ID:     taskID,
			Title:  candidate.Title,
			Source: candidate.Source,
			Reason: "not scheduled by solver",
		})
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		if err := h.scheduleRepo.Save(ctx, schedule); err != nil {
			return err
		}
		for _, block := range schedule.Blocks() {
			event := schedulingDomain.NewBlockScheduled(schedule.ID(), block)
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			if err := h.outboxRepo.Save(ctx, msg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *SolveDayHandler) enrichWithIdealWeekConstraints(candidates []services.SchedulingCandidate, date time.Time) {
	if h.idealWeekProvider == nil {
		return
	}
	for i := range candidates {
		constraints := h.idealWeekProvider.GetConstraintsForCandidate(candidates[i], date)
		candidates[i].Constraints = append(candidates[i].Constraints, constraints...)
	}
}

// toSolverTasks converts collected candidates into the solver's task
// shape, scaling the collector's 1=urgent..5=none priority into the
// solver's [0,1] priority where higher is more urgent.
func toSolverTasks(candidates []services.SchedulingCandidate) []solver.Task {
	tasks := make([]solver.Task, 0, len(candidates))
	for _, c := range candidates {
		var dueAt *time.Time
		if c.DueDate != nil {
			d := *c.DueDate
			dueAt = &d
		}
		tasks = append(tasks, solver.Task{
			ID:               c.ID.String(),
			Title:            c.Title,
			EstimatedMinutes: int(c.Duration.Minutes()),
			Priority:         float64(6-c.Priority) / 5.0,
			DueAt:            dueAt,
		})
	}
	return tasks
}

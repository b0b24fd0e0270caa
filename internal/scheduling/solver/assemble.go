package solver

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// assembleOutput maps the solved slot-domain decision variables back to
// wall-clock blocks, synthesizes buffer blocks between consecutive
// scheduled tasks, and computes summary stats.
func assembleOutput(m *cpModel, grid timeGrid, prefs Preferences, res solveResult, dropped []string) SolveOutput {
	var blocks []ScheduledBlock
	var unscheduled []string

	for i, t := range m.tasks {
		if !cpmodel.SolutionBooleanValue(res.response, m.scheduled[i]) {
			unscheduled = append(unscheduled, t.ID)
			continue
		}
		startSlot := int(cpmodel.SolutionIntegerValue(res.response, m.start[i]))
		endSlot := int(cpmodel.SolutionIntegerValue(res.response, m.end[i]))

		blocks = append(blocks, ScheduledBlock{
			TaskID:     t.ID,
			Title:      displayTitle(t.Task),
			Start:      grid.slotStart(startSlot),
			End:        grid.slotStart(endSlot),
			BlockType:  BlockKindTask,
			Confidence: confidenceFor(t, res.status),
			Reason:     reasonFor(t, res.status),
		})
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start.Before(blocks[j].Start) })
	blocks = insertBufferBlocks(blocks, prefs.bufferMinutes())

	for _, id := range dropped {
		unscheduled = append(unscheduled, id)
	}

	stats := SolveStats{
		TotalTasks:       len(m.tasks) + len(dropped),
		ScheduledTasks:   len(blocks) - bufferBlockCount(blocks),
		UnscheduledTasks: len(unscheduled),
		SolverStatus:     res.status.String(),
		WallTime:         res.wallTime,
	}

	return SolveOutput{
		Success:     true,
		Blocks:      blocks,
		Unscheduled: unscheduled,
		TotalScore:  res.response.GetObjectiveValue(),
		Stats:       stats,
	}
}

// insertBufferBlocks synthesizes a buffer block in any gap between two
// consecutive scheduled task blocks that is at least bufferMinutes wide.
func insertBufferBlocks(blocks []ScheduledBlock, bufferMinutes int) []ScheduledBlock {
	if len(blocks) < 2 || bufferMinutes <= 0 {
		return blocks
	}

	out := make([]ScheduledBlock, 0, len(blocks)*2)
	for i, b := range blocks {
		out = append(out, b)
		if i == len(blocks)-1 {
			continue
		}
		gap := blocks[i+1].Start.Sub(b.End)
		if gap >= time.Duration(bufferMinutes)*time.Minute {
			out = append(out, ScheduledBlock{
				Title:     "Buffer",
				Start:     b.End,
				End:       blocks[i+1].Start,
				BlockType: BlockKindBuffer,
			})
		}
	}
	return out
}

func bufferBlockCount(blocks []ScheduledBlock) int {
	n := 0
	for _, b := range blocks {
		if b.BlockType == BlockKindBuffer {
			n++
		}
	}
	return n
}

func confidenceFor(t normalizedTask, status interface{ String() string }) float64 {
	if status.String() == "OPTIMAL" {
		return 1.0
	}
	return 0.75
}

func reasonFor(t normalizedTask, status interface{ String() string }) string {
	if t.Energy == EnergyDeep {
		return fmt.Sprintf("priority %.2f, deep-work slot", t.priorityOrDefault())
	}
	return fmt.Sprintf("priority %.2f", t.priorityOrDefault())
}

package solver

// normalizedTask is a surviving task annotated with its slot-domain.
type normalizedTask struct {
	Task
	durationSlots   int
	earliestSlot    int
	latestStartSlot int
	dueSlot         int  // valid only if hasDue
	hasDue          bool
}

// normalizeTasks converts durations to slot counts and tightens each
// task's start-slot domain from StartAfter/DueAt. Tasks that cannot
// possibly fit are dropped and reported as a message.
func normalizeTasks(tasks []Task, grid timeGrid) ([]normalizedTask, []string) {
	var survivors []normalizedTask
	var messages []string

	for _, t := range tasks {
		durationSlots := ceilDiv(t.EstimatedMinutes, grid.slotMins)
		if durationSlots < 1 {
			durationSlots = 1
		}

		earliestSlot := 0
		if t.StartAfter != nil && t.StartAfter.After(grid.workStart) {
			earliestSlot = maxInt(0, ceilDiv(int(t.StartAfter.Sub(grid.workStart).Minutes()), grid.slotMins))
		}

		latestStartSlot := grid.n - durationSlots

		nt := normalizedTask{
			Task:            t,
			durationSlots:   durationSlots,
			earliestSlot:    earliestSlot,
			latestStartSlot: latestStartSlot,
		}

		if t.DueAt != nil && t.DueAt.Before(grid.workEnd) {
			dueSlot := int(t.DueAt.Sub(grid.workStart).Minutes()) / grid.slotMins
			nt.dueSlot = dueSlot
			nt.hasDue = true
			if tightened := dueSlot - durationSlots; tightened < nt.latestStartSlot {
				nt.latestStartSlot = tightened
			}
		}

		if nt.earliestSlot > nt.latestStartSlot || nt.latestStartSlot < 0 {
			messages = append(messages, "task '"+displayTitle(t)+"' cannot fit in schedule")
			continue
		}

		survivors = append(survivors, nt)
	}

	return survivors, messages
}

func displayTitle(t Task) string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

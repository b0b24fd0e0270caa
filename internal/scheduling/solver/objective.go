package solver

import (
	"math"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Integer scale factors for the weighted objective. CP-SAT optimizes
// over integers, so float weights in [0,1] are scaled up before being
// used as linear-term coefficients.
const (
	priorityWeight    = 1000
	deepWorkMorning   = 500
	energyFitWeight   = 100
	tardinessPenalty  = -2000
	morningHourCutoff = 4 // hours from the start of the work window
)

// addObjective builds the weighted maximization objective: priority
// reward, a deep-work-morning bonus, energy-profile fit, and a
// tardiness penalty, then wires it into m.builder.
func addObjective(m *cpModel, grid timeGrid, prefs Preferences) {
	terms := cpmodel.NewLinearExpr()

	morningCutoffSlot := int64((morningHourCutoff * 60) / grid.slotMins)
	deepWorkBonus := int64(math.Round(prefs.deepWorkMorning() * deepWorkMorning))

	for i, t := range m.tasks {
		terms.AddTerm(m.scheduled[i], int64(math.Round(t.priorityOrDefault()*priorityWeight)))

		if t.Energy == EnergyDeep && deepWorkBonus != 0 {
			morning := m.builder.NewBoolVar(nameFor("morning", t.ID))
			m.builder.AddLessOrEqual(m.end[i], cpmodel.NewConstant(morningCutoffSlot)).
				OnlyEnforceIf(m.scheduled[i], morning)
			terms.AddTerm(morning, deepWorkBonus)
		}

		if len(prefs.EnergyProfileByHour) > 0 {
			addEnergyFitTerms(m, i, t, grid, prefs, terms)
		}

		if t.hasDue {
			tardy := m.builder.NewBoolVar(nameFor("tardy", t.ID))
			notTardy := tardy.Not()
			m.builder.AddGreaterThan(m.end[i], cpmodel.NewConstant(int64(t.dueSlot))).
				OnlyEnforceIf(m.scheduled[i], tardy)
			m.builder.AddLessOrEqual(m.end[i], cpmodel.NewConstant(int64(t.dueSlot))).
				OnlyEnforceIf(m.scheduled[i], notTardy)
			terms.AddTerm(tardy, tardinessPenalty)
		}
	}

	m.builder.Maximize(terms)
}

// addEnergyFitTerms gates one boolean per candidate starting hour for
// deep-energy tasks, each carrying the hour's profile multiplier scaled
// by the task's priority; light and unset energy tasks get no bonus.
// Only the hour containing the task's actual start can be set true
// without breaking its own bound constraints, so at most one fires per
// task.
func addEnergyFitTerms(m *cpModel, i int, t normalizedTask, grid timeGrid, prefs Preferences, terms *cpmodel.LinearExpr) {
	if t.Energy != EnergyDeep {
		return
	}

	slotsPerHour := 60 / grid.slotMins
	if slotsPerHour < 1 {
		slotsPerHour = 1
	}

	firstHour := t.earliestSlot / slotsPerHour
	lastHour := (t.latestStartSlot + t.durationSlots - 1) / slotsPerHour
	baseHour := grid.workStart.Hour()

	for h := firstHour; h <= lastHour; h++ {
		absHour := (baseHour + h) % 24
		mult, ok := prefs.EnergyProfileByHour[absHour]
		if !ok || mult == 0 {
			continue
		}
		coeff := int64(math.Round(mult * t.priorityOrDefault() * energyFitWeight))
		if coeff == 0 {
			continue
		}

		hourStartSlot := int64(h * slotsPerHour)
		hourEndSlot := int64((h + 1) * slotsPerHour)

		inHour := m.builder.NewBoolVar(nameFor("hour", t.ID))
		m.builder.AddGreaterOrEqual(m.start[i], cpmodel.NewConstant(hourStartSlot)).
			OnlyEnforceIf(m.scheduled[i], inHour)
		m.builder.AddLessThan(m.start[i], cpmodel.NewConstant(hourEndSlot)).
			OnlyEnforceIf(m.scheduled[i], inHour)

		terms.AddTerm(inHour, coeff)
	}
}

func nameFor(kind, id string) string {
	return kind + "_" + id
}

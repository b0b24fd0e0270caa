package solver

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// cpModel bundles the CP-SAT decision variables alongside the
// normalized tasks they describe, keyed by position so the result
// assembler can zip them back together after solving.
type cpModel struct {
	builder   *cpmodel.CpModelBuilder
	tasks     []normalizedTask
	start     []cpmodel.IntVar
	end       []cpmodel.IntVar
	scheduled []cpmodel.BoolVar
}

// buildModel constructs the CP-SAT decision variables and the no-overlap
// + buffer + blocked-slot constraint set. It uses the interval-variable
// formulation (optional intervals plus a single global AddNoOverlap)
// rather than reifying pairwise "a before b OR b before a" disjunctions,
// which are easy to get wrong by reifying a constraint against its own
// negation and ending up with a tautology that never forbids an overlap.
// A global no-overlap constraint over interval variables can't express
// that mistake by construction.
func buildModel(tasks []normalizedTask, grid timeGrid, blocked map[int]bool, bufferMinutes int) *cpModel {
	b := cpmodel.NewCpModelBuilder()

	m := &cpModel{
		builder:   b,
		tasks:     tasks,
		start:     make([]cpmodel.IntVar, len(tasks)),
		end:       make([]cpmodel.IntVar, len(tasks)),
		scheduled: make([]cpmodel.BoolVar, len(tasks)),
	}

	bufferSlots := int64(1)
	if bufferMinutes > 0 {
		bufferSlots = int64(ceilDiv(bufferMinutes, grid.slotMins))
		if bufferSlots < 1 {
			bufferSlots = 1
		}
	}

	noOverlapIntervals := make([]cpmodel.IntervalVar, 0, len(tasks)+len(blocked))

	for i, t := range tasks {
		startVar := b.NewIntVarFromDomain(cpmodel.NewDomain(int64(t.earliestSlot), int64(t.latestStartSlot)))
		endVar := b.NewIntVarFromDomain(cpmodel.NewDomain(
			int64(t.earliestSlot+t.durationSlots),
			int64(t.latestStartSlot+t.durationSlots),
		))
		scheduledVar := b.NewBoolVar(fmt.Sprintf("scheduled_%s", t.ID))

		m.start[i] = startVar
		m.end[i] = endVar
		m.scheduled[i] = scheduledVar

		// The real task interval, used for output and objective terms.
		_ = b.NewOptionalIntervalVar(startVar, cpmodel.NewConstant(int64(t.durationSlots)), endVar, scheduledVar)

		// A buffer-inflated shadow interval used only to keep the
		// no-overlap gap at least bufferMinutes wide (C1). Its end is
		// unconstrained output-wise; it only feeds AddNoOverlap.
		bufferedEnd := b.NewIntVarFromDomain(cpmodel.NewDomain(
			int64(t.earliestSlot+t.durationSlots),
			int64(t.latestStartSlot+t.durationSlots)+bufferSlots,
		))
		bufferedInterval := b.NewOptionalIntervalVar(
			startVar,
			cpmodel.NewConstant(int64(t.durationSlots)+bufferSlots),
			bufferedEnd,
			scheduledVar,
		)
		noOverlapIntervals = append(noOverlapIntervals, bufferedInterval)
	}

	// Blocked slots are mandatory fixed-size intervals in the same
	// no-overlap group, merged into contiguous ranges.
	for _, rng := range mergeContiguous(blocked) {
		size := int64(rng.end - rng.start)
		noOverlapIntervals = append(noOverlapIntervals, b.NewFixedSizeIntervalVar(cpmodel.NewConstant(int64(rng.start)), size))
	}

	if len(noOverlapIntervals) > 0 {
		b.AddNoOverlap(noOverlapIntervals...)
	}

	return m
}

type slotRange struct{ start, end int }

// mergeContiguous turns a scattered set of blocked slot indices into
// sorted, merged [start,end) ranges.
func mergeContiguous(blocked map[int]bool) []slotRange {
	if len(blocked) == 0 {
		return nil
	}
	slots := make([]int, 0, len(blocked))
	for s := range blocked {
		slots = append(slots, s)
	}
	sortInts(slots)

	ranges := make([]slotRange, 0)
	cur := slotRange{start: slots[0], end: slots[0] + 1}
	for _, s := range slots[1:] {
		if s == cur.end {
			cur.end = s + 1
			continue
		}
		ranges = append(ranges, cur)
		cur = slotRange{start: s, end: s + 1}
	}
	ranges = append(ranges, cur)
	return ranges
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

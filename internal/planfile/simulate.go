package planfile

import (
	"fmt"

	"github.com/vk/parttracker/internal/part"
)

// CycleTrace is the ordered list of tracker paths opened during one cycle
// of a Simulate run.
type CycleTrace struct {
	Cycle  int
	Opened []string
}

// Simulate replays plan against a fresh *part.Context with an empty
// synthetic body (no assertions, so nothing ever fails) and returns one
// CycleTrace per cycle until the run settles. maxCycles bounds the loop;
// a plan that has not settled within it is reported as an error. Each
// generator multiplies the cycles its subtree needs by its size, so a
// plan with large generators needs a correspondingly large maxCycles.
func Simulate(plan *Plan, maxCycles int) ([]CycleTrace, error) {
	if len(plan.Roots) == 0 {
		return nil, fmt.Errorf("planfile: simulate: plan has no root section")
	}

	ptx := part.NewContext()
	root := ptx.BeginRun()
	defer ptx.EndRun()

	var traces []CycleTrace
	for cycle := 1; cycle <= maxCycles; cycle++ {
		ptx.BeginCycle()
		trace := CycleTrace{Cycle: cycle}
		for _, r := range plan.Roots {
			replay(ptx, r, &trace)
		}
		root.Close()
		traces = append(traces, trace)

		if ptx.CycleCompleted() && root.HasEnded() {
			return traces, nil
		}
	}
	return traces, fmt.Errorf("planfile: simulate: plan did not settle within %d cycles", maxCycles)
}

// replay acquires node's tracker, descends into its children if this
// cycle opened it, and closes it on the way back out — the same
// acquire/run-if-open/close shape internal/macro's Section and Generator
// give a real test body, simplified for a body that can never fail.
func replay(ptx *part.Context, node *PlanNode, trace *CycleTrace) {
	var t *part.Tracker
	switch node.Kind {
	case part.SectionKind:
		t = part.AcquireSection(ptx, node.Name)
	case part.GeneratorKind:
		t = part.AcquireGenerator(ptx, node.Name, node.Size)
	}
	if !t.IsOpen() {
		return
	}

	trace.Opened = append(trace.Opened, t.Path())
	for _, c := range node.Children {
		replay(ptx, c, trace)
	}
	t.Close()
}

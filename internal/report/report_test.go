package report

import (
	"context"
	"testing"

	"github.com/vk/parttracker/internal/part"
)

// Noop must satisfy Reporter and every method must be safe to call with
// zero-value arguments, since a run with no dashboard attached still calls
// through it on every cycle.
func TestNoop_SatisfiesReporterAndDiscardsEverything(t *testing.T) {
	var r Reporter = Noop{}

	r.CycleStarted(context.Background(), "run-1", 1)
	r.TrackerOpened(context.Background(), "run-1", "Testcase.S1", part.SectionKind)
	r.TrackerClosed(context.Background(), "run-1", "Testcase.S1", part.CompletedSuccessfully)
	r.RunCompleted(context.Background(), "run-1", Summary{Name: "Testcase", Cycles: 2, Successful: true, Path: "Testcase.S1"})
}

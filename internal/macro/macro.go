package macro

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/parttracker/internal/part"
	"github.com/vk/parttracker/internal/report"
	"github.com/vk/parttracker/internal/suggest"
)

// RunTest drives name through repeated cycles of body until the whole
// section tree under it has ended, the loop the §6.2 protocol describes:
// begin_run, then repeat begin_cycle/run body/close until the cycle
// completed and the root has ended, then end_run.
//
// goCtx must already carry a logger via ctxlog.WithLogger, the same
// contract every other package in this module assumes of its context
// argument. A nil reporter is treated as report.Noop{}.
func RunTest(goCtx context.Context, ptx *part.Context, name string, reporter report.Reporter, body func(*part.Context)) report.Summary {
	if reporter == nil {
		reporter = report.Noop{}
	}

	ptx.BeginRun()
	cycle := 0
	var tc *part.Tracker
	for {
		cycle++
		ptx.BeginCycle()
		reporter.CycleStarted(goCtx, name, cycle)

		root := ptx.CurrentTracker()
		tc = acquireSection(ptx, name)
		if tc.IsOpen() {
			reporter.TrackerOpened(goCtx, name, tc.Path(), tc.Kind())
			runTestBody(tc, func() { body(ptx) })
		}
		tc.Close()
		reporter.TrackerClosed(goCtx, name, tc.Path(), tc.RunState())

		// root's only ever child is tc itself, acquired once per run, so
		// unlike tc's own children (which can still grow mid-cycle) it is
		// always safe to settle root right behind tc: per §4, closing the
		// root sets CompletedCycle and leaves the cursor at the root.
		root.Close()

		if ptx.CycleCompleted() && root.HasEnded() {
			break
		}
	}

	summary := report.Summary{
		Name:       name,
		Cycles:     cycle,
		Successful: tc.IsSuccessfullyCompleted(),
		Path:       tc.Path(),
	}
	reporter.RunCompleted(goCtx, name, summary)
	ptx.EndRun()
	return summary
}

// Section is what a host framework's SECTION macro expands to: acquire,
// run the block if this cycle entered it, close on the way out.
func Section(ptx *part.Context, name string, body func()) {
	t := acquireSection(ptx, name)
	if !t.IsOpen() {
		return
	}
	runGuardedBody(t, body)
}

// Generator is what a host framework's GENERATE macro expands to: acquire,
// run the block with the generator's current index if this cycle entered
// it, close on the way out.
func Generator(ptx *part.Context, name string, size int, body func(index int)) {
	t := acquireGenerator(ptx, name, size)
	if !t.IsOpen() {
		return
	}
	idx := t.Index()
	runGuardedBody(t, func() { body(idx) })
}

// Fail routes a simulated assertion failure through t's Fail and unwinds
// the rest of the current body via panic/recover, the same shape a
// REQUIRE macro's failure path takes per §6.2.
func Fail(ptx *part.Context, reason string) {
	ptx.CurrentTracker().Fail()
	panic(failSignal{reason: reason})
}

// runGuardedBody executes body, closing t normally on a clean return and
// on a recovered failSignal alike — only the tracker Fail actually landed
// on skips this path, since Fail already closed it by settling its state
// and moving the cursor off of it before panicking.
func runGuardedBody(t *part.Tracker, body func()) {
	defer func() {
		if r := recover(); r != nil {
			if fs, ok := r.(failSignal); ok {
				t.Close()
				panic(fs)
			}
			panic(r)
		}
	}()
	body()
	t.Close()
}

// runTestBody is RunTest's own frame: unlike runGuardedBody, it is the
// outermost recovery point, so it swallows a failSignal instead of
// re-panicking it — the failure already reached the tracker it belongs to
// via Fail, and RunTest's loop is what decides whether another cycle runs.
func runTestBody(tc *part.Tracker, body func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				return
			}
			panic(r)
		}
	}()
	body()
}

func acquireSection(ptx *part.Context, name string) (t *part.Tracker) {
	parent := ptx.CurrentTracker()
	defer func() {
		if r := recover(); r != nil {
			panic(annotateKindMismatch(r, parent, name))
		}
	}()
	return part.AcquireSection(ptx, name)
}

func acquireGenerator(ptx *part.Context, name string, size int) (t *part.Tracker) {
	parent := ptx.CurrentTracker()
	defer func() {
		if r := recover(); r != nil {
			panic(annotateKindMismatch(r, parent, name))
		}
	}()
	return part.AcquireGenerator(ptx, name, size)
}

// annotateKindMismatch turns a recovered part.ErrKindMismatch panic into
// one naming the most likely intended sibling, if any sibling's name is
// close enough to name to plausibly be a typo. Any other recovered value
// is returned unchanged for the caller to re-panic.
func annotateKindMismatch(recovered any, parent *part.Tracker, name string) any {
	err, ok := recovered.(error)
	if !ok || !errors.Is(err, part.ErrKindMismatch) || parent == nil {
		return recovered
	}

	var candidates []string
	for _, c := range parent.Children() {
		if c.Name() != name {
			candidates = append(candidates, c.Name())
		}
	}
	best, ok := suggest.Closest(name, candidates)
	if !ok {
		return err
	}
	return fmt.Errorf("%w (did you mean %q?)", err, best)
}

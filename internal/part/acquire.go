package part

import "fmt"

// AcquireSection finds or creates a child of ctx's current tracker with
// the given name, opens it if this cycle should enter it, and returns it.
//
// Per §4.2: acquisition never opens a section once the current cycle has
// already completed elsewhere, or once the section has already ended —
// in both cases the tracker is returned unopened so the macro layer
// skips its body, and AcquireSection performs a pure lookup (testable
// property 6 of §8).
func AcquireSection(ctx *Context, name string) *Tracker {
	current := ctx.current
	t := current.findChild(name)
	if t == nil {
		t = newSectionTracker(ctx, current, name)
		current.addChild(t)
	} else if t.kind != SectionKind {
		panic(fmt.Errorf("part: %w: %q is already a %s", ErrKindMismatch, t.Path(), t.kind))
	}

	if !ctx.CycleCompleted() && !t.HasEnded() {
		t.open()
	}
	return t
}

// AcquireGenerator finds or creates a generator child of ctx's current
// tracker, advances it to its next iteration unless it is still in
// ExecutingChildren from an earlier cycle (advancing clears its child
// subtree), opens it, and returns it. Size must be the same on every acquisition of a given
// generator name within one parent; size is only consulted on creation.
//
// Per §4.3: like AcquireSection, acquisition is a pure lookup once the
// cycle has completed or the generator has ended.
func AcquireGenerator(ctx *Context, name string, size int) *Tracker {
	current := ctx.current
	t := current.findChild(name)
	if t == nil {
		t = newGeneratorTracker(ctx, current, name, size)
		current.addChild(t)
	} else if t.kind != GeneratorKind {
		panic(fmt.Errorf("part: %w: %q is already a %s", ErrKindMismatch, t.Path(), t.kind))
	}

	if !ctx.CycleCompleted() && !t.HasEnded() {
		if t.runState != ExecutingChildren {
			t.advance()
		}
		t.open()
	}
	return t
}

package part

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two variants a Tracker can hold. The spec models
// Section and Generator as subclasses of one base; here they are one
// struct with a tagged Kind, the way the teacher's dag.Node carries a
// NodeType instead of two node structs.
type Kind int

const (
	// SectionKind is a named block that may nest further sections or
	// generators.
	SectionKind Kind = iota
	// GeneratorKind is a named block parameterized by an index in
	// [0, size), spreading its iterations across cycles.
	GeneratorKind
)

func (k Kind) String() string {
	switch k {
	case SectionKind:
		return "section"
	case GeneratorKind:
		return "generator"
	default:
		return "unknown"
	}
}

// RunState is the tracker's position in the state machine of §4.1.
type RunState int

const (
	NotStarted RunState = iota
	Executing
	ExecutingChildren
	NeedsAnotherRun
	CompletedSuccessfully
	Failed
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Executing:
		return "Executing"
	case ExecutingChildren:
		return "ExecutingChildren"
	case NeedsAnotherRun:
		return "NeedsAnotherRun"
	case CompletedSuccessfully:
		return "CompletedSuccessfully"
	case Failed:
		return "Failed"
	default:
		return "unknown"
	}
}

// Tracker is one node in the persistent tree: a section or a generator
// iteration, remembered across cycles for the life of one run.
type Tracker struct {
	name     string
	kind     Kind
	ctx      *Context
	parent   *Tracker
	children []*Tracker
	runState RunState

	// generator-only payload; zero values for SectionKind.
	size  int
	index int
}

func newSectionTracker(ctx *Context, parent *Tracker, name string) *Tracker {
	return &Tracker{
		name:   name,
		kind:   SectionKind,
		ctx:    ctx,
		parent: parent,
		index:  -1,
	}
}

func newGeneratorTracker(ctx *Context, parent *Tracker, name string, size int) *Tracker {
	if size <= 0 {
		panic(fmt.Sprintf("part: generator %q requires size > 0, got %d", name, size))
	}
	return &Tracker{
		name:   name,
		kind:   GeneratorKind,
		ctx:    ctx,
		parent: parent,
		size:   size,
		index:  -1,
	}
}

// Name returns the tracker's name, unique among its siblings.
func (t *Tracker) Name() string { return t.name }

// Kind reports whether this tracker is a section or a generator.
func (t *Tracker) Kind() Kind { return t.kind }

// Parent returns the enclosing tracker, or nil for the root.
func (t *Tracker) Parent() *Tracker { return t.parent }

// Children returns a snapshot of the tracker's children in insertion order.
// The returned slice is a copy; mutating it does not affect the tree.
func (t *Tracker) Children() []*Tracker {
	out := make([]*Tracker, len(t.children))
	copy(out, t.children)
	return out
}

// Size returns the generator's iteration count. Panics if called on a
// section; callers should check Kind first.
func (t *Tracker) Size() int {
	t.requireKind(GeneratorKind)
	return t.size
}

// Index returns the generator's current iteration, in [0, Size()) once the
// generator has advanced at least once this run, or -1 beforehand. Panics
// if called on a section.
func (t *Tracker) Index() int {
	t.requireKind(GeneratorKind)
	return t.index
}

func (t *Tracker) requireKind(k Kind) {
	if t.kind != k {
		panic(fmt.Errorf("part: %w: tracker %q is a %s, not a %s", ErrKindMismatch, t.Path(), t.kind, k))
	}
}

// HasStarted reports whether the tracker has ever been opened.
func (t *Tracker) HasStarted() bool { return t.runState != NotStarted }

// HasEnded reports whether the tracker reached a terminal state.
func (t *Tracker) HasEnded() bool {
	return t.runState == CompletedSuccessfully || t.runState == Failed
}

// IsOpen reports whether the tracker is open for this cycle: started but
// not yet ended. Invariant 1 of §3: IsOpen() == HasStarted() && !HasEnded().
func (t *Tracker) IsOpen() bool {
	return t.HasStarted() && !t.HasEnded()
}

// IsSuccessfullyCompleted reports whether the tracker settled successfully.
func (t *Tracker) IsSuccessfullyCompleted() bool {
	return t.runState == CompletedSuccessfully
}

// RunState exposes the tracker's raw state, mainly for tests and tooling
// (render, planfile) that need to print or assert on it directly.
func (t *Tracker) RunState() RunState { return t.runState }

// Path renders the root-to-node path, e.g. "Testcase.S1.G1[1].Inner",
// the same convention the teacher's nodeid.Address.String() uses for
// hierarchical node identifiers.
func (t *Tracker) Path() string {
	var segments []string
	for n := t; n != nil && n.parent != nil; n = n.parent {
		seg := n.name
		if n.kind == GeneratorKind {
			seg = fmt.Sprintf("%s[%d]", n.name, n.index)
		}
		segments = append(segments, seg)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, ".")
}

func (t *Tracker) findChild(name string) *Tracker {
	for _, c := range t.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (t *Tracker) addChild(c *Tracker) {
	t.children = append(t.children, c)
}

// open transitions the tracker to Executing, makes it the cursor, and
// propagates openChild up the ancestor chain so every ancestor on the
// active path reaches ExecutingChildren (invariant 2 of §3).
func (t *Tracker) open() {
	t.runState = Executing
	t.ctx.setCurrent(t)
	if t.parent != nil {
		t.parent.openChild()
	}
}

// openChild is idempotent: it only transitions to ExecutingChildren (and
// only recurses to its own parent) the first time it is called since the
// tracker last left that state.
func (t *Tracker) openChild() {
	if t.runState != ExecutingChildren {
		t.runState = ExecutingChildren
		if t.parent != nil {
			t.parent.openChild()
		}
	}
}

// markNeedsAnotherRun records that a descendant failed and this subtree
// must be revisited in a later cycle to discover any untouched siblings.
func (t *Tracker) markNeedsAnotherRun() {
	t.runState = NeedsAnotherRun
}

// advance moves a generator to its next iteration, discarding its entire
// child subtree atomically (invariant 6 of §3) so sections discovered
// under iteration k never leak into iteration k+1.
func (t *Tracker) advance() {
	t.requireKind(GeneratorKind)
	t.index++
	t.children = nil
}

// Close settles the tracker for this cycle. It first drains any
// still-open descendants (unwinding, for example, a generator whose body
// has finished), then examines its own state per §4.1, then moves the
// context cursor to its parent (or, for the root, leaves it in place —
// see §9 open question 3) and marks the cycle completed.
//
// For a generator, Close additionally applies the §4.3 override: if the
// base logic above settled it as CompletedSuccessfully but it still has
// iterations left, it is reopened as Executing so a later cycle resumes
// it via the advance-on-acquire rule in AcquireGenerator instead of
// treating the generator as done.
//
// Close is idempotent on CompletedSuccessfully and Failed.
func (t *Tracker) Close() {
	if t.HasEnded() {
		return
	}

	for t.ctx.current != t {
		t.ctx.current.Close()
	}

	switch t.runState {
	case Executing:
		t.runState = CompletedSuccessfully
	case ExecutingChildren:
		if len(t.children) == 0 || t.children[len(t.children)-1].HasEnded() {
			t.runState = CompletedSuccessfully
		}
		// otherwise: stay in ExecutingChildren, more work pending.
	case NeedsAnotherRun:
		t.runState = Executing
	default:
		panic(fmt.Errorf("part: %w: tracker %q in state %s", ErrInvalidTransition, t.Path(), t.runState))
	}

	if t.kind == GeneratorKind && t.runState == CompletedSuccessfully && t.index < t.size-1 {
		t.runState = Executing
	}

	if t.parent != nil {
		t.ctx.setCurrent(t.parent)
	}
	t.ctx.runPhase = PhaseCompletedCycle
}

// Fail records an assertion-level failure on this tracker: it becomes
// Failed, its parent is scheduled for another run so unvisited siblings
// are still discovered, and the cursor moves up.
func (t *Tracker) Fail() {
	t.runState = Failed
	if t.parent != nil {
		t.parent.markNeedsAnotherRun()
		t.ctx.setCurrent(t.parent)
	}
	t.ctx.runPhase = PhaseCompletedCycle
}

package part

// RunPhase is the per-run coordinator's phase, §3's run_phase field.
type RunPhase int

const (
	PhaseNotStarted RunPhase = iota
	PhaseExecuting
	PhaseCompletedCycle
)

// rootName is the name of the implicit tracker created by BeginRun, the
// same "{root}" sentinel the original implementation uses.
const rootName = "{root}"

// Context is the per-run coordinator: it owns the root tracker, holds the
// cursor to the current tracker, and tracks whether the active cycle has
// completed. A Context is not safe for concurrent use — a host running
// tests in parallel must give each worker its own Context (see
// internal/poolrunner).
type Context struct {
	root     *Tracker
	current  *Tracker
	runPhase RunPhase
}

// NewContext returns a Context ready for BeginRun. The zero value is also
// usable; this constructor exists for symmetry with the rest of the
// package's API and to make call sites read clearly.
func NewContext() *Context {
	return &Context{}
}

// BeginRun creates a fresh root section tracker and returns it. run_phase
// is set to Executing as a "we are inside a run" sentinel; it is
// overwritten by the first BeginCycle.
func (ctx *Context) BeginRun() *Tracker {
	ctx.root = newSectionTracker(ctx, nil, rootName)
	ctx.current = nil
	ctx.runPhase = PhaseExecuting
	return ctx.root
}

// EndRun drops the root tracker and its entire tree, and resets the
// context to its pre-run state. Per §6, there is no persistence across
// runs or process restarts — this is a pure in-memory bulk discard.
func (ctx *Context) EndRun() {
	ctx.root = nil
	ctx.current = nil
	ctx.runPhase = PhaseNotStarted
}

// BeginCycle resets the cursor to the root and marks the cycle executing.
func (ctx *Context) BeginCycle() {
	ctx.current = ctx.root
	ctx.runPhase = PhaseExecuting
}

// CycleCompleted reports whether a Close or Fail has already returned the
// cursor to a parent during the active cycle.
func (ctx *Context) CycleCompleted() bool {
	return ctx.runPhase == PhaseCompletedCycle
}

// CurrentTracker returns the cursor: the tracker whose body the caller is
// currently inside. It is nil between runs and before a run's first
// BeginCycle; between later cycles it stays where the last Close or Fail
// left it.
func (ctx *Context) CurrentTracker() *Tracker {
	return ctx.current
}

// Root returns the run's root tracker, or nil between runs.
func (ctx *Context) Root() *Tracker {
	return ctx.root
}

func (ctx *Context) setCurrent(t *Tracker) {
	ctx.current = t
}

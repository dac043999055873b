// Package part implements the part tracker: a persistent tree of trackers
// and a traversal cursor that drives re-entrant, nested test sections and
// data-driven generators across repeated "cycles" of a test body.
//
// A Context owns one tree for the lifetime of one run. Callers drive it with
// BeginRun/BeginCycle/CycleCompleted/EndRun; AcquireSection and
// AcquireGenerator look up or create a child of the current tracker and,
// when appropriate, open it for the current cycle.
//
// This package has no I/O and no concurrency of its own — see internal/macro
// for the driver loop that exercises it, and internal/poolrunner for running
// several independent Contexts side by side.
package part

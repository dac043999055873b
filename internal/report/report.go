// Package report defines the optional live-broadcasting hook a tracker run
// can publish cycle events through, and a socket.io-backed implementation
// for a dashboard to subscribe to while a long data-driven run is in
// flight.
package report

import (
	"context"

	"github.com/vk/parttracker/internal/part"
)

// Summary is the terminal outcome of one RunTest invocation, the payload a
// Reporter's RunCompleted delivers and the same shape webhook.Summary is
// built from.
type Summary struct {
	Name       string
	Cycles     int
	Successful bool
	Path       string
}

// Reporter receives cycle-level events as a run progresses. Every method
// must return promptly; a slow or blocking Reporter stalls the run it is
// attached to, the same contract the teacher's socket.io runner module
// assumes of its own event handlers.
type Reporter interface {
	CycleStarted(ctx context.Context, runID string, cycle int)
	TrackerOpened(ctx context.Context, runID, path string, kind part.Kind)
	TrackerClosed(ctx context.Context, runID, path string, state part.RunState)
	RunCompleted(ctx context.Context, runID string, summary Summary)
}

// Noop is a Reporter that discards every event, the default when no
// dashboard is configured.
type Noop struct{}

func (Noop) CycleStarted(context.Context, string, int)                 {}
func (Noop) TrackerOpened(context.Context, string, string, part.Kind)   {}
func (Noop) TrackerClosed(context.Context, string, string, part.RunState) {}
func (Noop) RunCompleted(context.Context, string, Summary)             {}

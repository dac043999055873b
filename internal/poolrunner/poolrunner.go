// Package poolrunner fans a batch of independent tracker runs out across
// goroutines. The core tracker's Context is not safe for concurrent use
// (§5's non-goal: no parallel execution of a single test's sections), so
// parallelism here is strictly across suites, each with its own
// *part.Context — never within one.
package poolrunner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/parttracker/internal/ctxlog"
	"github.com/vk/parttracker/internal/part"
)

// Suite is one independent tracker run: a name for error reporting and a
// body driven against its own fresh *part.Context.
type Suite struct {
	Name string
	Run  func(ptx *part.Context) error
}

// Run executes every suite concurrently, each against its own
// *part.Context, and returns the first error encountered (if any), the
// same first-error-wins contract golang.org/x/sync/errgroup gives the
// teacher's own concurrent call sites.
func Run(ctx context.Context, suites []Suite) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("poolrunner: starting suites", "count", len(suites))

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range suites {
		s := s
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			ptx := part.NewContext()
			if err := s.Run(ptx); err != nil {
				return fmt.Errorf("poolrunner: suite %q: %w", s.Name, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		logger.Error("poolrunner: a suite failed", "error", err)
	} else {
		logger.Debug("poolrunner: all suites completed")
	}
	return err
}

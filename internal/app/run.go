package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vk/parttracker/internal/fsutil"
	"github.com/vk/parttracker/internal/macro"
	"github.com/vk/parttracker/internal/part"
	"github.com/vk/parttracker/internal/planfile"
	"github.com/vk/parttracker/internal/poolrunner"
	"github.com/vk/parttracker/internal/render"
	"github.com/vk/parttracker/internal/report"
	"github.com/vk/parttracker/internal/webhook"
)

// planFilesAt returns path itself if it names a file, or every
// ".partplan.hcl" file beneath it if it names a directory — so "plan"/
// "trace" can be pointed at either one planfile or a whole suite tree.
func planFilesAt(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, ".partplan.hcl")
	if err != nil {
		return nil, fmt.Errorf("app: scan %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("app: no .partplan.hcl files found under %s", path)
	}
	return files, nil
}

// Run dispatches to the command selected during cli.Parse.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	switch a.cfg.Command {
	case "plan":
		return a.runPlan(ctx)
	case "trace":
		return a.runTrace(ctx)
	case "demo":
		return a.runDemo(ctx)
	default:
		return fmt.Errorf("app: unknown command %q", a.cfg.Command)
	}
}

func (a *App) runPlan(ctx context.Context) error {
	files, err := planFilesAt(a.cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("app: plan: %w", err)
	}

	for _, f := range files {
		plan, err := planfile.Load(f)
		if err != nil {
			return fmt.Errorf("app: plan: %w", err)
		}
		a.logger.Debug("app: plan loaded", "path", f, "roots", len(plan.Roots))
		if len(files) > 1 {
			fmt.Fprintf(a.outW, "%s:\n", f)
		}
		for _, root := range plan.Roots {
			render.PlanTree(a.outW, root, 100)
		}
	}
	return nil
}

func (a *App) runTrace(ctx context.Context) error {
	files, err := planFilesAt(a.cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("app: trace: %w", err)
	}

	for _, f := range files {
		plan, err := planfile.Load(f)
		if err != nil {
			return fmt.Errorf("app: trace: %w", err)
		}

		traces, err := planfile.Simulate(plan, a.cfg.MaxCycles)
		if err != nil {
			return fmt.Errorf("app: trace: %w", err)
		}
		a.logger.Debug("app: trace settled", "path", f, "cycles", len(traces))

		if len(files) > 1 {
			fmt.Fprintf(a.outW, "%s:\n", f)
		}
		for _, tr := range traces {
			fmt.Fprintf(a.outW, "cycle %d:\n", tr.Cycle)
			for _, p := range tr.Opened {
				fmt.Fprintf(a.outW, "  %s\n", p)
			}
		}
	}
	return nil
}

// demoScenario is one of §8's seed scenarios, reduced to a macro-level body
// and the outcome it is expected to settle with.
type demoScenario struct {
	name           string
	body           func(ptx *part.Context)
	wantSuccessful bool
}

var demoScenarios = []demoScenario{
	{
		name:           "A_SingleSectionHappyPath",
		body:           func(ptx *part.Context) { macro.Section(ptx, "S1", func() {}) },
		wantSuccessful: true,
	},
	{
		name: "B_FailAndReenter",
		body: func(ptx *part.Context) {
			macro.Section(ptx, "S1", func() { macro.Fail(ptx, "simulated assertion failure") })
		},
		wantSuccessful: true,
	},
	{
		name: "C_TwoSiblingSections",
		body: func(ptx *part.Context) {
			macro.Section(ptx, "S1", func() {})
			macro.Section(ptx, "S2", func() {})
		},
		wantSuccessful: true,
	},
	{
		name:           "D_GeneratorOfThree",
		body:           func(ptx *part.Context) { macro.Generator(ptx, "G1", 3, func(int) {}) },
		wantSuccessful: true,
	},
	{
		name: "E_NestedSectionInsideGenerator",
		body: func(ptx *part.Context) {
			macro.Generator(ptx, "G1", 2, func(int) {
				macro.Section(ptx, "Inner", func() {})
			})
		},
		wantSuccessful: true,
	},
	{
		name: "F_FailInsideInnerBranchOuterStillResolves",
		body: func(ptx *part.Context) {
			macro.Section(ptx, "S1", func() {
				macro.Section(ptx, "Inner", func() { macro.Fail(ptx, "simulated assertion failure") })
			})
		},
		wantSuccessful: true,
	},
}

// treeOnCompletion decorates a Reporter so the settled tracker tree is
// printed from RunCompleted, the one hook macro.RunTest fires before its
// own ptx.EndRun() call discards ptx.Root(). mu serializes the print
// against the PASS/FAIL lines run() writes for the same scenario, since
// poolrunner workers share a.outW.
type treeOnCompletion struct {
	report.Reporter
	ptx *part.Context
	mu  *sync.Mutex
	w   io.Writer
}

func (t treeOnCompletion) RunCompleted(ctx context.Context, runID string, summary report.Summary) {
	t.mu.Lock()
	if root := t.ptx.Root(); root != nil {
		render.Tree(t.w, root, 100)
	}
	t.mu.Unlock()
	t.Reporter.RunCompleted(ctx, runID, summary)
}

// runDemo runs every demoScenario against the real part/macro packages
// in-process and prints PASS/FAIL per scenario. With a.cfg.Workers > 1 the
// scenarios fan out across that many poolrunner workers, each holding its
// own *part.Context, to exercise internal/poolrunner.
func (a *App) runDemo(ctx context.Context) error {
	var reporter report.Reporter = report.Noop{}
	if a.cfg.ReportAddr != "" {
		live, err := report.NewSocketIO(ctx, a.cfg.ReportAddr)
		if err != nil {
			return fmt.Errorf("app: demo: %w", err)
		}
		reporter = live
		if closer, ok := live.(interface{ Close() }); ok {
			defer closer.Close()
		}
	}

	var sender webhook.Sender
	if a.cfg.WebhookURL != "" {
		sender = webhook.NewResty(nil, a.cfg.WebhookURL)
	}

	var mu sync.Mutex
	run := func(s demoScenario, ptx *part.Context) error {
		// treeRender wraps the configured reporter so the settled tree is
		// printed from RunCompleted, the last point ptx.Root() is non-nil
		// before macro.RunTest's own EndRun discards it.
		treeRender := treeOnCompletion{Reporter: reporter, ptx: ptx, mu: &mu, w: a.outW}

		var panicked any
		var summary report.Summary
		func() {
			defer func() { panicked = recover() }()
			summary = macro.RunTest(ctx, ptx, "Testcase", treeRender, s.body)
		}()

		mu.Lock()
		defer mu.Unlock()
		if panicked != nil {
			fmt.Fprintf(a.outW, "FAIL %-45s panicked: %v\n", s.name, panicked)
			return fmt.Errorf("app: demo: scenario %q panicked: %v", s.name, panicked)
		}
		if summary.Successful != s.wantSuccessful {
			fmt.Fprintf(a.outW, "FAIL %-45s got successful=%v, want %v\n", s.name, summary.Successful, s.wantSuccessful)
			return fmt.Errorf("app: demo: scenario %q settled successful=%v, want %v", s.name, summary.Successful, s.wantSuccessful)
		}
		fmt.Fprintf(a.outW, "PASS %-45s cycles=%d path=%s\n", s.name, summary.Cycles, summary.Path)

		if sender != nil {
			if err := sender.Send(ctx, webhook.Summary{
				Name:       summary.Name,
				Cycles:     summary.Cycles,
				Successful: summary.Successful,
				Path:       summary.Path,
			}); err != nil {
				a.logger.Warn("app: demo: webhook delivery failed", "scenario", s.name, "error", err)
			}
		}
		return nil
	}

	if a.cfg.Workers <= 1 {
		var failed error
		for _, s := range demoScenarios {
			if err := run(s, part.NewContext()); err != nil && failed == nil {
				failed = err
			}
		}
		return failed
	}

	suites := make([]poolrunner.Suite, len(demoScenarios))
	for i, s := range demoScenarios {
		s := s
		suites[i] = poolrunner.Suite{
			Name: s.name,
			Run: func(ptx *part.Context) error {
				return run(s, ptx)
			},
		}
	}
	return poolrunner.Run(ctx, suites)
}

package macro

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/parttracker/internal/ctxlog"
	"github.com/vk/parttracker/internal/part"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestRunTest_TwoSiblingSectionsAcrossCycles(t *testing.T) {
	var opened []string

	summary := RunTest(testContext(), part.NewContext(), "Testcase", nil, func(ptx *part.Context) {
		Section(ptx, "S1", func() {
			opened = append(opened, "S1")
		})
		Section(ptx, "S2", func() {
			opened = append(opened, "S2")
		})
	})

	assert.Equal(t, []string{"S1", "S2"}, opened)
	assert.True(t, summary.Successful)
	assert.Equal(t, 2, summary.Cycles)
	assert.Equal(t, "Testcase", summary.Path)
}

func TestRunTest_GeneratorSpreadsIterationsAcrossCycles(t *testing.T) {
	var indices []int

	summary := RunTest(testContext(), part.NewContext(), "Testcase", nil, func(ptx *part.Context) {
		Generator(ptx, "G1", 3, func(idx int) {
			indices = append(indices, idx)
		})
	})

	assert.Equal(t, []int{0, 1, 2}, indices)
	assert.True(t, summary.Successful)
	assert.Equal(t, 3, summary.Cycles)
}

func TestRunTest_FailInnerSectionStillResolvesOuter(t *testing.T) {
	var ran []string

	summary := RunTest(testContext(), part.NewContext(), "Testcase", nil, func(ptx *part.Context) {
		Section(ptx, "S1", func() {
			ran = append(ran, "S1")
			Section(ptx, "Inner", func() {
				ran = append(ran, "Inner")
				Fail(ptx, "boom")
				ran = append(ran, "unreachable")
			})
			ran = append(ran, "S1-after-inner")
		})
	})

	assert.NotContains(t, ran, "unreachable")
	assert.Contains(t, ran, "S1-after-inner")
	assert.True(t, summary.Successful)
}

func TestRunTest_NestedSectionsUnderGenerator(t *testing.T) {
	var seen []string

	RunTest(testContext(), part.NewContext(), "Testcase", nil, func(ptx *part.Context) {
		Section(ptx, "S1", func() {
			Generator(ptx, "G1", 2, func(idx int) {
				Section(ptx, "Inner", func() {
					seen = append(seen, currentPath(ptx))
				})
			})
		})
	})

	assert.Equal(t, []string{
		"Testcase.S1.G1[0].Inner",
		"Testcase.S1.G1[1].Inner",
	}, seen)
}

func TestKindMismatchSuggestsClosestSibling(t *testing.T) {
	ptx := part.NewContext()
	ptx.BeginRun()
	ptx.BeginCycle()
	part.AcquireSection(ptx, "Testcase")
	part.AcquireGenerator(ptx, "Attempts", 2).Close()
	part.AcquireGenerator(ptx, "Attempt", 2)

	require.PanicsWithError(t,
		`part: part: existing child has a different kind: "Testcase.Attempt[-1]" is already a generator (did you mean "Attempts"?)`,
		func() { Section(ptx, "Attempt", func() {}) },
	)
}

// currentPath exposes the current tracker's path for the test bodies
// above; a real test body has no need for this, it is only the test
// harness peeking at internal state the way an assertion in the original
// test suite would.
func currentPath(ptx *part.Context) string {
	return ptx.CurrentTracker().Path()
}

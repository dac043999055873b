package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/parttracker/internal/part"
)

func TestTree_PrintsOneLinePerTrackerInDepthOrder(t *testing.T) {
	ptx := part.NewContext()
	ptx.BeginRun()
	ptx.BeginCycle()
	tc := part.AcquireSection(ptx, "Testcase")
	s1 := part.AcquireSection(ptx, "S1")
	s1.Close()
	tc.Close()

	var buf bytes.Buffer
	Tree(&buf, tc, 80)

	out := buf.String()
	assert.Contains(t, out, "Testcase")
	assert.Contains(t, out, "S1")
	assert.Contains(t, out, "CompletedSuccessfully")
}

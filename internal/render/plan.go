package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"

	"github.com/vk/parttracker/internal/part"
	"github.com/vk/parttracker/internal/planfile"
)

// PlanTree writes a planfile's static node tree to w, the undetermined
// (not-yet-run) counterpart to Tree: every line is cyan, since a *PlanNode
// carries a shape but no run state to color by.
func PlanTree(w io.Writer, root *planfile.PlanNode, width int) {
	writePlanNode(w, root, 0, width)
}

func writePlanNode(w io.Writer, n *planfile.PlanNode, depth, width int) {
	label := n.Name
	if n.Kind == part.GeneratorKind {
		label = fmt.Sprintf("%s[size=%d]", n.Name, n.Size)
	}
	line := fmt.Sprintf("%s%s (%s)", strings.Repeat("  ", depth), label, n.Kind)
	wrapped := wordwrap.WrapString(line, uint(max(width, 20)))
	fmt.Fprintln(w, color.FgCyan.Render(wrapped))

	for _, c := range n.Children {
		writePlanNode(w, c, depth+1, width)
	}
}

// Package render prints a tracker tree to a terminal, the same kind of
// human-facing summary the teacher's print runner writes for an HCL
// input value, but shaped for a recursive tree instead of a flat map.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"

	"github.com/vk/parttracker/internal/part"
)

// stateColor picks a color matching a tracker's run state, the same
// PASS/FAIL color convention a CLI test runner uses for its summary line.
func stateColor(s part.RunState) color.Color {
	switch s {
	case part.CompletedSuccessfully:
		return color.FgGreen
	case part.Failed:
		return color.FgRed
	case part.NotStarted:
		return color.FgGray
	default:
		return color.FgYellow
	}
}

// Tree writes t and its descendants to w as an indented tree, one line per
// tracker, colored by run state and wrapped to width columns.
func Tree(w io.Writer, t *part.Tracker, width int) {
	writeNode(w, t, 0, width)
}

func writeNode(w io.Writer, t *part.Tracker, depth, width int) {
	label := t.Name()
	if t.Kind() == part.GeneratorKind {
		label = fmt.Sprintf("%s[%d/%d]", t.Name(), t.Index()+1, t.Size())
	}
	line := fmt.Sprintf("%s%s — %s", strings.Repeat("  ", depth), label, t.RunState())
	wrapped := wordwrap.WrapString(line, uint(max(width, 20)))
	fmt.Fprintln(w, stateColor(t.RunState()).Render(wrapped))

	for _, c := range t.Children() {
		writeNode(w, c, depth+1, width)
	}
}

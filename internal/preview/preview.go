// Package preview renders the character-level difference between a text
// before and after an edit script runs.
package preview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op classifies a span of a preview.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Span is a run of text that was kept, removed or added.
type Span struct {
	Op   Op     `json:"op"   yaml:"op"`
	Text string `json:"text" yaml:"text"`
}

// Compute diffs before against after. Adjacent spans of the same kind are
// coalesced, and empty spans are dropped.
func Compute(before, after string) []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	return toSpans(diffs)
}

func toSpans(diffs []diffmatchpatch.Diff) []Span {
	var spans []Span

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}

		var op Op

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = OpEqual
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}

		if n := len(spans); n > 0 && spans[n-1].Op == op {
			spans[n-1].Text += d.Text

			continue
		}

		spans = append(spans, Span{Op: op, Text: d.Text})
	}

	return spans
}

// Render writes spans inline, marking removals as [-text-] and additions as {+text+}.
func Render(spans []Span) string {
	var b strings.Builder

	for _, s := range spans {
		switch s.Op {
		case OpDelete:
			b.WriteString("[-" + s.Text + "-]")
		case OpInsert:
			b.WriteString("{+" + s.Text + "+}")
		default:
			b.WriteString(s.Text)
		}
	}

	return b.String()
}

// RenderANSI is Text for terminals, with removals in red and additions in green.
func RenderANSI(before, after string) string {
	dmp := diffmatchpatch.New()

	return dmp.DiffPrettyText(dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false)))
}

// Text is shorthand for Render(Compute(before, after)).
func Text(before, after string) string {
	return Render(Compute(before, after))
}

// Changed reports whether spans contain any removal or addition.
func Changed(spans []Span) bool {
	for _, s := range spans {
		if s.Op != OpEqual {
			return true
		}
	}

	return false
}

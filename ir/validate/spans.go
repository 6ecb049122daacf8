package validate

import (
	"strings"

	"github.com/accord-lang/accord/ir"
)

// RefineSpans narrows every Deferred span in ir to point at the
// specific token it semantically describes, by scanning the source
// text's declared line for SearchPattern. It runs first (§4.2) so
// later passes can label reports precisely.
//
// Absence of source text degrades gracefully: deferred spans are left
// as-is, narrowed to nothing more than their declared line.
func RefineSpans(in *ir.IR) (*ir.IR, Reports) {
	out := in.Clone()
	if out.Source == "" {
		return out, nil
	}
	lines := strings.Split(out.Source, "\n")

	refine := func(s ir.Span) ir.Span {
		return refineOne(lines, s)
	}

	for name, st := range out.States {
		st.Span = refine(st.Span)
		for i := range st.Transitions {
			refineTransition(&st.Transitions[i], refine)
		}
		out.States[name] = st
	}
	for i := range out.AnyState {
		refineTransition(&out.AnyState[i], refine)
	}
	for i := range out.Tracks {
		out.Tracks[i].Span = refine(out.Tracks[i].Span)
	}
	for i := range out.Properties {
		out.Properties[i].Span = refine(out.Properties[i].Span)
		for j := range out.Properties[i].Checks {
			out.Properties[i].Checks[j].Span = refine(out.Properties[i].Checks[j].Span)
		}
	}

	return out, nil
}

func refineTransition(t *ir.Transition, refine func(ir.Span) ir.Span) {
	t.Span = refine(t.Span)
	for i := range t.Branches {
		t.Branches[i].Span = refine(t.Branches[i].Span)
		t.Branches[i].NextStateSpan = refine(t.Branches[i].NextStateSpan)
	}
}

// refineOne narrows a single span. If s isn't deferred, it's returned
// unchanged. If it is deferred and the declared line is out of range,
// it is returned unchanged (still deferred). If the line exists but
// the pattern isn't found on it, the span is widened to just the full
// declared line (still better than a bare macro-call-site guess).
func refineOne(lines []string, s ir.Span) ir.Span {
	if !s.IsDeferred() {
		return s
	}
	lineIdx := s.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return s
	}
	line := lines[lineIdx]
	col := strings.Index(line, s.SearchPattern)
	if col < 0 {
		return ir.Positional(s.Line, 0, s.Line, len(line))
	}
	return ir.Positional(s.Line, col, s.Line, col+len(s.SearchPattern))
}

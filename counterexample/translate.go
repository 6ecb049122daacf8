package counterexample

import (
	"fmt"
	"sort"
	"strings"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/modelcheck"
)

// Label is a span plus a short explanation, mirroring
// ir/validate.Label so a Diagnostic renders the same way a front-end
// Report does.
type Label struct {
	Span    ir.Span
	Message string
}

// Diagnostic is §4.8's translated counterexample: a primary label at
// the violated property's definition, a secondary label at the
// action span of the trace's last step, one note per trace step, and
// an optional remediation Help string.
type Diagnostic struct {
	Kind      Kind
	Property  string
	Primary   Label
	Secondary []Label
	Notes     []string
	Help      string
}

// Translate implements §4.8: given a parsed Result, the IR it was
// checked against, and the SpanMap BuildSpanMap produced when
// emitting that IR, it builds a Diagnostic. Translate returns nil,
// false when res reports no violation.
func Translate(res *Result, in *ir.IR, sm *modelcheck.SpanMap, ss *modelcheck.StateSpace) (*Diagnostic, bool) {
	if res == nil || !res.Violated {
		return nil, false
	}

	d := &Diagnostic{Kind: res.Kind, Property: res.Property}

	d.Primary = primaryLabel(res, in, sm)
	if last := res.LastStep(); last.Action != "" {
		d.Secondary = append(d.Secondary, secondaryLabel(last, in, sm))
	}
	d.Notes = buildNotes(res.Trace)

	if res.Kind == KindTypeInvariant {
		d.Help = domainOverflowHint(res.LastStep(), ss)
	}

	return d, true
}

func primaryLabel(res *Result, in *ir.IR, sm *modelcheck.SpanMap) Label {
	switch res.Kind {
	case KindTypeInvariant:
		return Label{Message: "TypeInvariant violated: a variable's assignment fell outside its declared domain"}
	case KindDeadlock:
		return Label{Message: fmt.Sprintf("deadlock reached in state %q: no enabled action", stateOf(res.LastStep()))}
	default:
		if sm != nil {
			if span, ok := sm.Properties[res.Property]; ok {
				return Label{Span: span, Message: fmt.Sprintf("property %q violated here", res.Property)}
			}
		}
		return Label{Message: fmt.Sprintf("property %q violated", res.Property)}
	}
}

func stateOf(s Step) string {
	v, _ := s.Value("state")
	return strings.Trim(v, `"`)
}

// secondaryLabel points at the action span of the trace's final
// step, widened from the bare action-name span SpanMap carries to the
// full enclosing message specification by bracket-matching on the
// originating source line, per §4.8.
func secondaryLabel(last Step, in *ir.IR, sm *modelcheck.SpanMap) Label {
	msg := fmt.Sprintf("last action: %s", last.Action)
	if sm == nil {
		return Label{Message: msg}
	}
	span, ok := sm.Actions[last.Action]
	if !ok {
		return Label{Message: msg}
	}
	return Label{Span: widenToEnclosing(in.Source, span), Message: msg}
}

// widenToEnclosing expands span, which points at a bare tag
// identifier, to cover the full bracketed message specification it
// sits inside, by scanning span's own source line outward for the
// nearest enclosing bracket pair. It never crosses a line boundary:
// if no balanced pair is found on the line, span is returned as-is.
func widenToEnclosing(source string, span ir.Span) ir.Span {
	if span.IsZero() || span.StartLine != span.EndLine {
		return span
	}
	lines := strings.Split(source, "\n")
	idx := span.StartLine - 1
	if idx < 0 || idx >= len(lines) {
		return span
	}
	line := lines[idx]

	open := -1
	depth := 0
	for i := span.StartCol - 1; i >= 0; i-- {
		switch line[i] {
		case ')', '}', ']':
			depth++
		case '(', '{', '[':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
		if open >= 0 {
			break
		}
	}
	if open < 0 {
		return span
	}

	closing := matchingClose(line[open])
	close := -1
	depth = 0
	for i := open + 1; i < len(line); i++ {
		switch line[i] {
		case line[open]:
			depth++
		case closing:
			if depth == 0 {
				close = i
			} else {
				depth--
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 {
		return span
	}
	return ir.Positional(span.StartLine, open, span.StartLine, close+1)
}

func matchingClose(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	default:
		return 0
	}
}

// buildNotes renders one note per trace step: its number, action (or
// "Back to state N" for a temporal lasso closure), and sorted
// var=value assignments, per §4.8.
func buildNotes(trace []Step) []string {
	notes := make([]string, 0, len(trace))
	for _, s := range trace {
		if s.BackTo != 0 && s.Action == "" {
			notes = append(notes, fmt.Sprintf("back to state %d (lasso closure)", s.BackTo))
			continue
		}
		assigns := append([]Assignment(nil), s.Assignments...)
		sort.Slice(assigns, func(i, j int) bool { return assigns[i].Var < assigns[j].Var })
		parts := make([]string, len(assigns))
		for i, a := range assigns {
			parts[i] = fmt.Sprintf("%s=%s", a.Var, a.Value)
		}
		action := s.Action
		if action == "" {
			action = "Init"
		}
		notes = append(notes, fmt.Sprintf("step %d: %s %s", s.Number, action, strings.Join(parts, ", ")))
	}
	return notes
}

// domainOverflowHint implements §4.8's heuristic diagnosis for a
// TypeInvariant violation: for every variable in the final state
// whose declared domain is bounded and whose concrete value lies
// outside it, suggest widening the configured domain or adding a
// state constraint.
func domainOverflowHint(last Step, ss *modelcheck.StateSpace) string {
	if ss == nil {
		return ""
	}
	var offenders []string
	for _, v := range ss.Variables {
		if !bounded(v.Domain) {
			continue
		}
		val, ok := last.Value(v.Name)
		if !ok {
			continue
		}
		if !inDomain(val, v.Domain) {
			offenders = append(offenders, fmt.Sprintf("%s=%s (domain %s)", v.Name, val, domainText(v.Domain)))
		}
	}
	if len(offenders) == 0 {
		return ""
	}
	return fmt.Sprintf(
		"likely domain overflow: %s fell outside its configured domain; widen the corresponding config.Domain or add a state_constraint to bound exploration before this point",
		strings.Join(offenders, ", "),
	)
}

func bounded(d config.Domain) bool {
	return d.Kind == config.DomainRange || d.Kind == config.DomainEnum
}

func inDomain(val string, d config.Domain) bool {
	for _, v := range d.Enumerate() {
		if fmt.Sprintf("%v", v) == val || fmt.Sprintf("%q", v) == val {
			return true
		}
	}
	return false
}

func domainText(d config.Domain) string {
	switch d.Kind {
	case config.DomainRange:
		return fmt.Sprintf("[%d..%d]", d.Min, d.Max)
	default:
		parts := make([]string, len(d.Values))
		for i, v := range d.Values {
			parts[i] = fmt.Sprintf("%v", v)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
}

package modelcheck

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// SpanMap resolves an emitted identifier (a state name, a variable
// name, a property name, or an action name) back to the IR span it
// was derived from, so counterexample translation (§4.8) can anchor
// diagnostics at source locations instead of generated TLA+ text.
type SpanMap struct {
	States     map[string]ir.Span
	Variables  map[string]ir.Span
	Properties map[string]ir.Span
	Actions    map[string]ir.Span
}

// BuildSpanMap walks the same IR structures BuildStateSpace/
// BuildActions/BuildProperties do and records each emitted
// identifier's originating span. Any-state transitions expand to one
// action-name entry per non-terminal state, mirroring §9's "flatten
// once, do not re-check at dispatch time" note.
func BuildSpanMap(in *ir.IR, ss *StateSpace, actions []Action, props []PropertyDef) *SpanMap {
	sm := &SpanMap{
		States:     map[string]ir.Span{},
		Variables:  map[string]ir.Span{},
		Properties: map[string]ir.Span{},
		Actions:    map[string]ir.Span{},
	}

	for name, st := range in.States {
		if !st.Span.IsZero() {
			sm.States[name] = st.Span
		}
	}

	for _, v := range ss.Variables {
		if tr, ok := in.Track(v.Name); ok && !tr.Span.IsZero() {
			sm.Variables[v.Name] = tr.Span
		}
	}

	for _, p := range in.Properties {
		for i, c := range p.Checks {
			if c.Span.IsZero() {
				continue
			}
			name := p.Name
			if len(p.Checks) > 1 {
				name = indexedName(p.Name, i+1, len(p.Checks))
			}
			sm.Properties[name] = c.Span
		}
	}

	byStateTag := map[string]ir.Span{}
	for stateName, st := range in.States {
		for _, t := range st.Transitions {
			byStateTag[stateName+"\x00"+t.Tag()] = t.Span
		}
	}
	for _, t := range in.AnyState {
		for stateName, st := range in.States {
			if st.Terminal {
				continue
			}
			byStateTag[stateName+"\x00"+t.Tag()] = t.Span
		}
	}

	for _, a := range actions {
		if span, ok := byStateTag[a.SourceState+"\x00"+a.Tag]; ok && !span.IsZero() {
			sm.Actions[a.Name] = span
		}
	}

	return sm
}

func indexedName(base string, i, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, i)
}

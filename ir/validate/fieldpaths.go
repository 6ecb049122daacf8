package validate

import (
	"fmt"
	"sort"

	"github.com/accord-lang/accord/ir"
)

// ResolveFieldPaths implements E035/E036: for every `ordered`/
// `correspondence` check with a `by:` clause, locate the referenced
// event's transition(s), resolve the declared field name to a tuple
// position (+ optional nested map-key path), and attach the result.
//
// §9's first Open Question ("first transition found... document an
// ordering") is resolved here per SPEC_FULL.md §D.6: ties are broken
// lexicographically by declaring state name.
func ResolveFieldPaths(in *ir.IR) (*ir.IR, Reports) {
	out := in.Clone()
	var reports Reports

	for pi := range out.Properties {
		prop := &out.Properties[pi]
		for ci := range prop.Checks {
			chk := &prop.Checks[ci]
			var tag string
			switch chk.Kind {
			case ir.CheckCorrespondence:
				if chk.ByFieldName == "" {
					continue
				}
				tag = chk.OpenTag
			case ir.CheckOrdered:
				if chk.ByFieldName == "" {
					continue
				}
				tag = chk.EventTag
			default:
				continue
			}

			trs := transitionsForTag(in, tag)
			if len(trs) == 0 {
				reports = append(reports, Report{
					Code:     "E035",
					Severity: SeverityError,
					Message:  fmt.Sprintf("property %q: by: %q names event %q which no transition declares", prop.Name, chk.ByFieldName, tag),
					Primary:  Label{Span: chk.Span, Message: "event tag never declared"},
				})
				continue
			}

			fp, err := resolveField(tag, chk.ByFieldName, trs[0].t)
			if err != nil {
				reports = append(reports, Report{
					Code:     "E036",
					Severity: SeverityError,
					Message:  fmt.Sprintf("property %q: by: %q is absent from event %q's parameters", prop.Name, chk.ByFieldName, tag),
					Primary:  Label{Span: chk.Span, Message: "unresolvable field"},
				})
				continue
			}
			chk.By = fp
		}
	}

	return out, reports
}

type taggedTransition struct {
	state string
	t     ir.Transition
}

// transitionsForTag finds every transition (state-local or any-state)
// declaring tag, sorted lexicographically by state name so "first" is
// deterministic (any-state transitions sort under the sentinel name
// "" so they come first, matching their "present in every state"
// status).
func transitionsForTag(in *ir.IR, tag string) []taggedTransition {
	var out []taggedTransition
	for _, t := range in.AnyState {
		if t.Tag() == tag {
			out = append(out, taggedTransition{state: "", t: t})
		}
	}
	names := in.StateNames()
	sort.Strings(names)
	for _, name := range names {
		for _, t := range in.States[name].Transitions {
			if t.Tag() == tag {
				out = append(out, taggedTransition{state: name, t: t})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].state < out[j].state })
	return out
}

// resolveField finds field within t's message pattern arguments,
// returning its positional index. A dotted name ("a.b") additionally
// records a nested map-key path beyond the positional argument.
func resolveField(tag, field string, t ir.Transition) (*ir.FieldPath, error) {
	parts := splitFieldPath(field)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty field name")
	}
	for idx, arg := range t.Pattern.Args {
		if arg.Name == parts[0] {
			return &ir.FieldPath{
				EventTag:  tag,
				FieldName: field,
				Position:  idx,
				NestedKey: parts[1:],
			}, nil
		}
	}
	return nil, fmt.Errorf("field %q not found among %s's parameters", field, tag)
}

func splitFieldPath(field string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '.' {
			parts = append(parts, field[start:i])
			start = i + 1
		}
	}
	parts = append(parts, field[start:])
	return parts
}

package modelcheck

import (
	"fmt"
	"sort"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
)

// PropertyDef is one emitted property: its name and the TLA+-like
// text of its definition, per §4.7's property translation table.
type PropertyDef struct {
	Name string
	Text string
}

// BuildProperties implements §4.7's property translation: each
// Property's Checks become one or more named definitions
// (invariant/local_invariant/action/bounded/correspondence), and the
// temporal kinds (liveness/reachable/precedence/ordered/forbidden)
// degrade to TRUE with a warning, since the state-space emission
// targets a model checker's safety-checking mode only.
func BuildProperties(in *ir.IR, ss *StateSpace, cfg *config.Config) ([]PropertyDef, []Warning, error) {
	var defs []PropertyDef
	var warns []Warning

	for _, p := range in.Properties {
		for i, chk := range p.Checks {
			name := p.Name
			if len(p.Checks) > 1 {
				name = fmt.Sprintf("%s_%d", p.Name, i+1)
			}
			text, w, err := buildCheckText(name, chk, ss, cfg)
			if err != nil {
				return nil, nil, err
			}
			if w != nil {
				warns = append(warns, *w)
			}
			defs = append(defs, PropertyDef{Name: name, Text: text})
		}
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, warns, nil
}

func buildCheckText(name string, chk ir.Check, ss *StateSpace, cfg *config.Config) (string, *Warning, error) {
	switch chk.Kind {
	case ir.CheckInvariant:
		body, warn := TranslateOrWarn(chk.Predicate.Expr, &Context{Bindings: tracksBindings(ss)}, chk.Predicate.Span)
		return fmt.Sprintf("%s == %s", name, body), warn, nil

	case ir.CheckLocalInvariant:
		body, warn := TranslateOrWarn(chk.Predicate.Expr, &Context{Bindings: tracksBindings(ss)}, chk.Predicate.Span)
		text := fmt.Sprintf("%s == (state = %s) => (%s)", name, translateLit(chk.StateRef), body)
		return text, warn, nil

	case ir.CheckAction:
		// old/new track access is expressed directly via ExprField's
		// current/primed marker (translateField), not via Bindings, so
		// an action predicate's body needs no special binding scope
		// beyond the plain tracks one. The predicate relates a state to
		// its successor, so the whole thing is wrapped in [] (always)
		// rather than checked as a plain state predicate.
		body, warn := TranslateOrWarn(chk.Predicate.Expr, &Context{Bindings: tracksBindings(ss)}, chk.Predicate.Span)
		return fmt.Sprintf("%s == [](%s)", name, body), warn, nil

	case ir.CheckBounded:
		maxText := translateLit(chk.Max)
		text := fmt.Sprintf("%s == %s <= %s", name, chk.TrackName, maxText)
		return text, nil, nil

	case ir.CheckCorrespondence:
		counter := correspondenceCounterName(chk.OpenTag)
		text := fmt.Sprintf("%s == %s >= 0", name, counter)
		return text, nil, nil

	default: // liveness, reachable, precedence, ordered, forbidden
		return fmt.Sprintf("%s == TRUE", name), &Warning{
			Span:    chk.Span,
			Message: fmt.Sprintf("property check kind %s has no safety-checking translation, degraded to TRUE", chk.Kind),
		}, nil
	}
}

// tracksBindings maps every track name to itself, the scope a
// tracks-only predicate (invariant/local_invariant/action) is
// evaluated against. The event variable, when the state space declares
// one, is bound the same way: a local_invariant's predicate is defined
// over msg+tracks per §3, and event holds the arriving message's tag
// (set by BuildActions' event' assignment), so a predicate referencing
// it resolves to that live TLA+ variable rather than failing as
// unbound. state is left out; CheckLocalInvariant compares it directly
// against StateRef, not through a predicate-body binding.
func tracksBindings(ss *StateSpace) Bindings {
	b := Bindings{}
	for _, v := range ss.Variables {
		if v.Name == "state" {
			continue
		}
		b[v.Name] = v.Name
	}
	return b
}

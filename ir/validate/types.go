package validate

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/typecheck"
)

// ValidateTypes implements E010-E011.
func ValidateTypes(in *ir.IR) (*ir.IR, Reports) {
	var reports Reports

	for _, tr := range in.Tracks {
		if err := typecheck.Check(tr.Default, tr.Type); err != nil {
			reports = append(reports, Report{
				Code:     "E010",
				Severity: SeverityError,
				Message:  fmt.Sprintf("track %q default %#v violates declared type %s: %v", tr.Name, tr.Default, tr.Type, err),
				Primary:  Label{Span: tr.Span, Message: "default value declared here"},
			})
		}
	}

	checkCallArity := func(stateName string, t ir.Transition) {
		if t.Kind == ir.KindCall && len(t.Branches) == 0 {
			reports = append(reports, Report{
				Code:     "E011",
				Severity: SeverityError,
				Message:  fmt.Sprintf("call transition %q in state %q has zero branches", t.Tag(), stateName),
				Primary:  Label{Span: t.Span, Message: "call transition with no branches"},
			})
		}
	}

	for name, st := range in.States {
		for _, t := range st.Transitions {
			checkCallArity(name, t)
		}
	}
	for _, t := range in.AnyState {
		checkCallArity("<any-state>", t)
	}

	return in, reports
}

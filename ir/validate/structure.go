package validate

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// ValidateStructure implements E001-E003.
func ValidateStructure(in *ir.IR) (*ir.IR, Reports) {
	var reports Reports

	if _, ok := in.States[in.Initial]; !ok {
		reports = append(reports, Report{
			Code:     "E001",
			Severity: SeverityError,
			Message:  fmt.Sprintf("initial state %q is undefined", in.Initial),
			Primary:  Label{Message: "declared as the initial state here"},
		})
	}

	checkTargets := func(stateName string, t ir.Transition) {
		for _, b := range t.Branches {
			if b.NextState.Shape == ir.StateRefSame {
				continue
			}
			if _, ok := in.States[b.NextState.Name]; !ok {
				reports = append(reports, Report{
					Code:     "E002",
					Severity: SeverityError,
					Message:  fmt.Sprintf("transition %q in state %q targets undefined state %q", t.Tag(), stateName, b.NextState.Name),
					Primary:  Label{Span: b.NextStateSpan, Message: "undefined target state"},
				})
			}
		}
	}

	for name, st := range in.States {
		if st.Terminal && len(st.Transitions) > 0 {
			reports = append(reports, Report{
				Code:     "E003",
				Severity: SeverityError,
				Message:  fmt.Sprintf("terminal state %q declares transitions", name),
				Primary:  Label{Span: st.Span, Message: "terminal state with outgoing transitions"},
			})
		}
		for _, t := range st.Transitions {
			checkTargets(name, t)
		}
	}
	for _, t := range in.AnyState {
		checkTargets("<any-state>", t)
	}

	return in, reports
}

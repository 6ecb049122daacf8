package validate

import (
	"fmt"
	"sort"

	"github.com/accord-lang/accord/ir"
)

// ValidateDeterminism implements E020: within a single state, message
// tags must be unique across that state's own transitions and the
// any-state transitions (which are considered present in every
// non-terminal state, per §3/§9).
func ValidateDeterminism(in *ir.IR) (*ir.IR, Reports) {
	var reports Reports

	anyTags := map[string]ir.Transition{}
	for _, t := range in.AnyState {
		if dup, have := anyTags[t.Tag()]; have {
			reports = append(reports, dupReport(t.Tag(), "<any-state>", dup.Span, t.Span))
		}
		anyTags[t.Tag()] = t
	}

	names := in.StateNames()
	sort.Strings(names)
	for _, name := range names {
		st := in.States[name]
		if st.Terminal {
			continue
		}
		seen := map[string]ir.Transition{}
		for _, t := range st.Transitions {
			if dup, have := seen[t.Tag()]; have {
				reports = append(reports, dupReport(t.Tag(), name, dup.Span, t.Span))
			}
			seen[t.Tag()] = t
			if any, have := anyTags[t.Tag()]; have {
				reports = append(reports, dupReport(t.Tag(), name, any.Span, t.Span))
			}
		}
	}

	return in, reports
}

func dupReport(tag, state string, first, second ir.Span) Report {
	return Report{
		Code:     "E020",
		Severity: SeverityError,
		Message:  fmt.Sprintf("message tag %q is declared by more than one transition in state %q", tag, state),
		Primary:  Label{Span: second, Message: "duplicate declaration"},
		Secondary: []Label{
			{Span: first, Message: "first declared here"},
		},
	}
}

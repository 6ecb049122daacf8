package validate

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// ValidateProperties implements E030-E034: every property reference
// (tracks, states, open tags) must be defined.
func ValidateProperties(in *ir.IR) (*ir.IR, Reports) {
	var reports Reports

	openTags := map[string]bool{}
	for name, st := range in.States {
		_ = name
		for _, t := range st.Transitions {
			openTags[t.Tag()] = true
		}
	}
	for _, t := range in.AnyState {
		openTags[t.Tag()] = true
	}

	for _, prop := range in.Properties {
		for _, chk := range prop.Checks {
			switch chk.Kind {
			case ir.CheckBounded:
				if _, ok := in.Track(chk.TrackName); !ok {
					reports = append(reports, Report{
						Code:     "E030",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: bounded references unknown track %q", prop.Name, chk.TrackName),
						Primary:  Label{Span: chk.Span, Message: "unknown track"},
					})
				}
			case ir.CheckCorrespondence:
				if !openTags[chk.OpenTag] {
					reports = append(reports, Report{
						Code:     "E031",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: correspondence open tag %q never appears in any transition", prop.Name, chk.OpenTag),
						Primary:  Label{Span: chk.Span, Message: "open tag never declared"},
					})
				}
			case ir.CheckLocalInvariant:
				if _, ok := in.States[chk.StateRef]; !ok {
					reports = append(reports, Report{
						Code:     "E032",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: local_invariant references unknown state %q", prop.Name, chk.StateRef),
						Primary:  Label{Span: chk.Span, Message: "unknown state"},
					})
				}
			case ir.CheckReachable:
				if _, ok := in.States[chk.TargetState]; !ok {
					reports = append(reports, Report{
						Code:     "E033",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: reachable references unknown state %q", prop.Name, chk.TargetState),
						Primary:  Label{Span: chk.Span, Message: "unknown state"},
					})
				}
			case ir.CheckPrecedence:
				if _, ok := in.States[chk.TargetState]; !ok {
					reports = append(reports, Report{
						Code:     "E034",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: precedence references unknown target state %q", prop.Name, chk.TargetState),
						Primary:  Label{Span: chk.Span, Message: "unknown target state"},
					})
				}
				if _, ok := in.States[chk.RequiredState]; !ok {
					reports = append(reports, Report{
						Code:     "E034",
						Severity: SeverityError,
						Message:  fmt.Sprintf("property %q: precedence references unknown required state %q", prop.Name, chk.RequiredState),
						Primary:  Label{Span: chk.Span, Message: "unknown required state"},
					})
				}
			}
		}
	}

	return in, reports
}

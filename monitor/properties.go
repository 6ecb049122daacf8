package monitor

import (
	"github.com/accord-lang/accord/ir"
)

// evaluateProperties implements §4.6c: iterate every Check of every
// Property, short-circuiting on the first violation found within this
// step. msg/reply/oldTracks/newTracks are as available at the point
// a call or cast has just updated tracks (reply and oldTracks are
// nil/empty for a cast, which never reaches here per §4.6b — casts
// don't check properties at all).
func (s *Session) evaluateProperties(msg, reply interface{}, oldTracks, newTracks map[string]interface{}, nextState string) (*ir.Violation, error) {
	for _, prop := range s.IR.Properties {
		for _, chk := range prop.Checks {
			v, err := s.evaluateCheck(chk, msg, reply, oldTracks, newTracks, nextState)
			if err != nil {
				return nil, err
			}
			if v != nil {
				v.Context["property"] = prop.Name
				return v, nil
			}
		}
	}
	return nil, nil
}

func (s *Session) evaluateCheck(chk ir.Check, msg, reply interface{}, oldTracks, newTracks map[string]interface{}, nextState string) (*ir.Violation, error) {
	switch chk.Kind {
	case ir.CheckInvariant:
		ok, err := chk.Predicate.EvalTracks(newTracks)
		if err != nil {
			return nil, err
		}
		if !ok {
			v := ir.NewViolation(ir.ViolationInvariantViolated, nextState, msg).WithReply(reply)
			return &v, nil
		}
		return nil, nil

	case ir.CheckLocalInvariant:
		if nextState != chk.StateRef {
			return nil, nil
		}
		ok, err := chk.Predicate.EvalLocalInvariant(msg, newTracks)
		if err != nil {
			return nil, err
		}
		if !ok {
			v := ir.NewViolation(ir.ViolationInvariantViolated, nextState, msg).
				WithReply(reply).WithContext("local_invariant_state", chk.StateRef)
			return &v, nil
		}
		return nil, nil

	case ir.CheckAction:
		ok, err := chk.Predicate.EvalAction(oldTracks, newTracks)
		if err != nil {
			return nil, err
		}
		if !ok {
			v := ir.NewViolation(ir.ViolationActionViolated, nextState, msg).WithReply(reply)
			return &v, nil
		}
		return nil, nil

	case ir.CheckBounded:
		// "effective shorthand for an invariant tracks.t <= max (null
		// tolerated)" (§4.6c).
		val, present := newTracks[chk.TrackName]
		if !present || val == nil || chk.Max == nil {
			return nil, nil
		}
		cur, curOK := asFloat(val)
		max, maxOK := asFloat(chk.Max)
		if curOK && maxOK && cur > max {
			v := ir.NewViolation(ir.ViolationInvariantViolated, nextState, msg).
				WithReply(reply).WithContext("track", chk.TrackName).WithContext("max", chk.Max).WithContext("value", val)
			return &v, nil
		}
		return nil, nil

	case ir.CheckCorrespondence:
		s.stepCorrespondence(chk, msg)
		return nil, nil

	default:
		// liveness, reachable, precedence, ordered, forbidden: not
		// evaluated at runtime, per §4.6c — either temporal or
		// design-time, left to the model-checker back-end.
		return nil, nil
	}
}

// stepCorrespondence maintains the per-open-tag counter of §4.6c: a
// source != target message carrying the open tag increments it, one
// carrying a close tag decrements it, floored at zero (the
// floor case also bumps Underflow, a non-violation diagnostic per
// SPEC_FULL.md's correspondence underflow decision).
func (s *Session) stepCorrespondence(chk ir.Check, msg interface{}) {
	tag, _, ok := decompose(msg)
	if !ok {
		return
	}
	if !crossRole(msg) {
		return
	}
	switch tag {
	case chk.OpenTag:
		s.Correspondence[chk.OpenTag]++
	default:
		for _, close := range chk.CloseTags {
			if tag == close {
				if s.Correspondence[chk.OpenTag] > 0 {
					s.Correspondence[chk.OpenTag]--
				} else {
					s.Underflow[chk.OpenTag]++
				}
				return
			}
		}
	}
}

// crossRole reports whether a message's implied source and target
// differ, per correspondence's "source != target" qualifier. Accord
// messages carry no explicit role envelope in the IR itself (§1 fixes
// the cardinality at client/server and the monitor always observes
// traffic crossing that boundary), so every message the monitor
// evaluates a correspondence check against is, by construction,
// cross-role; this hook exists so a richer message envelope (adding
// an explicit source/target pair) can refine it later without
// touching stepCorrespondence's caller.
func crossRole(msg interface{}) bool {
	return true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

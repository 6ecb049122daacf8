package monitor

import (
	"errors"
	"time"

	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/transport"
	"github.com/accord-lang/accord/typecheck"
)

// CallResult is what a Call step hands back to whatever fed the
// message in: the reply to answer the client with (already wrapped in
// {violation, V} for client/server-blame violations, per §4.6d), the
// Violation if one fired (nil on a clean step), and whether the
// session is now Terminated.
type CallResult struct {
	Reply      interface{}
	Violation  *ir.Violation
	Terminated bool
}

func violationReply(v ir.Violation) interface{} {
	return []interface{}{"violation", v}
}

// Call runs §4.6a's full pipeline for one inbound call message. The
// returned error is non-nil only for an internal monitor bug (e.g. an
// evaluator that is supposed to exist but doesn't); every protocol or
// property failure is a Violation in CallResult, never a Go error.
func (s *Session) Call(ctx *actx.Ctx, msg interface{}) (CallResult, error) {
	// Step 1: terminal check.
	if s.Terminated() {
		v := ir.NewViolation(ir.ViolationSessionEnded, s.CurrentState, msg)
		terminate := s.Policy.apply(ctx, v)
		s.terminated = s.terminated || terminate
		return CallResult{Reply: violationReply(v), Violation: &v, Terminated: s.Terminated()}, nil
	}

	tag, args, decomposed := decompose(msg)

	// Step 2: dispatch.
	var tr ir.Transition
	var found bool
	if decomposed {
		tr, found = s.Table.Lookup(s.CurrentState, tag)
	}
	if !decomposed || !found {
		v := ir.NewViolation(ir.ViolationInvalidMessage, s.CurrentState, msg).
			WithExpected(s.Table.TagsInState(s.CurrentState))
		return s.finishClientOrServer(ctx, v)
	}

	// Step 3: kind check.
	if tr.Kind != ir.KindCall {
		v := ir.NewViolation(ir.ViolationInvalidMessage, s.CurrentState, msg).
			WithExpected(s.Table.TagsInState(s.CurrentState)).
			WithContext("reason", "expected a call, dispatch matched a cast")
		return s.finishClientOrServer(ctx, v)
	}

	// Step 4: argument typing. Arity mismatches pass through
	// undiagnosed here; the front-end's pattern construction is
	// responsible for that (§4.6a step 4).
	if len(args) == len(tr.Pattern.Args) {
		for i, a := range tr.Pattern.Args {
			if err := typecheck.Check(args[i], a.Type); err != nil {
				v := ir.NewViolation(ir.ViolationArgumentType, s.CurrentState, msg).
					WithExpected(a.Type).
					WithContext("position", i).
					WithContext("argument", args[i]).
					WithContext("reason", err.Error())
				return s.finishClientOrServer(ctx, v)
			}
		}
	}

	// Step 5: guard.
	if tr.Guard != nil {
		ok, err := tr.Guard.EvalMessageGuard(msg, s.Tracks)
		if err != nil {
			return CallResult{}, err
		}
		if !ok {
			v := ir.NewViolation(ir.ViolationGuardFailed, s.CurrentState, msg)
			return s.finishClientOrServer(ctx, v)
		}
	}

	// Step 6: forward.
	deadline, cancel := transport.WithDeadline(ctx, s.CallTimeoutMs)
	defer cancel()
	callCtx := ctx.WithContext(deadline)
	start := time.Now()
	reply, err := s.Upstream.Call(callCtx, msg)
	elapsed := time.Since(start)
	if err != nil {
		v := ir.NewViolation(ir.ViolationTimeout, s.CurrentState, msg).
			WithContext("elapsed_ms", elapsed.Milliseconds())
		if errors.Is(err, transport.ErrUnavailable) {
			v = v.WithContext("cause", "upstream_unavailable")
		} else {
			v = v.WithContext("cause", "deadline")
		}
		return s.finishClientOrServer(ctx, v)
	}

	// Step 7: classify reply.
	nextState, matched, err := s.classifyReply(reply, tr.Branches)
	if err != nil {
		return CallResult{}, err
	}
	if !matched {
		v := ir.NewViolation(ir.ViolationInvalidReply, s.CurrentState, msg).
			WithReply(reply).
			WithExpected(validReplyTypeStrings(tr.Branches))
		return s.finishClientOrServer(ctx, v)
	}

	// Step 8: update tracks. old_tracks is snapshotted before Apply so
	// property checks that compare old vs. new (CheckAction) see the
	// pre-step values even though Update never mutates in place.
	oldTracks := s.snapshotTracks()
	newTracks := oldTracks
	if tr.Update != nil {
		newTracks, err = tr.Update.Apply(msg, reply, oldTracks)
		if err != nil {
			return CallResult{}, err
		}
	}

	// Step 9: evaluate properties. A violation here is property-blame:
	// it does not undo the transition or suppress the reply.
	propViolation, err := s.evaluateProperties(msg, reply, oldTracks, newTracks, nextState)
	if err != nil {
		return CallResult{}, err
	}

	// Step 10: commit.
	s.CurrentState = nextState
	s.Tracks = newTracks

	if propViolation != nil {
		terminate := s.Policy.apply(ctx, *propViolation)
		s.terminated = s.terminated || terminate
		return CallResult{Reply: reply, Violation: propViolation, Terminated: s.Terminated()}, nil
	}

	return CallResult{Reply: reply, Terminated: s.Terminated()}, nil
}

// finishClientOrServer applies the Policy to a client- or
// server-blame violation and builds the {violation, V} reply §4.6d
// says to answer with; state never changes for these.
func (s *Session) finishClientOrServer(ctx *actx.Ctx, v ir.Violation) (CallResult, error) {
	terminate := s.Policy.apply(ctx, v)
	s.terminated = s.terminated || terminate
	return CallResult{Reply: violationReply(v), Violation: &v, Terminated: s.Terminated()}, nil
}

// classifyReply implements §4.6a step 7's check_reply, with branch
// constraints: the first branch whose ReplyType matches reply AND
// whose optional Constraint (if any) evaluates true wins. A
// type-matching branch whose Constraint fails falls through to the
// next branch, per §4.6a step 7.
func (s *Session) classifyReply(reply interface{}, branches []ir.Branch) (nextState string, ok bool, err error) {
	for _, b := range branches {
		if checkErr := typecheck.Check(reply, b.ReplyType.AsType()); checkErr != nil {
			continue
		}
		if b.Constraint != nil {
			passed, evalErr := b.Constraint.EvalReplyConstraint(reply, s.Tracks)
			if evalErr != nil {
				return "", false, evalErr
			}
			if !passed {
				continue
			}
		}
		return b.NextState.Resolve(s.CurrentState), true, nil
	}
	return "", false, nil
}

func validReplyTypeStrings(branches []ir.Branch) []string {
	out := make([]string, len(branches))
	for i, b := range branches {
		out[i] = b.ReplyType.String()
	}
	return out
}

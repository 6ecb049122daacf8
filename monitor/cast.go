package monitor

import (
	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/typecheck"
)

// CastResult is what a Cast step hands back: casts are one-way, so
// there is never a reply — only whether a Violation fired (surfaced
// solely through the Policy sink, per §4.6b) and whether the session
// is now Terminated.
type CastResult struct {
	Violation  *ir.Violation
	Terminated bool
}

// Cast runs §4.6b's pipeline for one inbound cast message: steps 1-5
// of the call pipeline (terminal check through guard), then forward
// with no reply classification, no track update, no property check.
func (s *Session) Cast(ctx *actx.Ctx, msg interface{}) (CastResult, error) {
	if s.Terminated() {
		v := ir.NewViolation(ir.ViolationSessionEnded, s.CurrentState, msg)
		return s.finishCast(ctx, v)
	}

	tag, args, decomposed := decompose(msg)

	var tr ir.Transition
	var found bool
	if decomposed {
		tr, found = s.Table.Lookup(s.CurrentState, tag)
	}
	if !decomposed || !found {
		v := ir.NewViolation(ir.ViolationInvalidMessage, s.CurrentState, msg).
			WithExpected(s.Table.TagsInState(s.CurrentState))
		return s.finishCast(ctx, v)
	}

	// Finding a call-kind transition here is itself invalid_message,
	// per §4.6b ("dispatch must find a cast-kind transition; finding
	// a call-kind transition is treated as invalid_message").
	if tr.Kind != ir.KindCast {
		v := ir.NewViolation(ir.ViolationInvalidMessage, s.CurrentState, msg).
			WithExpected(s.Table.TagsInState(s.CurrentState)).
			WithContext("reason", "expected a cast, dispatch matched a call")
		return s.finishCast(ctx, v)
	}

	if len(args) == len(tr.Pattern.Args) {
		for i, a := range tr.Pattern.Args {
			if err := typecheck.Check(args[i], a.Type); err != nil {
				v := ir.NewViolation(ir.ViolationArgumentType, s.CurrentState, msg).
					WithExpected(a.Type).
					WithContext("position", i).
					WithContext("argument", args[i]).
					WithContext("reason", err.Error())
				return s.finishCast(ctx, v)
			}
		}
	}

	if tr.Guard != nil {
		ok, err := tr.Guard.EvalMessageGuard(msg, s.Tracks)
		if err != nil {
			return CastResult{}, err
		}
		if !ok {
			v := ir.NewViolation(ir.ViolationGuardFailed, s.CurrentState, msg)
			return s.finishCast(ctx, v)
		}
	}

	if err := s.Upstream.Cast(ctx, msg); err != nil {
		v := ir.NewViolation(ir.ViolationTimeout, s.CurrentState, msg).
			WithContext("cause", "upstream_unavailable").
			WithContext("reason", err.Error())
		return s.finishCast(ctx, v)
	}

	return CastResult{Terminated: s.Terminated()}, nil
}

func (s *Session) finishCast(ctx *actx.Ctx, v ir.Violation) (CastResult, error) {
	terminate := s.Policy.apply(ctx, v)
	s.terminated = s.terminated || terminate
	return CastResult{Violation: &v, Terminated: s.Terminated()}, nil
}

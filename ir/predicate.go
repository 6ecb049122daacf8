package ir

import "github.com/accord-lang/accord/eval"

// PredicateShape distinguishes the two concrete Predicate shapes from
// §3: a message-guard evaluated before forwarding a call, and a
// pure-track predicate used by invariants/bounded checks.
type PredicateShape int

const (
	PredicateMessageGuard PredicateShape = iota
	PredicateTrackOnly
	// PredicateReplyConstraint is a Branch.constraint: an extra
	// reply-level predicate over (reply, tracks).
	PredicateReplyConstraint
	// PredicateAction is a Property Check "action": over
	// (old_tracks, new_tracks).
	PredicateAction
	// PredicateLocalInvariant is over (msg, tracks), evaluated only
	// when arriving in a specific state.
	PredicateLocalInvariant
)

// Predicate is a closed boolean expression with a declared free
// variable vocabulary, carried as both a compilable Expr tree (for
// the model-checker back-end) and an eval.Evaluator (for the
// monitor), per §9's "Closures in IR" design note.
type Predicate struct {
	Shape PredicateShape
	Expr  *Expr // nil if the front-end never supplied a compilable form
	Eval  eval.Evaluator
	Span  Span
}

// EvalMessageGuard evaluates a PredicateMessageGuard against a
// message and the current tracks.
func (p Predicate) EvalMessageGuard(msg interface{}, tracks map[string]interface{}) (bool, error) {
	return p.evalBool(map[string]interface{}{
		"msg":    msg,
		"tracks": tracks,
	})
}

// EvalTracks evaluates a PredicateTrackOnly (invariant/bounded) over
// tracks alone.
func (p Predicate) EvalTracks(tracks map[string]interface{}) (bool, error) {
	return p.evalBool(map[string]interface{}{"tracks": tracks})
}

// EvalReplyConstraint evaluates a PredicateReplyConstraint over the
// classified reply and tracks.
func (p Predicate) EvalReplyConstraint(reply interface{}, tracks map[string]interface{}) (bool, error) {
	return p.evalBool(map[string]interface{}{"reply": reply, "tracks": tracks})
}

// EvalAction evaluates a PredicateAction over the tracks before and
// after a step.
func (p Predicate) EvalAction(oldTracks, newTracks map[string]interface{}) (bool, error) {
	return p.evalBool(map[string]interface{}{"old": oldTracks, "new": newTracks})
}

// EvalLocalInvariant evaluates a PredicateLocalInvariant over the
// message that arrived and the post-step tracks.
func (p Predicate) EvalLocalInvariant(msg interface{}, tracks map[string]interface{}) (bool, error) {
	return p.evalBool(map[string]interface{}{"msg": msg, "tracks": tracks})
}

func (p Predicate) evalBool(env map[string]interface{}) (bool, error) {
	if p.Eval.IsZero() {
		return false, Brokenf("predicate has no evaluator (span %s)", p.Span)
	}
	v, err := p.Eval.Eval(env)
	if err != nil {
		return false, err
	}
	b, is := v.(bool)
	if !is {
		return false, Brokenf("predicate evaluator returned %T, not bool", v)
	}
	return b, nil
}

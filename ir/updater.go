package ir

import "github.com/accord-lang/accord/eval"

// Updater computes new tracks from (msg, reply, tracks), carried as
// both a compilable Expr tree and an eval.Evaluator, mirroring
// Predicate.
type Updater struct {
	Expr *Expr
	Eval eval.Evaluator
	Span Span
}

// Apply runs the updater, returning a fresh tracks map (updaters
// never mutate their input in place, so the monitor can snapshot
// old_tracks cheaply by reference before calling Apply).
func (u Updater) Apply(msg, reply interface{}, tracks map[string]interface{}) (map[string]interface{}, error) {
	if u.Eval.IsZero() {
		return nil, Brokenf("updater has no evaluator (span %s)", u.Span)
	}
	v, err := u.Eval.Eval(map[string]interface{}{
		"msg":    msg,
		"reply":  reply,
		"tracks": tracks,
	})
	if err != nil {
		return nil, err
	}
	m, is := v.(map[string]interface{})
	if !is {
		return nil, Brokenf("updater evaluator returned %T, not a tracks map", v)
	}
	return m, nil
}

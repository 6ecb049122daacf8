package monitor

import (
	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir"
)

// PolicyKind discriminates §4.6d's closed set of violation policies.
type PolicyKind int

const (
	PolicyLog PolicyKind = iota
	PolicyReject
	PolicyCrash
	PolicyCallback
)

// Policy is the monitor-start-frozen choice of what to do with a
// detected Violation. Log and Reject share identical runtime
// semantics here (both keep the session running and answer with
// {violation, V} for client/server blame); they are kept distinct
// because a caller's Callback or external reporting may branch on
// which was configured.
type Policy struct {
	Kind PolicyKind

	// Callback is invoked synchronously for PolicyCallback; its
	// return value is ignored; it runs in addition to (not instead
	// of) the reply/terminate semantics below, so it only makes sense
	// when Kind == PolicyCallback, per §4.6d ("callback(f): invoke
	// f(V) synchronously; caller chooses").
	Callback func(ir.Violation)
}

// NewLogPolicy, NewRejectPolicy, NewCrashPolicy, NewCallbackPolicy are
// the four constructors for the closed Policy sum.
func NewLogPolicy() Policy     { return Policy{Kind: PolicyLog} }
func NewRejectPolicy() Policy  { return Policy{Kind: PolicyReject} }
func NewCrashPolicy() Policy   { return Policy{Kind: PolicyCrash} }
func NewCallbackPolicy(f func(ir.Violation)) Policy {
	return Policy{Kind: PolicyCallback, Callback: f}
}

// apply runs the Policy against v, returning whether the session
// should terminate. It never builds the reply payload itself — that
// is the caller's job, since client/server-blame and property-blame
// violations are replied to differently (§4.6a steps 1-9 vs. §4.6d).
func (p Policy) apply(ctx *actx.Ctx, v ir.Violation) (terminate bool) {
	switch p.Kind {
	case PolicyCrash:
		ctx.Logf("monitor: policy crash on %s violation in state %s: %v", v.Kind, v.State, v.Message)
		return true
	case PolicyCallback:
		if p.Callback != nil {
			p.Callback(v)
		}
		return false
	default: // PolicyLog, PolicyReject
		ctx.Logdf("monitor: %s violation in state %s: %v", v.Kind, v.State, v.Message)
		return false
	}
}

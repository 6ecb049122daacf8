package monitor

import (
	"errors"
	"testing"

	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/eval"
	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/transport"
)

// echoUpstream replies to {ping, n} with {pong, n} and fails any other
// call with a plain error; with fail set, every Call and Cast fails
// with transport.ErrUnavailable. Enough to drive the full call
// pipeline without a network.
type echoUpstream struct {
	fail bool
}

func (e *echoUpstream) Call(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	if e.fail {
		return nil, transport.ErrUnavailable
	}
	tag, args, _ := decompose(msg)
	if tag == "ping" {
		return []interface{}{"pong", args[0]}, nil
	}
	return nil, errors.New("unexpected message")
}

func (e *echoUpstream) Cast(ctx *actx.Ctx, msg interface{}) error {
	if e.fail {
		return transport.ErrUnavailable
	}
	return nil
}

func pingPongIR() *ir.IR {
	in := ir.NewIR("ping-pong", "idle")
	in.Tracks = []ir.Track{{Name: "count", Type: ir.Primitive(ir.KindNonNegativeInt), Default: int64(0)}}

	update := ir.Updater{Eval: eval.Native(func(env map[string]interface{}) (interface{}, error) {
		tracks := env["tracks"].(map[string]interface{})
		out := map[string]interface{}{}
		for k, v := range tracks {
			out[k] = v
		}
		n, _ := out["count"].(int64)
		out["count"] = n + 1
		return out, nil
	})}

	in.States["idle"] = ir.State{
		Name: "idle",
		Transitions: []ir.Transition{
			{
				Pattern: ir.MessagePattern{Tag: "ping", Args: []ir.TypedArg{{Name: "n", Type: ir.Primitive(ir.KindSignedInt)}}},
				Kind:    ir.KindCall,
				Branches: []ir.Branch{
					{ReplyType: ir.ReplyTaggedOf("pong", ir.Primitive(ir.KindSignedInt)), NextState: ir.Same},
				},
				Update: &update,
			},
			{
				Pattern: ir.MessagePattern{Tag: "notify"},
				Kind:    ir.KindCast,
			},
		},
	}
	return in
}

func newTestSession(t *testing.T, upstream transport.Upstream, policy Policy) *Session {
	t.Helper()
	in := pingPongIR()
	table, err := compile.BuildTransitionTable(in)
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(in, table, upstream, policy)
}

func TestCallHappyPath(t *testing.T) {
	s := newTestSession(t, &echoUpstream{}, NewLogPolicy())
	ctx := actx.NewCtx(nil)

	res, err := s.Call(ctx, []interface{}{"ping", int64(41)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation != nil {
		t.Fatalf("unexpected violation: %+v", res.Violation)
	}
	reply, ok := res.Reply.([]interface{})
	if !ok || reply[0] != "pong" {
		t.Fatalf("unexpected reply: %#v", res.Reply)
	}
	if s.Tracks["count"] != int64(1) {
		t.Fatalf("expected count to be updated to 1, got %v", s.Tracks["count"])
	}
	if s.CurrentState != "idle" {
		t.Fatalf("expected SAME to resolve to idle, got %s", s.CurrentState)
	}
}

func TestCallInvalidMessage(t *testing.T) {
	s := newTestSession(t, &echoUpstream{}, NewLogPolicy())
	ctx := actx.NewCtx(nil)

	res, err := s.Call(ctx, []interface{}{"nonexistent"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation == nil || res.Violation.Kind != ir.ViolationInvalidMessage {
		t.Fatalf("expected invalid_message violation, got %+v", res.Violation)
	}
}

func TestCallTimeout(t *testing.T) {
	s := newTestSession(t, &echoUpstream{fail: true}, NewLogPolicy())
	ctx := actx.NewCtx(nil)

	res, err := s.Call(ctx, []interface{}{"ping", int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation == nil || res.Violation.Kind != ir.ViolationTimeout {
		t.Fatalf("expected timeout violation, got %+v", res.Violation)
	}
	if res.Violation.Context["cause"] != "upstream_unavailable" {
		t.Fatalf("expected upstream_unavailable cause, got %v", res.Violation.Context["cause"])
	}
}

func TestCastHappyPath(t *testing.T) {
	s := newTestSession(t, &echoUpstream{}, NewLogPolicy())
	ctx := actx.NewCtx(nil)

	res, err := s.Cast(ctx, []interface{}{"notify"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation != nil {
		t.Fatalf("unexpected violation: %+v", res.Violation)
	}
	if s.Tracks["count"] != int64(0) {
		t.Fatalf("casts must not touch tracks, got %v", s.Tracks["count"])
	}
}

func TestSessionEndedAfterTerminal(t *testing.T) {
	in := pingPongIR()
	in.States["done"] = ir.State{Name: "done", Terminal: true}
	table, err := compile.BuildTransitionTable(in)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(in, table, &echoUpstream{}, NewLogPolicy())
	s.CurrentState = "done"

	ctx := actx.NewCtx(nil)
	res, err := s.Call(ctx, []interface{}{"ping", int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation == nil || res.Violation.Kind != ir.ViolationSessionEnded {
		t.Fatalf("expected session_ended violation, got %+v", res.Violation)
	}
	if !res.Terminated {
		t.Fatal("expected session to report Terminated")
	}
}

func TestCrashPolicyTerminatesAfterPropertyViolation(t *testing.T) {
	in := pingPongIR()
	in.Properties = []ir.Property{{
		Name: "count_bounded",
		Checks: []ir.Check{{
			Kind:      ir.CheckBounded,
			TrackName: "count",
			Max:       int64(0),
		}},
	}}
	table, err := compile.BuildTransitionTable(in)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(in, table, &echoUpstream{}, NewCrashPolicy())
	ctx := actx.NewCtx(nil)

	res, err := s.Call(ctx, []interface{}{"ping", int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Violation == nil || res.Violation.Kind != ir.ViolationInvariantViolated {
		t.Fatalf("expected bounded-derived invariant violation, got %+v", res.Violation)
	}
	reply, ok := res.Reply.([]interface{})
	if !ok || reply[0] != "pong" {
		t.Fatalf("property violation must still forward the reply, got %#v", res.Reply)
	}
	if !res.Terminated {
		t.Fatal("expected crash policy to terminate the session")
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/monitor"
	"github.com/accord-lang/accord/transport"
)

// pingUpstream answers "ping" with "pong" and ignores everything
// else, enough to drive one Call through dispatchStdin end to end.
type pingUpstream struct{}

func (pingUpstream) Call(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	return []interface{}{"pong"}, nil
}
func (pingUpstream) Cast(ctx *actx.Ctx, msg interface{}) error { return nil }

func pingIR() (*ir.IR, *compile.Table) {
	in := ir.NewIR("ping", "idle")
	in.States["idle"] = ir.State{
		Name: "idle",
		Transitions: []ir.Transition{{
			Pattern: ir.MessagePattern{Tag: "ping"},
			Kind:    ir.KindCall,
			Branches: []ir.Branch{
				{ReplyType: ir.ReplyLiteralOf("pong"), NextState: ir.Same},
			},
		}},
	}
	table, err := compile.BuildTransitionTable(in)
	if err != nil {
		panic(err)
	}
	return in, table
}

func TestDispatchStdinCall(t *testing.T) {
	in, table := pingIR()
	session := monitor.NewSession(in, table, pingUpstream{}, monitor.NewLogPolicy())
	ctx := actx.NewCtx(nil)

	input := strings.NewReader(`{"type":"call","message":["ping"]}` + "\n")
	var out bytes.Buffer
	if err := dispatchStdin(ctx, session, input, &out); err != nil {
		t.Fatalf("dispatchStdin: %v", err)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body %q)", err, out.String())
	}
	reply, ok := resp["reply"].([]interface{})
	if !ok || len(reply) != 1 || reply[0] != "pong" {
		t.Fatalf("reply = %v, want [\"pong\"]", resp["reply"])
	}
	if resp["violation"] != nil {
		t.Fatalf("violation = %v, want nil", resp["violation"])
	}
}

func TestDispatchStdinUnknownType(t *testing.T) {
	in, table := pingIR()
	session := monitor.NewSession(in, table, pingUpstream{}, monitor.NewLogPolicy())
	ctx := actx.NewCtx(nil)

	// No "type" field at all defaults to a call, per dispatchStdin's
	// switch default case.
	input := strings.NewReader(`{"message":["ping"]}` + "\n")
	var out bytes.Buffer
	if err := dispatchStdin(ctx, session, input, &out); err != nil {
		t.Fatalf("dispatchStdin: %v", err)
	}
	if !strings.Contains(out.String(), "pong") {
		t.Fatalf("expected a pong reply, got %q", out.String())
	}
}

func TestSessionConfigUpstreamDefaultsToEcho(t *testing.T) {
	sc := &sessionConfig{}
	up, err := sc.buildUpstream(actx.NewCtx(nil))
	if err != nil {
		t.Fatalf("buildUpstream: %v", err)
	}
	if _, ok := up.(*transport.EchoUpstream); !ok {
		t.Fatalf("default upstream = %T, want *transport.EchoUpstream", up)
	}
}

func TestSessionConfigRejectsUnknownPolicy(t *testing.T) {
	sc := &sessionConfig{ViolationPolicy: "nonsense"}
	if _, err := sc.buildPolicy(); err == nil {
		t.Fatal("expected an error for an unknown violation_policy")
	}
}

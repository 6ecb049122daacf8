package explore

import (
	"context"
	"sort"
	"testing"

	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/ir"
)

// lockIR builds the S3-style lock protocol: unlocked -> locked on
// :acquire, locked is terminal, and an island state "orphan" nothing
// ever transitions into, to exercise UnreachableStates.
func lockIR(t *testing.T) (*ir.IR, *compile.Table) {
	t.Helper()
	in := ir.NewIR("lock", "unlocked")
	in.States["unlocked"] = ir.State{
		Name: "unlocked",
		Transitions: []ir.Transition{{
			Pattern: ir.MessagePattern{Tag: "acquire"},
			Kind:    ir.KindCall,
			Branches: []ir.Branch{
				{ReplyType: ir.ReplyLiteralOf("ok"), NextState: ir.NamedState("locked")},
			},
		}},
	}
	in.States["locked"] = ir.State{Name: "locked", Terminal: true}
	in.States["orphan"] = ir.State{Name: "orphan", Terminal: true}

	table, err := compile.BuildTransitionTable(in)
	if err != nil {
		t.Fatalf("BuildTransitionTable: %v", err)
	}
	return in, table
}

func TestReachability(t *testing.T) {
	in, table := lockIR(t)
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Load(in, table); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	for _, tc := range []struct {
		state string
		want  bool
	}{
		{"unlocked", true},
		{"locked", true},
		{"orphan", false},
	} {
		got, err := e.Reachable(ctx, tc.state)
		if err != nil {
			t.Fatalf("Reachable(%q): %v", tc.state, err)
		}
		if got != tc.want {
			t.Errorf("Reachable(%q) = %v, want %v", tc.state, got, tc.want)
		}
	}

	unreachable, err := e.UnreachableStates(ctx, in)
	if err != nil {
		t.Fatalf("UnreachableStates: %v", err)
	}
	sort.Strings(unreachable)
	if len(unreachable) != 1 || unreachable[0] != "orphan" {
		t.Fatalf("UnreachableStates = %v, want [orphan]", unreachable)
	}

	anyTerminal, err := e.AnyTerminalReachable(ctx)
	if err != nil {
		t.Fatalf("AnyTerminalReachable: %v", err)
	}
	if !anyTerminal {
		t.Fatal("expected a terminal state (locked) to be reachable")
	}
}

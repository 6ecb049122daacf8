package compile

import (
	"sort"
	"testing"

	"github.com/accord-lang/accord/ir"
)

func threeStateIR() *ir.IR {
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
	in.States["locked"] = ir.State{
		Name:     "locked",
		Terminal: false,
		Transitions: []ir.Transition{{
			Pattern: ir.MessagePattern{Tag: "release"},
			Kind:    ir.KindCall,
			Branches: []ir.Branch{
				{ReplyType: ir.ReplyLiteralOf("ok"), NextState: ir.NamedState("unlocked")},
			},
		}},
	}
	in.AnyState = []ir.Transition{{
		Pattern: ir.MessagePattern{Tag: "ping"},
		Kind:    ir.KindCast,
	}}
	return in
}

func TestBuildTransitionTableLookup(t *testing.T) {
	in := threeStateIR()
	table, err := BuildTransitionTable(in)
	if err != nil {
		t.Fatalf("BuildTransitionTable: %v", err)
	}

	if tr, ok := table.Lookup("unlocked", "acquire"); !ok || tr.Tag() != "acquire" {
		t.Fatalf("Lookup(unlocked, acquire) = %v, %v", tr, ok)
	}
	if _, ok := table.Lookup("unlocked", "release"); ok {
		t.Fatal("release should not be dispatchable from unlocked")
	}
	if _, ok := table.Lookup("unlocked", "ping"); !ok {
		t.Fatal("any-state ping should be dispatchable from unlocked")
	}
	if _, ok := table.Lookup("locked", "ping"); !ok {
		t.Fatal("any-state ping should be dispatchable from locked")
	}
}

func TestBuildTransitionTableTagsInState(t *testing.T) {
	in := threeStateIR()
	table, err := BuildTransitionTable(in)
	if err != nil {
		t.Fatalf("BuildTransitionTable: %v", err)
	}
	tags := table.TagsInState("unlocked")
	sort.Strings(tags)
	if len(tags) != 2 || tags[0] != "acquire" || tags[1] != "ping" {
		t.Fatalf("TagsInState(unlocked) = %v, want [acquire ping]", tags)
	}
}

func TestBuildTransitionTableFlattenAgrees(t *testing.T) {
	in := threeStateIR()
	table, err := BuildTransitionTable(in)
	if err != nil {
		t.Fatalf("BuildTransitionTable: %v", err)
	}
	flat := Flatten(in, "unlocked")
	for tag := range flat {
		if _, ok := table.Lookup("unlocked", tag); !ok {
			t.Fatalf("table disagrees with Flatten on tag %q", tag)
		}
	}
}

func TestBuildTransitionTableRejectsDuplicateTag(t *testing.T) {
	in := ir.NewIR("x", "s")
	in.States["s"] = ir.State{
		Name: "s",
		Transitions: []ir.Transition{
			{Pattern: ir.MessagePattern{Tag: "dup"}, Kind: ir.KindCast},
		},
	}
	in.AnyState = []ir.Transition{
		{Pattern: ir.MessagePattern{Tag: "dup"}, Kind: ir.KindCast},
	}
	if _, err := BuildTransitionTable(in); err == nil {
		t.Fatal("expected an error for a state-local/any-state tag collision")
	}
}

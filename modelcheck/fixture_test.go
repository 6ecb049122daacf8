package modelcheck

import (
	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
)

// lockProtocol builds a small two-state lock IR exercising an update
// (acquire increments count), a local_invariant (locked requires the
// arriving tag to be acquire), and a correspondence check (acquire
// opens, release closes). unlocked and its acquire transition carry
// real spans; locked and release are left unspanned, so SpanMap tests
// can assert the unspanned half is omitted.
func lockProtocol() *ir.IR {
	in := ir.NewIR("lock", "unlocked")
	in.Tracks = []ir.Track{
		{Name: "count", Type: ir.Primitive(ir.KindSignedInt), Default: int64(0)},
	}

	countUpdate := ir.Block(ir.BinOp("=",
		ir.Field("tracks", "count", ir.MarkerNone),
		ir.BinOp("+", ir.Field("tracks", "count", ir.MarkerNone), ir.Lit(int64(1))),
	))

	in.States["unlocked"] = ir.State{
		Name: "unlocked",
		Span: ir.Positional(1, 1, 1, 20),
		Transitions: []ir.Transition{{
			Pattern: ir.MessagePattern{Tag: "acquire"},
			Kind:    ir.KindCall,
			Span:    ir.Positional(2, 1, 2, 30),
			Update:  &ir.Updater{Expr: &countUpdate},
			Branches: []ir.Branch{
				{ReplyType: ir.ReplyLiteralOf("ok"), NextState: ir.NamedState("locked")},
			},
		}},
	}
	in.States["locked"] = ir.State{
		Name: "locked",
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

	localInvariantBody := ir.BinOp("==", ir.Var("event"), ir.Lit("acquire"))
	actionBody := ir.BinOp(">=",
		ir.Field("new", "count", ir.MarkerPrimed),
		ir.Field("old", "count", ir.MarkerCurrent),
	)
	invariantBody := ir.BinOp(">=", ir.Var("count"), ir.Lit(int64(0)))

	in.Properties = []ir.Property{
		{
			Name: "CountNonNegative",
			Checks: []ir.Check{
				{Kind: ir.CheckInvariant, Predicate: &ir.Predicate{Expr: &invariantBody}, Span: ir.Positional(5, 1, 5, 20)},
			},
		},
		{
			Name: "AcquireTagged",
			Checks: []ir.Check{
				{Kind: ir.CheckLocalInvariant, StateRef: "locked", Predicate: &ir.Predicate{Expr: &localInvariantBody}},
			},
		},
		{
			Name: "CountMonotonic",
			Checks: []ir.Check{
				{Kind: ir.CheckAction, Predicate: &ir.Predicate{Expr: &actionBody}},
			},
		},
		{
			Name: "Balanced",
			Checks: []ir.Check{
				{Kind: ir.CheckCorrespondence, OpenTag: "acquire", CloseTags: []string{"release"}},
			},
		},
	}

	return in
}

func lockConfig() *config.Config {
	return &config.Config{}
}

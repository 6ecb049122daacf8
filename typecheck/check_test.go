package typecheck

import (
	"testing"

	"github.com/accord-lang/accord/ir"
)

func TestCheckPrimitives(t *testing.T) {
	cases := []struct {
		name  string
		typ   ir.Type
		value interface{}
		want  bool
	}{
		{"signed ok", ir.Primitive(ir.KindSignedInt), int64(-3), true},
		{"positive rejects zero", ir.Primitive(ir.KindPositiveInt), int64(0), false},
		{"non_negative accepts zero", ir.Primitive(ir.KindNonNegativeInt), int64(0), true},
		{"symbol wants string", ir.Primitive(ir.KindSymbol), "tag", true},
		{"symbol rejects int", ir.Primitive(ir.KindSymbol), int64(1), false},
		{"boolean ok", ir.Primitive(ir.KindBoolean), true, true},
		{"map ok", ir.Primitive(ir.KindMap), map[string]interface{}{}, true},
		{"map rejects slice", ir.Primitive(ir.KindMap), []interface{}{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Check(c.value, c.typ)
			if (err == nil) != c.want {
				t.Fatalf("Check(%v, %v) error = %v, want ok=%v", c.value, c.typ, err, c.want)
			}
		})
	}
}

func TestCheckLiteral(t *testing.T) {
	typ := ir.LiteralType("ok")
	if err := Check("ok", typ); err != nil {
		t.Fatalf("Check(ok): %v", err)
	}
	if err := Check("nope", typ); err == nil {
		t.Fatal("expected a mismatch for a different literal")
	}
}

func TestCheckList(t *testing.T) {
	typ := ir.ListOf(ir.Primitive(ir.KindSignedInt))
	if err := Check([]interface{}{int64(1), int64(2)}, typ); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := Check([]interface{}{int64(1), "two"}, typ); err == nil {
		t.Fatal("expected an error for a non-integer element")
	}
}

func TestCheckTagged(t *testing.T) {
	typ := ir.TaggedSingle("ok", ir.Primitive(ir.KindPositiveInt))
	if err := Check([]interface{}{"ok", int64(5)}, typ); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := Check([]interface{}{"bad", int64(5)}, typ); err == nil {
		t.Fatal("expected a tag mismatch")
	}
	if err := Check([]interface{}{"ok", int64(-1)}, typ); err == nil {
		t.Fatal("expected a payload type mismatch")
	}
}

func TestCheckUnion(t *testing.T) {
	typ := ir.UnionOf(ir.Primitive(ir.KindBoolean), ir.Primitive(ir.KindSymbol))
	if err := Check(true, typ); err != nil {
		t.Fatalf("Check(bool): %v", err)
	}
	if err := Check("x", typ); err != nil {
		t.Fatalf("Check(symbol): %v", err)
	}
	if err := Check(int64(1), typ); err == nil {
		t.Fatal("expected no variant to match an int")
	}
}

func TestCheckTuple(t *testing.T) {
	typ := ir.TupleOf(ir.Primitive(ir.KindSymbol), ir.Primitive(ir.KindSignedInt))
	if err := Check([]interface{}{"a", int64(1)}, typ); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := Check([]interface{}{"a"}, typ); err == nil {
		t.Fatal("expected an arity mismatch error")
	}
}

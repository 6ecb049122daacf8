package eval

import "testing"

func TestNativeEval(t *testing.T) {
	e := Native(func(env map[string]interface{}) (interface{}, error) {
		n, _ := env["n"].(int64)
		return n > 0, nil
	})
	if e.Kind() != KindNative {
		t.Fatalf("Kind() = %v, want KindNative", e.Kind())
	}
	v, err := e.Eval(map[string]interface{}{"n": int64(5)})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if ok, _ := v.(bool); !ok {
		t.Fatalf("result = %v, want true", v)
	}
}

func TestInterpretedEval(t *testing.T) {
	e, err := Interpreted("return msg[0] + tracks.count")
	if err != nil {
		t.Fatalf("Interpreted: %v", err)
	}
	if e.Kind() != KindInterpreted {
		t.Fatalf("Kind() = %v, want KindInterpreted", e.Kind())
	}
	if e.Source() != "return msg[0] + tracks.count" {
		t.Fatalf("Source() = %q", e.Source())
	}

	env := map[string]interface{}{
		"msg":    []interface{}{int64(2)},
		"tracks": map[string]interface{}{"count": int64(3)},
	}
	v, err := e.Eval(env)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	n, ok := v.(int64)
	if !ok || n != 5 {
		t.Fatalf("result = %v (%T), want int64(5)", v, v)
	}
}

func TestInterpretedCompileError(t *testing.T) {
	if _, err := Interpreted("this is not valid js {{{"); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestZeroEvaluator(t *testing.T) {
	var e Evaluator
	if !e.IsZero() {
		t.Fatal("zero-value Evaluator should report IsZero() == true")
	}
	if _, err := e.Eval(nil); err == nil {
		t.Fatal("expected an error evaluating a zero-value Evaluator")
	}
}

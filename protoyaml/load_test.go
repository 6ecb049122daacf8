package protoyaml

import (
	"testing"

	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/ir/validate"
)

const lockYAML = `
name: lock
initial: unlocked
tracks:
  - name: holder
    type: {kind: symbol}
    default: null
  - name: fence
    type: {kind: non_negative_int}
    default: 0
states:
  unlocked:
    transitions:
      - tag: acquire
        kind: call
        args:
          - name: cid
            type: {kind: symbol}
          - name: tok
            type: {kind: positive_int}
        guard: "return msg[2] > tracks.fence"
        update: |
          tracks.holder = msg[1];
          tracks.fence = msg[2];
          return tracks;
        branches:
          - reply: {shape: tagged, tag: ok, payload: {kind: positive_int}}
            goto: locked
  locked:
    terminal: true
properties:
  - name: FenceMonotone
    checks:
      - kind: action
        body: "return new.fence >= old.fence"
`

func TestParseBuildsValidIR(t *testing.T) {
	in, err := Parse(lockYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.Name != "lock" || in.Initial != "unlocked" {
		t.Fatalf("name/initial = %q/%q", in.Name, in.Initial)
	}
	if len(in.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(in.Tracks))
	}
	if len(in.States) != 2 {
		t.Fatalf("states = %d, want 2", len(in.States))
	}

	result := validate.RunDefault(in)
	if !result.OK() {
		t.Fatalf("validation failed: %v", result.Reports)
	}

	unlocked := result.IR.States["unlocked"]
	if len(unlocked.Transitions) != 1 {
		t.Fatalf("unlocked transitions = %d, want 1", len(unlocked.Transitions))
	}
	tr := unlocked.Transitions[0]
	if tr.Guard == nil || tr.Update == nil {
		t.Fatal("expected guard and update to be populated")
	}
	if len(tr.Branches) != 1 || tr.Branches[0].NextState.Resolve("unlocked") != "locked" {
		t.Fatalf("branch next state wrong: %+v", tr.Branches)
	}

	ok, err := tr.Guard.EvalMessageGuard([]interface{}{"acquire", "c1", int64(5)}, map[string]interface{}{"fence": int64(1)})
	if err != nil {
		t.Fatalf("guard eval: %v", err)
	}
	if !ok {
		t.Fatal("guard should pass when tok > fence")
	}
}

func TestParseRejectsUnknownCheckKind(t *testing.T) {
	bad := `
name: x
initial: s
states:
  s: {terminal: true}
properties:
  - name: P
    checks:
      - kind: not_a_real_kind
`
	if _, err := Parse(bad); err == nil {
		t.Fatal("expected an error for an unknown check kind")
	}
}

func TestCoarseSpanThenRefine(t *testing.T) {
	in, err := Parse(lockYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	refined, reports := validate.RefineSpans(in)
	if reports.HasErrors() {
		t.Fatalf("RefineSpans reported errors: %v", reports)
	}
	st := refined.States["unlocked"]
	if st.Span.IsZero() || st.Span.IsDeferred() {
		t.Fatalf("expected unlocked's span to be refined to positional, got %v", st.Span)
	}
	_ = ir.Span{}
}

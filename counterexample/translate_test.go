package counterexample

import (
	"strings"
	"testing"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/modelcheck"
)

const sampleReport = `TLC2 Version 2.18
Error: Invariant FenceMonotone is violated.
Error: The behavior up to this point is:
State 1: <Initial predicate>
/\ state = "unlocked"
/\ fence = 0

State 2: <AcquireFromUnlockedToLocked>
/\ state = "locked"
/\ fence = 5

State 3: <AcquireFromUnlockedToLocked>
/\ state = "locked"
/\ fence = 1

12 states generated, 8 distinct states found, 0 states left on queue.
`

func TestParseInvariantViolation(t *testing.T) {
	res := Parse(sampleReport)
	if !res.Violated {
		t.Fatal("expected a violation")
	}
	if res.Kind != KindInvariant {
		t.Fatalf("kind = %v, want KindInvariant", res.Kind)
	}
	if res.Property != "FenceMonotone" {
		t.Fatalf("property = %q", res.Property)
	}
	if len(res.Trace) != 3 {
		t.Fatalf("trace length = %d, want 3", len(res.Trace))
	}
	if res.Stats.Generated != 12 || res.Stats.Distinct != 8 {
		t.Fatalf("stats = %+v", res.Stats)
	}
	last := res.LastStep()
	if last.Action != "AcquireFromUnlockedToLocked" {
		t.Fatalf("last action = %q", last.Action)
	}
	if v, ok := last.Value("fence"); !ok || v != "1" {
		t.Fatalf("fence = %q, %v", v, ok)
	}
}

func TestTranslateWidensActionSpan(t *testing.T) {
	source := "on {:acquire, cid, tok} -> reply {:ok, int}, goto locked"
	in := ir.NewIR("lock", "unlocked")
	in.Source = source

	sm := &modelcheck.SpanMap{
		Properties: map[string]ir.Span{},
		Actions: map[string]ir.Span{
			"AcquireFromUnlockedToLocked": ir.Positional(1, 4, 1, 12), // just ":acquire"
		},
	}

	res := Parse(sampleReport)
	d, ok := Translate(res, in, sm, nil)
	if !ok {
		t.Fatal("expected Translate to report a violation")
	}
	if len(d.Secondary) != 1 {
		t.Fatalf("secondary labels = %d, want 1", len(d.Secondary))
	}
	span := d.Secondary[0].Span
	widened := source[span.StartCol:span.EndCol]
	if !strings.HasPrefix(widened, "{") || !strings.HasSuffix(widened, "}") {
		t.Fatalf("widened span = %q, want a brace-delimited message spec", widened)
	}
	if len(d.Notes) != 3 {
		t.Fatalf("notes = %d, want 3", len(d.Notes))
	}
}

func TestTranslateTypeInvariantOverflowHint(t *testing.T) {
	report := `Error: Invariant TypeInvariant is violated.
Error: The behavior up to this point is:
State 1: <Initial predicate>
/\ state = "unlocked"
/\ fence = 0

State 2: <AcquireFromUnlockedToLocked>
/\ state = "locked"
/\ fence = 99

3 states generated, 2 distinct states found, 0 states left on queue.
`
	res := Parse(report)
	in := ir.NewIR("lock", "unlocked")
	ss := &modelcheck.StateSpace{
		Variables: []modelcheck.Variable{
			{Name: "fence", Domain: config.Domain{Kind: config.DomainRange, Min: 0, Max: 10}},
		},
	}

	d, ok := Translate(res, in, nil, ss)
	if !ok {
		t.Fatal("expected a violation")
	}
	if d.Kind != KindTypeInvariant {
		t.Fatalf("kind = %v", d.Kind)
	}
	if !strings.Contains(d.Help, "fence=99") {
		t.Fatalf("help = %q, want it to name the offending variable", d.Help)
	}
}

func TestParseDeadlock(t *testing.T) {
	report := `Error: Deadlock reached.
Error: The behavior up to this point is:
State 1: <Initial predicate>
/\ state = "stopped"

1 states generated, 1 distinct states found, 0 states left on queue.
`
	res := Parse(report)
	if res.Kind != KindDeadlock {
		t.Fatalf("kind = %v, want KindDeadlock", res.Kind)
	}
	d, ok := Translate(res, ir.NewIR("x", "stopped"), nil, nil)
	if !ok {
		t.Fatal("expected a violation")
	}
	if !strings.Contains(d.Primary.Message, "stopped") {
		t.Fatalf("primary message = %q", d.Primary.Message)
	}
}

func TestParseNoViolation(t *testing.T) {
	report := "12 states generated, 8 distinct states found, 0 states left on queue.\nModel checking completed. No error has been found.\n"
	res := Parse(report)
	if res.Violated {
		t.Fatal("expected no violation")
	}
	if _, ok := Translate(res, nil, nil, nil); ok {
		t.Fatal("Translate should report false for a clean run")
	}
}

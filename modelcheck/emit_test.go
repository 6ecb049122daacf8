package modelcheck

import "testing"

func TestRenderConfigRoutesActionChecksToProperty(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	cfgText := renderConfig(in, ss)

	if !contains(cfgText, "PROPERTY CountMonotonic\n") {
		t.Fatalf("config text missing PROPERTY CountMonotonic:\n%s", cfgText)
	}
	if contains(cfgText, "INVARIANT CountMonotonic\n") {
		t.Fatalf("action check CountMonotonic should not be listed as an INVARIANT:\n%s", cfgText)
	}
	if !contains(cfgText, "INVARIANT CountNonNegative\n") {
		t.Fatalf("config text missing INVARIANT CountNonNegative:\n%s", cfgText)
	}
	if !contains(cfgText, "INVARIANT Balanced\n") {
		t.Fatalf("config text missing INVARIANT Balanced:\n%s", cfgText)
	}
}

func TestEmitProducesSpecAndConfig(t *testing.T) {
	art, err := Emit(lockProtocol(), lockConfig())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !contains(art.SpecText, "---- MODULE lock ----") {
		t.Fatalf("spec text missing module header:\n%s", art.SpecText)
	}
	if !contains(art.SpecText, "AcquireFromUnlockedToLocked") {
		t.Fatalf("spec text missing acquire action:\n%s", art.SpecText)
	}
	if !contains(art.ConfigText, "SPECIFICATION Spec") {
		t.Fatalf("config text missing SPECIFICATION line:\n%s", art.ConfigText)
	}
}

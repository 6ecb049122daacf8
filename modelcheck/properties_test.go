package modelcheck

import "testing"

func findProperty(t *testing.T, defs []PropertyDef, name string) PropertyDef {
	t.Helper()
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no property named %q among %d", name, len(defs))
	return PropertyDef{}
}

func TestBuildPropertiesInvariantAndLocalInvariant(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	defs, _, err := BuildProperties(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildProperties: %v", err)
	}

	inv := findProperty(t, defs, "CountNonNegative")
	if want := `CountNonNegative == (count >= 0)`; inv.Text != want {
		t.Fatalf("invariant text = %q, want %q", inv.Text, want)
	}

	local := findProperty(t, defs, "AcquireTagged")
	if want := `AcquireTagged == (state = "locked") => ((event = "acquire"))`; local.Text != want {
		t.Fatalf("local_invariant text = %q, want %q", local.Text, want)
	}
}

func TestBuildPropertiesActionIsTemporallyWrapped(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	defs, _, err := BuildProperties(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildProperties: %v", err)
	}

	action := findProperty(t, defs, "CountMonotonic")
	if want := `CountMonotonic == []((count' >= count))`; action.Text != want {
		t.Fatalf("action text = %q, want %q", action.Text, want)
	}
}

func TestBuildPropertiesCorrespondence(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	defs, _, err := BuildProperties(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildProperties: %v", err)
	}

	corr := findProperty(t, defs, "Balanced")
	if want := `Balanced == corr_acquire >= 0`; corr.Text != want {
		t.Fatalf("correspondence text = %q, want %q", corr.Text, want)
	}
}

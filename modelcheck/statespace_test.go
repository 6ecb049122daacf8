package modelcheck

import "testing"

func TestBuildStateSpaceVariables(t *testing.T) {
	ss, err := BuildStateSpace(lockProtocol(), lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}

	if got, want := ss.StateNames, []string{"locked", "unlocked"}; !stringsEqual(got, want) {
		t.Fatalf("StateNames = %v, want %v", got, want)
	}

	if !ss.HasEventVar {
		t.Fatal("HasEventVar = false, want true (a local_invariant is present)")
	}

	names := make([]string, len(ss.Variables))
	for i, v := range ss.Variables {
		names[i] = v.Name
	}
	want := []string{"state", "count", "event", "corr_acquire"}
	if !stringsEqual(names, want) {
		t.Fatalf("variable names = %v, want %v", names, want)
	}
}

func TestBuildStateSpaceCorrespondenceBound(t *testing.T) {
	ss, err := BuildStateSpace(lockProtocol(), lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	for _, v := range ss.Variables {
		if v.Name != "corr_acquire" {
			continue
		}
		if v.Domain.Min != 0 || v.Domain.Max != 3 {
			t.Fatalf("corr_acquire domain = [%d..%d], want [0..3]", v.Domain.Min, v.Domain.Max)
		}
		return
	}
	t.Fatal("corr_acquire variable not found")
}

func TestBuildStateSpaceInit(t *testing.T) {
	ss, err := BuildStateSpace(lockProtocol(), lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	const want = `state = "unlocked" /\ count = 0 /\ event = NIL /\ corr_acquire = 0`
	if ss.Init != want {
		t.Fatalf("Init = %q, want %q", ss.Init, want)
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

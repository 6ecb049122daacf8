package modelcheck

import "testing"

func findAction(t *testing.T, actions []Action, name string) Action {
	t.Helper()
	for _, a := range actions {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("no action named %q among %d actions", name, len(actions))
	return Action{}
}

func TestBuildActionsUpdateEventAndCorrespondence(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	actions, _, err := BuildActions(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildActions: %v", err)
	}

	acquire := findAction(t, actions, "AcquireFromUnlockedToLocked")
	const wantAcquire = `AcquireFromUnlockedToLocked == /\ state = "unlocked" /\ state' = "locked" /\ count' = (count + 1) /\ event' = "acquire" /\ corr_acquire' = corr_acquire + 1`
	if acquire.Text != wantAcquire {
		t.Fatalf("acquire text =\n%s\nwant\n%s", acquire.Text, wantAcquire)
	}

	release := findAction(t, actions, "ReleaseFromLockedToUnlocked")
	const wantRelease = `ReleaseFromLockedToUnlocked == /\ state = "locked" /\ state' = "unlocked" /\ event' = "release" /\ corr_acquire' = corr_acquire - 1 /\ UNCHANGED <<count>>`
	if release.Text != wantRelease {
		t.Fatalf("release text =\n%s\nwant\n%s", release.Text, wantRelease)
	}
}

func TestBuildActionsCastEmitsEventWhenPresent(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	actions, _, err := BuildActions(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildActions: %v", err)
	}

	ping := findAction(t, actions, "PingFromUnlockedToUnlocked")
	const want = `PingFromUnlockedToUnlocked == /\ state = "unlocked" /\ event' = "ping" /\ UNCHANGED <<corr_acquire, count, state>>`
	if ping.Text != want {
		t.Fatalf("ping text =\n%s\nwant\n%s", ping.Text, want)
	}
}

func TestBuildActionsNoEventVarWhenNoLocalInvariant(t *testing.T) {
	in := lockProtocol()
	// Drop the local_invariant so HasEventVar is false, and confirm no
	// action ever mentions event'.
	in.Properties = in.Properties[:1]
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	if ss.HasEventVar {
		t.Fatal("HasEventVar = true, want false with no local_invariant checks")
	}
	actions, _, err := BuildActions(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildActions: %v", err)
	}
	for _, a := range actions {
		if contains(a.Text, "event'") {
			t.Fatalf("action %s unexpectedly assigns event': %s", a.Name, a.Text)
		}
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

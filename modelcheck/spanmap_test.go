package modelcheck

import "testing"

func TestBuildSpanMapOmitsUnspannedIdentifiers(t *testing.T) {
	in := lockProtocol()
	ss, err := BuildStateSpace(in, lockConfig())
	if err != nil {
		t.Fatalf("BuildStateSpace: %v", err)
	}
	actions, _, err := BuildActions(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildActions: %v", err)
	}
	props, _, err := BuildProperties(in, ss, lockConfig())
	if err != nil {
		t.Fatalf("BuildProperties: %v", err)
	}

	sm := BuildSpanMap(in, ss, actions, props)

	if _, ok := sm.States["unlocked"]; !ok {
		t.Fatal("unlocked has a span and should be present in SpanMap.States")
	}
	if _, ok := sm.States["locked"]; ok {
		t.Fatal("locked has no span and should be omitted from SpanMap.States")
	}

	if _, ok := sm.Actions["AcquireFromUnlockedToLocked"]; !ok {
		t.Fatal("acquire's transition has a span and should be present in SpanMap.Actions")
	}
	if _, ok := sm.Actions["ReleaseFromLockedToUnlocked"]; ok {
		t.Fatal("release's transition has no span and should be omitted from SpanMap.Actions")
	}

	if _, ok := sm.Properties["CountNonNegative"]; !ok {
		t.Fatal("CountNonNegative has a span and should be present in SpanMap.Properties")
	}
	if _, ok := sm.Properties["AcquireTagged"]; ok {
		t.Fatal("AcquireTagged has no span and should be omitted from SpanMap.Properties")
	}
}

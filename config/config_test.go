package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDomains(t *testing.T) {
	path := writeTemp(t, "project.yaml", `
max_list_length: 3
state_constraint: true
domains:
  count:
    kind: range
    min: 0
    max: 5
  status:
    kind: enum
    values: ["idle", "busy"]
  flag:
    kind: bool
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxListLength != 3 || !c.StateConstraint {
		t.Fatalf("unexpected scalars: %+v", c)
	}
	count := c.Domains["count"]
	if count.Kind != DomainRange || count.Min != 0 || count.Max != 5 {
		t.Fatalf("unexpected count domain: %+v", count)
	}
	vals := count.Enumerate()
	if len(vals) != 6 {
		t.Fatalf("expected 6 enumerated values, got %d", len(vals))
	}
	status := c.Domains["status"]
	if status.Kind != DomainEnum || len(status.Values) != 2 {
		t.Fatalf("unexpected status domain: %+v", status)
	}
	flag := c.Domains["flag"]
	if flag.Kind != DomainBool {
		t.Fatalf("unexpected flag domain: %+v", flag)
	}
}

func TestLoadLayeredOverridesShadowProject(t *testing.T) {
	project := writeTemp(t, "project.yaml", `
max_list_length: 2
domains:
  count:
    kind: range
    min: 0
    max: 1
  status:
    kind: enum
    values: ["idle"]
`)
	protocol := writeTemp(t, "protocol.yaml", `
max_list_length: 5
domains:
  count:
    kind: range
    min: 0
    max: 9
`)
	c, err := LoadLayered(project, protocol)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxListLength != 5 {
		t.Fatalf("expected protocol override to win, got %d", c.MaxListLength)
	}
	if c.Domains["count"].Max != 9 {
		t.Fatalf("expected protocol's count domain to win, got %+v", c.Domains["count"])
	}
	if _, ok := c.Domains["status"]; !ok {
		t.Fatal("expected project-only domain to survive the merge")
	}
}

func TestLoadLayeredNoProtocol(t *testing.T) {
	project := writeTemp(t, "project.yaml", "max_list_length: 4\n")
	c, err := LoadLayered(project, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxListLength != 4 {
		t.Fatalf("unexpected: %+v", c)
	}
}

func TestDomainNilSentinel(t *testing.T) {
	path := writeTemp(t, "project.yaml", `
domains:
  maybe:
    kind: enum
    values: [1, 2]
    nil: true
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	vals := c.Domains["maybe"].Enumerate()
	if len(vals) != 3 || vals[2] != nil {
		t.Fatalf("expected nil sentinel appended, got %#v", vals)
	}
}

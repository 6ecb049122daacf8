package config

import (
	"testing"

	"github.com/accord-lang/accord/ir"
)

func TestResolveDomainPriority(t *testing.T) {
	c := &Config{
		Domains: map[string]Domain{
			"retries":    {Kind: DomainRange, Min: 0, Max: 9},
			"signed_int": {Kind: DomainRange, Min: -1, Max: 1},
		},
	}

	// Parameter name wins.
	d := c.ResolveDomain("retries", ir.Primitive(ir.KindSignedInt))
	if d.Min != 0 || d.Max != 9 {
		t.Fatalf("expected parameter-name domain, got %+v", d)
	}

	// No parameter-name entry, falls back to type name.
	d = c.ResolveDomain("other", ir.Primitive(ir.KindSignedInt))
	if d.Min != -1 || d.Max != 1 {
		t.Fatalf("expected type-name domain, got %+v", d)
	}

	// Neither configured: built-in default.
	d = c.ResolveDomain("flag", ir.Primitive(ir.KindBoolean))
	if d.Kind != DomainBool {
		t.Fatalf("expected built-in boolean domain, got %+v", d)
	}
}

func TestBuiltinDefaults(t *testing.T) {
	var c *Config
	cases := []struct {
		kind     ir.Kind
		wantKind DomainKind
	}{
		{ir.KindSignedInt, DomainRange},
		{ir.KindPositiveInt, DomainRange},
		{ir.KindNonNegativeInt, DomainRange},
		{ir.KindBoolean, DomainBool},
		{ir.KindByteString, DomainEnum},
		{ir.KindSymbol, DomainEnum},
		{ir.KindOpaqueTerm, DomainEnum},
	}
	for _, tc := range cases {
		d := c.ResolveDomain("x", ir.Primitive(tc.kind))
		if d.Kind != tc.wantKind {
			t.Errorf("%s: expected %v, got %v", tc.kind, tc.wantKind, d.Kind)
		}
	}
}

package config

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// DefaultMaxListLength and DefaultCallTimeoutMs are §6's "Recognized
// keys" defaults: max_list_length defaults to 3, call_timeout_ms to
// 5000. accordc serve applies the latter when its session config
// leaves call_timeout_ms unset; monitor.Session itself treats a zero
// CallTimeoutMs as no deadline.
const (
	DefaultMaxListLength = 3
	DefaultCallTimeoutMs = 5000
)

// ResolveMaxListLength returns cfg.MaxListLength, or DefaultMaxListLength
// when unset.
func (c *Config) ResolveMaxListLength() int {
	if c == nil || c.MaxListLength <= 0 {
		return DefaultMaxListLength
	}
	return c.MaxListLength
}

// ResolveDomain implements §6's "Domain resolution priority per
// look-up: parameter name ▸ type name ▸ built-in default." trackName
// is the parameter/track name to look up first; t is its declared
// Type, consulted by Kind.String() as the type-name fallback key, and
// finally by a built-in default when neither is configured.
func (c *Config) ResolveDomain(trackName string, t ir.Type) Domain {
	if c != nil {
		if d, ok := c.Domains[trackName]; ok {
			return d
		}
		if t.Shape == ir.ShapePrimitive {
			if d, ok := c.Domains[t.Kind.String()]; ok {
				return d
			}
		}
	}
	return builtinDefaultDomain(t)
}

// builtinDefaultDomain implements §6's built-in defaults: "signed int
// [-2..2], positive int [1..3], non-negative int [0..3], boolean
// {true,false}, symbol/opaque term model_values(3), strings
// model_values(2)."
func builtinDefaultDomain(t ir.Type) Domain {
	if t.Shape != ir.ShapePrimitive {
		// Non-primitive types (list/tuple/tagged/union/struct) have
		// no scalar domain of their own; BuildStateSpace resolves
		// their element/payload types independently instead of
		// calling ResolveDomain on the composite itself.
		return Domain{Kind: DomainEnum}
	}
	switch t.Kind {
	case ir.KindSignedInt:
		return Domain{Kind: DomainRange, Min: -2, Max: 2}
	case ir.KindPositiveInt:
		return Domain{Kind: DomainRange, Min: 1, Max: 3}
	case ir.KindNonNegativeInt:
		return Domain{Kind: DomainRange, Min: 0, Max: 3}
	case ir.KindBoolean:
		return Domain{Kind: DomainBool}
	case ir.KindByteString:
		return modelValues("str", 2)
	default: // KindSymbol, KindOpaqueTerm, KindMap
		return modelValues("v", 3)
	}
}

// modelValues builds an anonymous model_values(n) domain: n distinct
// named constants prefix1..prefixN, matching §6's "model_values(n) (n
// anonymous named constants)".
func modelValues(prefix string, n int) Domain {
	values := make([]interface{}, n)
	for i := range values {
		values[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return Domain{Kind: DomainEnum, Values: values}
}

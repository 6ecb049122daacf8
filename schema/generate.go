// Package schema derives JSON Schemas by reflection over Go types
// (config.Config, ir.Violation) and registers them into a
// typecheck.SchemaRegistry, so a struct(name) type can point at a
// schema generated from a real Go type instead of a hand-written one.
// Grounded on github.com/alecthomas/jsonschema, present in the
// teacher's go.mod alongside xeipuuv/gojsonschema (the validator
// typecheck already wires in).
package schema

import (
	"fmt"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/typecheck"
	jsonschema "github.com/alecthomas/jsonschema"
)

// reflector is the shared jsonschema.Reflector used across Generate
// calls; AllowAdditionalProperties mirrors the teacher's own loose
// validation posture (payload schemas in dsl/spec.go are permissive
// by default).
var reflector = &jsonschema.Reflector{
	AllowAdditionalProperties: true,
	ExpandedStruct:            true,
}

// Generate reflects v's Go type into a JSON Schema document.
func Generate(v interface{}) (*jsonschema.Schema, error) {
	if v == nil {
		return nil, fmt.Errorf("schema: cannot reflect over a nil value")
	}
	return reflector.Reflect(v), nil
}

// RegisterConfig and RegisterViolation generate schemas for
// config.Config and ir.Violation respectively and register them into
// reg under the given name, so SPEC_FULL's emitted model-checker
// configuration and monitor violation payloads are self-describing
// and checkable the same way any other struct(name) type is.
func RegisterConfig(reg *typecheck.SchemaRegistry, name string) error {
	return registerReflected(reg, name, &config.Config{})
}

func RegisterViolation(reg *typecheck.SchemaRegistry, name string) error {
	return registerReflected(reg, name, &ir.Violation{})
}

func registerReflected(reg *typecheck.SchemaRegistry, name string, v interface{}) error {
	return reg.Register(name, reflector.Reflect(v))
}

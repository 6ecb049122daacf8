package typecheck

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaRegistry backs §4.5's struct(name) clause: "the value is a
// record whose type identity equals M" is implemented as JSON Schema
// validation against a schema registered under name M, grounded on
// the teacher's validateSchema (dsl/spec.go), which uses the same
// library against a payload string and a schema URI/document.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]gojsonschema.JSONLoader
}

// NewSchemaRegistry returns an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: map[string]gojsonschema.JSONLoader{}}
}

// Register associates name with a JSON Schema document (as Go values
// that json.Marshal can serialize, or a raw JSON string).
func (r *SchemaRegistry) Register(name string, schema interface{}) error {
	var loader gojsonschema.JSONLoader
	switch s := schema.(type) {
	case string:
		loader = gojsonschema.NewStringLoader(s)
	default:
		bs, err := json.Marshal(schema)
		if err != nil {
			return fmt.Errorf("marshaling schema for %q: %w", name, err)
		}
		loader = gojsonschema.NewStringLoader(string(bs))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = loader
	return nil
}

// RegisterURI associates name with a schema loaded from a URI (file://
// or http(s)://), mirroring the teacher's Recv.Schema field.
func (r *SchemaRegistry) RegisterURI(name, uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = gojsonschema.NewReferenceLoader(uri)
}

// Check validates value against the schema registered under name.
func (r *SchemaRegistry) Check(value interface{}, name string) error {
	r.mu.RLock()
	loader, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("struct(%s): no schema registered", name)
	}

	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("struct(%s): marshaling candidate value: %w", name, err)
	}
	doc := gojsonschema.NewStringLoader(string(bs))

	result, err := gojsonschema.Validate(loader, doc)
	if err != nil {
		return fmt.Errorf("struct(%s): schema validation error: %w", name, err)
	}
	if !result.Valid() {
		errs := result.Errors()
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.String()
		}
		return fmt.Errorf("struct(%s): %v", name, msgs)
	}
	return nil
}

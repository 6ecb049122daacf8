/*
 * Copyright 2021 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package typecheck implements §4.5's runtime type check: a total
// function deciding structural membership of a value in a Type, plus
// reply-branch classification.
package typecheck

import (
	"fmt"
	"reflect"

	"github.com/accord-lang/accord/ir"
)

// Error is the structured result of a failed Check, carrying enough
// detail (the failing index for list/tuple, or the set of variants
// tried for a union) for a Violation's Expected field.
type Error struct {
	Type     ir.Type
	Value    interface{}
	Reason   string
	Index    int  // -1 if not applicable
	HasIndex bool
}

func (e *Error) Error() string {
	if e.HasIndex {
		return fmt.Sprintf("%v does not match %s at index %d: %s", e.Value, e.Type, e.Index, e.Reason)
	}
	return fmt.Sprintf("%v does not match %s: %s", e.Value, e.Type, e.Reason)
}

func failf(t ir.Type, v interface{}, format string, args ...interface{}) error {
	return &Error{Type: t, Value: v, Reason: fmt.Sprintf(format, args...), Index: -1}
}

func failIndex(t ir.Type, v interface{}, idx int, format string, args ...interface{}) error {
	return &Error{Type: t, Value: v, Reason: fmt.Sprintf(format, args...), Index: idx, HasIndex: true}
}

// DefaultRegistry is used by Check for ir.ShapeStruct membership when
// no explicit *SchemaRegistry is threaded through (e.g. from
// validation passes that only have a bare value and Type in hand). It
// starts empty; callers that declare struct types must Register a
// schema for every name they use, or struct(name) checks fail closed.
var DefaultRegistry = NewSchemaRegistry()

// Check decides whether value structurally belongs to t, per §4.5.
func Check(value interface{}, t ir.Type) error {
	return CheckWithRegistry(value, t, DefaultRegistry)
}

// CheckWithRegistry is Check, but resolves struct(name) membership
// against the given registry instead of DefaultRegistry.
func CheckWithRegistry(value interface{}, t ir.Type, reg *SchemaRegistry) error {
	switch t.Shape {
	case ir.ShapePrimitive:
		return checkPrimitive(value, t)
	case ir.ShapeLiteral:
		if !valuesEqual(value, t.Literal) {
			return failf(t, value, "expected literal %#v", t.Literal)
		}
		return nil
	case ir.ShapeList:
		return checkList(value, t, reg)
	case ir.ShapeTuple:
		return checkTuple(value, t, reg)
	case ir.ShapeTagged:
		return checkTagged(value, t, reg)
	case ir.ShapeUnion:
		return checkUnion(value, t, reg)
	case ir.ShapeStruct:
		return reg.Check(value, t.StructName)
	default:
		return failf(t, value, "invalid type shape")
	}
}

func checkPrimitive(value interface{}, t ir.Type) error {
	switch t.Kind {
	case ir.KindSignedInt:
		n, ok := asInt(value)
		if !ok {
			return failf(t, value, "not an integer")
		}
		_ = n
		return nil
	case ir.KindPositiveInt:
		n, ok := asInt(value)
		if !ok || n <= 0 {
			return failf(t, value, "not a positive integer")
		}
		return nil
	case ir.KindNonNegativeInt:
		n, ok := asInt(value)
		if !ok || n < 0 {
			return failf(t, value, "not a non-negative integer")
		}
		return nil
	case ir.KindSymbol:
		if _, ok := value.(string); !ok {
			return failf(t, value, "not a symbol")
		}
		return nil
	case ir.KindBoolean:
		if _, ok := value.(bool); !ok {
			return failf(t, value, "not a boolean")
		}
		return nil
	case ir.KindByteString:
		switch value.(type) {
		case string, []byte:
			return nil
		default:
			return failf(t, value, "not a byte string")
		}
	case ir.KindOpaqueTerm:
		// Opaque terms accept anything; they exist so a front-end can
		// declare "don't look inside this" without it meaning "any
		// type at all" (which would also match literals etc. in a
		// union without documenting intent).
		return nil
	case ir.KindMap:
		if _, ok := value.(map[string]interface{}); !ok {
			return failf(t, value, "not a map")
		}
		return nil
	default:
		return failf(t, value, "invalid primitive kind")
	}
}

func asInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
		return 0, false
	case float32:
		if v == float32(int64(v)) {
			return int64(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func valuesEqual(a, b interface{}) bool {
	if an, aok := asInt(a); aok {
		if bn, bok := asInt(b); bok {
			return an == bn
		}
	}
	return reflect.DeepEqual(a, b)
}

func checkList(value interface{}, t ir.Type, reg *SchemaRegistry) error {
	elems, ok := asSlice(value)
	if !ok {
		return failf(t, value, "not a list")
	}
	for i, e := range elems {
		if err := CheckWithRegistry(e, *t.Elem, reg); err != nil {
			return failIndex(t, value, i, "element: %v", err)
		}
	}
	return nil
}

func checkTuple(value interface{}, t ir.Type, reg *SchemaRegistry) error {
	elems, ok := asSlice(value)
	if !ok {
		return failf(t, value, "not a tuple")
	}
	if len(elems) != len(t.Elems) {
		return failf(t, value, "arity mismatch: expected %d, got %d", len(t.Elems), len(elems))
	}
	for i, e := range elems {
		if err := CheckWithRegistry(e, t.Elems[i], reg); err != nil {
			return failIndex(t, value, i, "element: %v", err)
		}
	}
	return nil
}

// checkTagged decides tagged(tag, T) membership per §4.5: value must
// be a non-empty tuple whose first element equals tag and whose
// remaining elements match T (single-type payload checks the sole
// remaining element; list payload checks positionally).
func checkTagged(value interface{}, t ir.Type, reg *SchemaRegistry) error {
	elems, ok := asSlice(value)
	if !ok || len(elems) == 0 {
		return failf(t, value, "not a non-empty tagged tuple")
	}
	tag, ok := elems[0].(string)
	if !ok || tag != t.Tag {
		return failf(t, value, "expected tag %q", t.Tag)
	}
	rest := elems[1:]
	if t.Payload != nil {
		if len(rest) != 1 {
			return failf(t, value, "tagged(%s, _) expects exactly one payload element, got %d", t.Tag, len(rest))
		}
		if err := CheckWithRegistry(rest[0], *t.Payload, reg); err != nil {
			return failIndex(t, value, 1, "payload: %v", err)
		}
		return nil
	}
	if len(rest) != len(t.Payloads) {
		return failf(t, value, "arity mismatch in tagged(%s, ...): expected %d, got %d", t.Tag, len(t.Payloads), len(rest))
	}
	for i, e := range rest {
		if err := CheckWithRegistry(e, t.Payloads[i], reg); err != nil {
			return failIndex(t, value, i+1, "payload element: %v", err)
		}
	}
	return nil
}

func checkUnion(value interface{}, t ir.Type, reg *SchemaRegistry) error {
	var tried []string
	for _, variant := range t.Variants {
		if err := CheckWithRegistry(value, variant, reg); err == nil {
			return nil
		}
		tried = append(tried, variant.String())
	}
	return failf(t, value, "matched no variant of union(%v)", tried)
}

// asSlice accepts both []interface{} (the common JSON-decoded shape)
// and any other slice/array via reflection, so tuples/tagged values
// built programmatically (e.g. []string{"ok", ...}) also work.
func asSlice(value interface{}) ([]interface{}, bool) {
	if s, ok := value.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

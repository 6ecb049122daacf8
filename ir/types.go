package ir

import (
	"fmt"
)

// Kind discriminates the primitive members of Type. Per §9's
// "Sum-type dispatch" note, this is a closed, stable set: consumers
// should switch exhaustively over it.
type Kind int

const (
	KindInvalid Kind = iota
	KindSignedInt
	KindPositiveInt
	KindNonNegativeInt
	KindSymbol
	KindBoolean
	KindByteString
	KindOpaqueTerm
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindSignedInt:
		return "signed_int"
	case KindPositiveInt:
		return "positive_int"
	case KindNonNegativeInt:
		return "non_negative_int"
	case KindSymbol:
		return "symbol"
	case KindBoolean:
		return "boolean"
	case KindByteString:
		return "byte_string"
	case KindOpaqueTerm:
		return "opaque_term"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// TypeShape discriminates the composite members of Type.
type TypeShape int

const (
	ShapePrimitive TypeShape = iota
	ShapeLiteral
	ShapeList
	ShapeTuple
	ShapeTagged
	ShapeUnion
	ShapeStruct
)

// Type is a closed sum of value shapes, per §3. A Type is a pure
// value; equality is structural (Equal implements it explicitly
// rather than relying on == because slice fields make Type
// uncomparable with ==).
type Type struct {
	Shape TypeShape

	// ShapePrimitive
	Kind Kind

	// ShapeLiteral
	Literal interface{}

	// ShapeList, ShapeTuple (tuple uses Elems)
	Elem  *Type
	Elems []Type

	// ShapeTagged
	Tag     string
	Payload *Type // non-nil for a single-type payload
	Payloads []Type // non-nil (possibly empty) for a list payload

	// ShapeUnion
	Variants []Type

	// ShapeStruct
	StructName string
}

// Primitive builds a primitive Type.
func Primitive(k Kind) Type { return Type{Shape: ShapePrimitive, Kind: k} }

// LiteralType builds a literal(v) Type.
func LiteralType(v interface{}) Type { return Type{Shape: ShapeLiteral, Literal: v} }

// ListOf builds list(T).
func ListOf(t Type) Type { return Type{Shape: ShapeList, Elem: &t} }

// TupleOf builds tuple([T...]).
func TupleOf(elems ...Type) Type { return Type{Shape: ShapeTuple, Elems: elems} }

// TaggedSingle builds tagged(tag, T) with a single-type payload.
func TaggedSingle(tag string, payload Type) Type {
	return Type{Shape: ShapeTagged, Tag: tag, Payload: &payload}
}

// TaggedList builds tagged(tag, [T...]) with a positional-list payload.
func TaggedList(tag string, payloads ...Type) Type {
	return Type{Shape: ShapeTagged, Tag: tag, Payloads: payloads}
}

// UnionOf builds union([T...]).
func UnionOf(variants ...Type) Type { return Type{Shape: ShapeUnion, Variants: variants} }

// StructRef builds struct(name).
func StructRef(name string) Type { return Type{Shape: ShapeStruct, StructName: name} }

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Shape != o.Shape {
		return false
	}
	switch t.Shape {
	case ShapePrimitive:
		return t.Kind == o.Kind
	case ShapeLiteral:
		return fmt.Sprintf("%#v", t.Literal) == fmt.Sprintf("%#v", o.Literal)
	case ShapeList:
		return t.Elem != nil && o.Elem != nil && t.Elem.Equal(*o.Elem)
	case ShapeTuple:
		return equalTypeSlices(t.Elems, o.Elems)
	case ShapeTagged:
		if t.Tag != o.Tag {
			return false
		}
		if (t.Payload == nil) != (o.Payload == nil) {
			return false
		}
		if t.Payload != nil {
			return t.Payload.Equal(*o.Payload)
		}
		return equalTypeSlices(t.Payloads, o.Payloads)
	case ShapeUnion:
		return equalTypeSlices(t.Variants, o.Variants)
	case ShapeStruct:
		return t.StructName == o.StructName
	default:
		return false
	}
}

func equalTypeSlices(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	switch t.Shape {
	case ShapePrimitive:
		return t.Kind.String()
	case ShapeLiteral:
		return fmt.Sprintf("literal(%v)", t.Literal)
	case ShapeList:
		return fmt.Sprintf("list(%s)", t.Elem.String())
	case ShapeTuple:
		return fmt.Sprintf("tuple(%s)", joinTypes(t.Elems))
	case ShapeTagged:
		if t.Payload != nil {
			return fmt.Sprintf("tagged(%s, %s)", t.Tag, t.Payload.String())
		}
		return fmt.Sprintf("tagged(%s, [%s])", t.Tag, joinTypes(t.Payloads))
	case ShapeUnion:
		return fmt.Sprintf("union(%s)", joinTypes(t.Variants))
	case ShapeStruct:
		return fmt.Sprintf("struct(%s)", t.StructName)
	default:
		return "<invalid type>"
	}
}

func joinTypes(ts []Type) string {
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = t.String()
	}
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// TypedArg is a formal parameter: a name, a Type, and an optional span
// for diagnostics.
type TypedArg struct {
	Name string // optional; empty if positional-only
	Type Type
	Span Span
}

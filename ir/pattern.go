package ir

// MessagePattern is either a bare symbol (zero-arg message) or a
// tagged tuple (tag, TypedArg...). The Tag is always the dispatch
// key, even for a bare symbol (where Tag is the symbol itself and
// Args is empty).
type MessagePattern struct {
	Tag  string
	Args []TypedArg
	Span Span
}

// IsBareSymbol reports whether this pattern takes no arguments.
func (m MessagePattern) IsBareSymbol() bool {
	return len(m.Args) == 0
}

// ReplyTypeShape discriminates ReplyType.
type ReplyTypeShape int

const (
	ReplyLiteral ReplyTypeShape = iota
	ReplyTagged
	ReplyUnion
	ReplyPlain
)

// ReplyType describes what a branch's reply looks like: a fixed
// symbol, an ok/error-style tagged payload, a union of ReplyTypes, or
// a plain wildcard Type.
type ReplyType struct {
	Shape ReplyTypeShape

	// ReplyLiteral
	Symbol string

	// ReplyTagged
	Tag     string
	Payload *Type

	// ReplyUnion
	Variants []ReplyType

	// ReplyPlain
	Plain *Type
}

// AsType lowers a ReplyType to the Type it is checked against by
// §4.5's check/check_reply. Literal(sym) becomes literal(sym);
// tagged(tag, T) becomes tagged(tag, T); union lowers recursively;
// plain is already a Type.
func (r ReplyType) AsType() Type {
	switch r.Shape {
	case ReplyLiteral:
		return LiteralType(r.Symbol)
	case ReplyTagged:
		if r.Payload == nil {
			return TaggedList(r.Tag)
		}
		return TaggedSingle(r.Tag, *r.Payload)
	case ReplyUnion:
		variants := make([]Type, len(r.Variants))
		for i, v := range r.Variants {
			variants[i] = v.AsType()
		}
		return UnionOf(variants...)
	case ReplyPlain:
		if r.Plain == nil {
			return Type{}
		}
		return *r.Plain
	default:
		return Type{}
	}
}

func (r ReplyType) String() string {
	return r.AsType().String()
}

// ReplyLiteralOf builds literal(symbol).
func ReplyLiteralOf(symbol string) ReplyType {
	return ReplyType{Shape: ReplyLiteral, Symbol: symbol}
}

// ReplyTaggedOf builds tagged(symbol, Type).
func ReplyTaggedOf(tag string, payload Type) ReplyType {
	return ReplyType{Shape: ReplyTagged, Tag: tag, Payload: &payload}
}

// ReplyUnionOf builds union([ReplyType...]).
func ReplyUnionOf(variants ...ReplyType) ReplyType {
	return ReplyType{Shape: ReplyUnion, Variants: variants}
}

// ReplyPlainOf builds a plain wildcard-Type reply.
func ReplyPlainOf(t Type) ReplyType {
	return ReplyType{Shape: ReplyPlain, Plain: &t}
}

// StateRefShape discriminates StateRef.
type StateRefShape int

const (
	StateRefNamed StateRefShape = iota
	StateRefSame
)

// StateRef names the next state of a branch: either a concrete state
// name or the sentinel SAME (current state).
type StateRef struct {
	Shape StateRefShape
	Name  string
}

// Same is the StateRef sentinel meaning "the state the transition
// fired from".
var Same = StateRef{Shape: StateRefSame}

// NamedState builds a concrete StateRef.
func NamedState(name string) StateRef {
	return StateRef{Shape: StateRefNamed, Name: name}
}

// Resolve returns the concrete state name, substituting current for
// Same.
func (s StateRef) Resolve(current string) string {
	if s.Shape == StateRefSame {
		return current
	}
	return s.Name
}

func (s StateRef) String() string {
	if s.Shape == StateRefSame {
		return "SAME"
	}
	return s.Name
}

// Branch is one possible (reply_type, next_state) outcome of a call
// transition.
type Branch struct {
	ReplyType      ReplyType
	NextState      StateRef
	Constraint     *Predicate // optional extra reply-level predicate
	Span           Span
	NextStateSpan  Span
}

// TransitionKind discriminates call vs. cast transitions.
type TransitionKind int

const (
	KindCall TransitionKind = iota
	KindCast
)

func (k TransitionKind) String() string {
	if k == KindCast {
		return "cast"
	}
	return "call"
}

// Transition is a permitted message in a state (or, for an any-state
// transition, in every non-terminal state): its pattern, kind,
// branches, optional guard, and optional update.
type Transition struct {
	Pattern  MessagePattern
	Kind     TransitionKind
	Branches []Branch
	Guard    *Predicate
	Update   *Updater
	Span     Span
}

// Tag is shorthand for Pattern.Tag.
func (t Transition) Tag() string { return t.Pattern.Tag }

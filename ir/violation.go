package ir

// Blame classifies a Violation into who is responsible, per §3.
type Blame int

const (
	BlameClient Blame = iota
	BlameServer
	BlameProperty
)

func (b Blame) String() string {
	switch b {
	case BlameClient:
		return "client"
	case BlameServer:
		return "server"
	case BlameProperty:
		return "property"
	default:
		return "unknown"
	}
}

// ViolationKind enumerates the closed set of violation kinds from §3,
// each implying a fixed Blame (grouped by blame below).
type ViolationKind int

const (
	// Client blame.
	ViolationInvalidMessage ViolationKind = iota
	ViolationArgumentType
	ViolationGuardFailed
	ViolationSessionEnded

	// Server blame.
	ViolationInvalidReply
	ViolationTimeout

	// Property blame.
	ViolationInvariantViolated
	ViolationActionViolated
	ViolationLivenessViolated
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationInvalidMessage:
		return "invalid_message"
	case ViolationArgumentType:
		return "argument_type"
	case ViolationGuardFailed:
		return "guard_failed"
	case ViolationSessionEnded:
		return "session_ended"
	case ViolationInvalidReply:
		return "invalid_reply"
	case ViolationTimeout:
		return "timeout"
	case ViolationInvariantViolated:
		return "invariant_violated"
	case ViolationActionViolated:
		return "action_violated"
	case ViolationLivenessViolated:
		return "liveness_violated"
	default:
		return "unknown"
	}
}

// Blame returns the fixed blame classification for a ViolationKind.
func (k ViolationKind) Blame() Blame {
	switch k {
	case ViolationInvalidMessage, ViolationArgumentType, ViolationGuardFailed, ViolationSessionEnded:
		return BlameClient
	case ViolationInvalidReply, ViolationTimeout:
		return BlameServer
	case ViolationInvariantViolated, ViolationActionViolated, ViolationLivenessViolated:
		return BlameProperty
	default:
		return BlameProperty
	}
}

// Violation is a structured description of a detected specification
// breach, produced as a value (never discarded silently, per §7).
type Violation struct {
	Blame   Blame
	Kind    ViolationKind
	State   string
	Message interface{}

	Expected interface{} // e.g. expected Type, valid reply-type list, expected tags
	Reply    interface{}
	Span     Span
	Context  map[string]interface{}
}

// NewViolation builds a Violation, deriving Blame from Kind and
// initializing Context if nil.
func NewViolation(kind ViolationKind, state string, message interface{}) Violation {
	return Violation{
		Blame:   kind.Blame(),
		Kind:    kind,
		State:   state,
		Message: message,
		Context: map[string]interface{}{},
	}
}

func (v Violation) WithExpected(expected interface{}) Violation {
	v.Expected = expected
	return v
}

func (v Violation) WithReply(reply interface{}) Violation {
	v.Reply = reply
	return v
}

func (v Violation) WithSpan(span Span) Violation {
	v.Span = span
	return v
}

func (v Violation) WithContext(key string, value interface{}) Violation {
	if v.Context == nil {
		v.Context = map[string]interface{}{}
	}
	v.Context[key] = value
	return v
}

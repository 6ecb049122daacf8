package ir

// CheckKind discriminates the closed sum of Property checks in §3.
type CheckKind int

const (
	CheckInvariant CheckKind = iota
	CheckLocalInvariant
	CheckAction
	CheckBounded
	CheckLiveness
	CheckCorrespondence
	CheckOrdered
	CheckReachable
	CheckPrecedence
	CheckForbidden
)

func (k CheckKind) String() string {
	switch k {
	case CheckInvariant:
		return "invariant"
	case CheckLocalInvariant:
		return "local_invariant"
	case CheckAction:
		return "action"
	case CheckBounded:
		return "bounded"
	case CheckLiveness:
		return "liveness"
	case CheckCorrespondence:
		return "correspondence"
	case CheckOrdered:
		return "ordered"
	case CheckReachable:
		return "reachable"
	case CheckPrecedence:
		return "precedence"
	case CheckForbidden:
		return "forbidden"
	default:
		return "invalid"
	}
}

// FieldPath is the result ResolveFieldPaths (E035/E036) attaches to
// an Ordered or Correspondence check's `by:` clause: a tuple position
// within the referenced event's arguments, plus an optional nested
// map-key path for when that argument is itself a map.
type FieldPath struct {
	EventTag  string
	FieldName string
	Position  int
	NestedKey []string // additional map-key descent beyond Position, if any
}

// Fairness qualifies a Liveness check's temporal translation.
type Fairness int

const (
	FairnessNone Fairness = iota
	FairnessWeak
	FairnessStrong
)

// Check is one member of the closed sum described in §3. Exactly the
// fields relevant to Kind are populated; see the constructors below
// for the canonical shape of each kind.
type Check struct {
	Kind CheckKind
	Span Span

	// CheckInvariant, CheckAction, CheckBounded, CheckLocalInvariant
	Predicate *Predicate

	// CheckLocalInvariant
	StateRef string

	// CheckBounded
	TrackName string
	Max       interface{}

	// CheckLiveness
	Trigger  *Predicate
	Target   *Predicate
	Fairness Fairness

	// CheckCorrespondence
	OpenTag   string
	CloseTags []string

	// ByFieldName is the raw, unresolved field name from a `by:`
	// clause (CheckCorrespondence or CheckOrdered). By is populated
	// from it by ResolveFieldPaths (E035/E036).
	ByFieldName string
	By          *FieldPath

	// CheckOrdered
	EventTag string

	// CheckReachable, CheckPrecedence, CheckForbidden
	TargetState   string
	RequiredState string
}

// Property is a named bundle of Checks, per §3.
type Property struct {
	Name   string
	Checks []Check
	Span   Span
}

package ir

// Role names a protocol participant. §1 fixes the cardinality at two
// (client, server); Roles exists mainly so diagnostics and the
// model-checker back-end can use the protocol's own names for them
// instead of hardcoding "client"/"server" in emitted text.
type Role struct {
	Name string
	Span Span
}

// IR is the validated, immutable intermediate representation a
// front-end hands to the rest of the pipeline, per §3's "IR" entry.
//
// IR values are built once by NewIR (or a front-end's equivalent),
// then passed through the fixed validation sequence in
// ir/validate, which returns a (possibly identical, possibly
// span-refined) IR on success. Nothing downstream mutates an IR in
// place.
type IR struct {
	Name    string
	Source  string // source text, used by RefineSpans; may be empty
	Initial string
	States  map[string]State
	// AnyState transitions are valid in every non-terminal state. They
	// are conceptually present in every state but are stored once,
	// per §9's "Any-state transitions" note: "Flatten once into the
	// transition table; do not re-check at dispatch time."
	AnyState   []Transition
	Tracks     []Track
	Roles      []Role
	Properties []Property
}

// NewIR builds an empty IR scaffold. Callers (front-ends, test
// fixtures, protoyaml) populate the fields directly; NewIR exists so
// the zero value always has an initialized States map.
func NewIR(name, initial string) *IR {
	return &IR{
		Name:    name,
		Initial: initial,
		States:  map[string]State{},
	}
}

// StateNames returns the IR's state names in map order (undefined
// order; callers that need determinism should sort).
func (i *IR) StateNames() []string {
	names := make([]string, 0, len(i.States))
	for n := range i.States {
		names = append(names, n)
	}
	return names
}

// TrackNames returns the declared track names in declaration order.
func (i *IR) TrackNames() []string {
	names := make([]string, len(i.Tracks))
	for idx, t := range i.Tracks {
		names[idx] = t.Name
	}
	return names
}

// Track looks up a track declaration by name.
func (i *IR) Track(name string) (Track, bool) {
	for _, t := range i.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return Track{}, false
}

// Clone returns a deep-enough copy of the IR for passes that want to
// produce a modified IR without mutating the input (validation passes
// are pure functions IR -> Result<IR, []Report>, per §4.3).
func (i *IR) Clone() *IR {
	out := &IR{
		Name:     i.Name,
		Source:   i.Source,
		Initial:  i.Initial,
		States:   make(map[string]State, len(i.States)),
		AnyState: append([]Transition(nil), i.AnyState...),
		Tracks:   append([]Track(nil), i.Tracks...),
		Roles:    append([]Role(nil), i.Roles...),
		Properties: append([]Property(nil), i.Properties...),
	}
	copyBranches := func(ts []Transition) {
		for k := range ts {
			ts[k].Branches = append([]Branch(nil), ts[k].Branches...)
		}
	}
	copyBranches(out.AnyState)
	for name, st := range i.States {
		st.Transitions = append([]Transition(nil), st.Transitions...)
		copyBranches(st.Transitions)
		out.States[name] = st
	}
	for k := range out.Properties {
		out.Properties[k].Checks = append([]Check(nil), out.Properties[k].Checks...)
	}
	return out
}

// Package compile turns a validated IR into the O(1)-dispatch
// structures the monitor runs against: a (state, tag) -> Transition
// table and a track-name -> default-value map, per §4.4.
package compile

import (
	"fmt"
	"sort"

	"github.com/accord-lang/accord/ir"
)

// Table is the flattened (state_name, message_tag) -> Transition
// mapping, plus the set of terminal states, built once from a
// validated IR. Determinism validation (E020) guarantees the
// state-local/any-state union behind each entry is disjoint, so
// lookups never need to pick between two candidates.
type Table struct {
	entries   map[tableKey]ir.Transition
	terminals map[string]bool
	states    []string // all declared state names, for iteration/tests
}

type tableKey struct {
	state string
	tag   string
}

// BuildTransitionTable flattens in's states and any-state transitions
// into a Table. For each non-terminal state it is the disjoint union
// of that state's own transitions and every any-state transition
// (§9: "Any-state transitions... Flatten once into the transition
// table; do not re-check at dispatch time").
func BuildTransitionTable(in *ir.IR) (*Table, error) {
	t := &Table{
		entries:   map[tableKey]ir.Transition{},
		terminals: map[string]bool{},
	}

	names := in.StateNames()
	t.states = names

	for _, name := range names {
		st := in.States[name]
		if st.Terminal {
			t.terminals[name] = true
			continue
		}
		for _, tr := range st.Transitions {
			key := tableKey{state: name, tag: tr.Tag()}
			if _, have := t.entries[key]; have {
				return nil, fmt.Errorf("compile: (%s, %s) already present; determinism validation should have caught this", name, tr.Tag())
			}
			t.entries[key] = tr
		}
		for _, tr := range in.AnyState {
			key := tableKey{state: name, tag: tr.Tag()}
			if _, have := t.entries[key]; have {
				return nil, fmt.Errorf("compile: (%s, %s) collides with an any-state transition; determinism validation should have caught this", name, tr.Tag())
			}
			t.entries[key] = tr
		}
	}

	return t, nil
}

// Lookup returns the Transition for (state, tag), and whether it was
// found. It is total: every call returns a definite hit/miss.
func (t *Table) Lookup(state, tag string) (ir.Transition, bool) {
	tr, ok := t.entries[tableKey{state: state, tag: tag}]
	return tr, ok
}

// IsTerminal reports whether state is a terminal state (including the
// synthetic TERMINATED state the monitor uses once a terminal state
// is reached; that name is not in this table since it's not part of
// the IR, but callers can special-case it before calling IsTerminal).
func (t *Table) IsTerminal(state string) bool {
	return t.terminals[state]
}

// TagsInState returns the message tags dispatchable from state,
// sorted, for a Violation's "expected set of tags" on an
// invalid_message miss.
func (t *Table) TagsInState(state string) []string {
	var tags []string
	for key := range t.entries {
		if key.state == state {
			tags = append(tags, key.tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// States returns every declared state name.
func (t *Table) States() []string {
	return append([]string(nil), t.states...)
}

// Flatten reproduces, for a given state, the disjoint state-local +
// any-state partition the table was built from (Testable Property #7:
// "Round-trip"). It exists mainly so tests can assert the table
// agrees with a fresh linear search over the IR.
func Flatten(in *ir.IR, state string) map[string]ir.Transition {
	out := map[string]ir.Transition{}
	st, ok := in.States[state]
	if !ok || st.Terminal {
		return out
	}
	for _, tr := range st.Transitions {
		out[tr.Tag()] = tr
	}
	for _, tr := range in.AnyState {
		out[tr.Tag()] = tr
	}
	return out
}

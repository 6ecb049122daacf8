// Package explore is a bounded, in-process reachability/invariant
// sanity-checker over a compiled transition table, built on
// github.com/ichiban/prolog. It exists as an independent,
// cross-checked implementation path for Testable Property #1
// ("validation soundness") alongside the BFS
// ir/validate.ValidateReachability already uses for W001/W002: the
// same question ("is state S reachable from initial") answered two
// ways should never disagree.
//
// Grounded on rfielding-turducken's pkg/prolog.Engine, which wraps the
// same library to do CTL-style reachability (ctl_ef/2) over a
// state/transition Kripke structure; this package narrows that idea
// to the one relation Accord needs and asserts facts straight from a
// compiled compile.Table instead of a hand-authored Prolog spec.
package explore

import (
	"context"
	"fmt"
	"strings"

	"github.com/ichiban/prolog"

	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/ir"
)

// core is the fixed rule set asserted once per Engine: state/1 and
// edge/3 facts are asserted per-IR by Load; reachable/2 is the
// derived predicate queries use. reachable/3 carries the states
// already visited on the current path, so a cycle in the graph ends
// the search instead of recursing forever.
const core = `
reachable(X, Y) :- reachable(X, Y, [X]).
reachable(X, X, _).
reachable(X, Y, Seen) :- edge(X, _, Z), state(Z), \+ visited(Z, Seen), reachable(Z, Y, [Z|Seen]).
visited(X, [X|_]).
visited(X, [_|T]) :- visited(X, T).
`

// Engine wraps an ichiban/prolog interpreter loaded with one
// protocol's transition graph as state/1, edge/3, initial/1, and
// terminal/1 facts.
type Engine struct {
	interp *prolog.Interpreter
}

// New builds an Engine with the core reachability rule loaded but no
// facts asserted yet; call Load before querying.
func New() (*Engine, error) {
	e := &Engine{interp: prolog.New(nil, nil)}
	if err := e.interp.Exec(core); err != nil {
		return nil, fmt.Errorf("explore: loading core predicates: %w", err)
	}
	return e, nil
}

// Load asserts in's state graph (as flattened by table) into the
// engine: one state/1 fact per declared state, one edge/3 fact per
// (source, tag, destination) reachable via the transition table, and
// initial/1 / terminal/1 facts marking in.Initial and each terminal
// state.
func (e *Engine) Load(in *ir.IR, table *compile.Table) error {
	src := BuildFacts(in, table)
	if err := e.interp.Exec(src); err != nil {
		return fmt.Errorf("explore: asserting protocol facts: %w", err)
	}
	return nil
}

// BuildFacts renders in's state graph as Prolog fact clauses, the
// same shape Load asserts. Exported so callers (e.g. cmd/accordc
// --explore) can inspect or cache the generated source.
func BuildFacts(in *ir.IR, table *compile.Table) string {
	var b strings.Builder
	for _, name := range in.StateNames() {
		fmt.Fprintf(&b, "state(%s).\n", atomOf(name))
	}
	fmt.Fprintf(&b, "initial(%s).\n", atomOf(in.Initial))
	for _, name := range in.StateNames() {
		if in.States[name].Terminal {
			fmt.Fprintf(&b, "terminal(%s).\n", atomOf(name))
		}
	}
	for _, from := range table.States() {
		if table.IsTerminal(from) {
			continue
		}
		for _, tag := range table.TagsInState(from) {
			tr, _ := table.Lookup(from, tag)
			for _, to := range destinations(tr, from) {
				fmt.Fprintf(&b, "edge(%s, %s, %s).\n", atomOf(from), atomOf(tag), atomOf(to))
			}
		}
	}
	return b.String()
}

func destinations(tr ir.Transition, from string) []string {
	if tr.Kind == ir.KindCast {
		return []string{from}
	}
	seen := map[string]bool{}
	var out []string
	for _, b := range tr.Branches {
		to := b.NextState.Resolve(from)
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	return out
}

// atomOf renders a state/tag name as a quoted Prolog atom, so names
// containing characters that would otherwise need escaping (spaces,
// punctuation) round-trip safely.
func atomOf(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "\\'") + "'"
}

// Reachable reports whether target is reachable from the protocol's
// initial state, per the asserted edge/3 facts.
func (e *Engine) Reachable(ctx context.Context, target string) (bool, error) {
	q := fmt.Sprintf("initial(S), reachable(S, %s).", atomOf(target))
	sols, err := e.interp.QueryContext(ctx, q)
	if err != nil {
		return false, fmt.Errorf("explore: querying reachability of %q: %w", target, err)
	}
	defer sols.Close()
	ok := sols.Next()
	return ok, sols.Err()
}

// AnyTerminalReachable reports whether at least one terminal state is
// reachable from initial, the Prolog-backed counterpart of W002.
func (e *Engine) AnyTerminalReachable(ctx context.Context) (bool, error) {
	q := "initial(S), terminal(T), reachable(S, T)."
	sols, err := e.interp.QueryContext(ctx, q)
	if err != nil {
		return false, fmt.Errorf("explore: querying terminal reachability: %w", err)
	}
	defer sols.Close()
	ok := sols.Next()
	return ok, sols.Err()
}

// UnreachableStates returns every declared state that Reachable finds
// unreachable from initial, the Prolog-backed counterpart of W001.
func (e *Engine) UnreachableStates(ctx context.Context, in *ir.IR) ([]string, error) {
	var out []string
	for _, name := range in.StateNames() {
		ok, err := e.Reachable(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, name)
		}
	}
	return out, nil
}

package validate

import (
	"fmt"
	"sort"

	"github.com/accord-lang/accord/ir"
)

// ValidateReachability implements W001/W002 via breadth-first
// traversal of the next_state graph, treating SAME as a self-edge
// (Testable behavior matches internal/explore's independent
// Prolog-backed check).
func ValidateReachability(in *ir.IR) (*ir.IR, Reports) {
	var reports Reports

	reachable := reachableStates(in)

	names := in.StateNames()
	sort.Strings(names)
	anyTerminal := false
	for _, name := range names {
		st := in.States[name]
		if st.Terminal {
			anyTerminal = true
		}
		if !st.Terminal && !reachable[name] {
			reports = append(reports, Report{
				Code:     "W001",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("state %q is unreachable from initial state %q", name, in.Initial),
				Primary:  Label{Span: st.Span, Message: "unreachable state"},
			})
		}
	}

	if anyTerminal {
		reachedTerminal := false
		for _, name := range names {
			if in.States[name].Terminal && reachable[name] {
				reachedTerminal = true
				break
			}
		}
		if !reachedTerminal {
			reports = append(reports, Report{
				Code:     "W002",
				Severity: SeverityWarning,
				Message:  "no terminal state is reachable from the initial state, though terminal states exist",
				Primary:  Label{Message: "protocol never terminates"},
			})
		}
	}

	return in, reports
}

// reachableStates returns the set of state names reachable from
// in.Initial, including in.Initial itself.
func reachableStates(in *ir.IR) map[string]bool {
	visited := map[string]bool{}
	if _, ok := in.States[in.Initial]; !ok {
		return visited
	}
	queue := []string{in.Initial}
	visited[in.Initial] = true

	successors := func(state string) []string {
		var out []string
		st, ok := in.States[state]
		if !ok || st.Terminal {
			return out
		}
		for _, t := range st.Transitions {
			out = append(out, branchTargets(t, state)...)
		}
		for _, t := range in.AnyState {
			out = append(out, branchTargets(t, state)...)
		}
		return out
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range successors(cur) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}

func branchTargets(t ir.Transition, current string) []string {
	var out []string
	for _, b := range t.Branches {
		out = append(out, b.NextState.Resolve(current))
	}
	return out
}

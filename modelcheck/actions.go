package modelcheck

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
)

// Action is one named TLA+-like action definition: a (state,
// transition, branch) triple for a call transition, or a (state,
// transition) self-loop for a cast transition, per §4.7 "BuildActions".
type Action struct {
	Name        string
	SourceState string
	Tag         string
	Kind        ir.TransitionKind
	Text        string
}

// BuildActions implements §4.7's action generation: one named action
// per (state, transition, branch) triple, with preconditions,
// existentials over typed message parameters, primed assignments, and
// an exhaustive UNCHANGED over every declared variable the action
// doesn't touch. Cast transitions become self-loop actions with no
// track changes. Terminal states produce no actions. Unsupported
// guard/update/constraint bodies degrade to TRUE/no-op and are
// reported as warnings rather than failing the whole build.
func BuildActions(in *ir.IR, ss *StateSpace, cfg *config.Config) ([]Action, []Warning, error) {
	var actions []Action
	var warnings []Warning

	allVarNames := make([]string, len(ss.Variables))
	for i, v := range ss.Variables {
		allVarNames[i] = v.Name
	}

	corrAdj := correspondenceAdjustments(in)

	for _, stateName := range ss.StateNames {
		state := in.States[stateName]
		if state.Terminal {
			continue
		}
		transitions := append(append([]ir.Transition(nil), state.Transitions...), in.AnyState...)
		for _, tr := range transitions {
			built, warns, err := buildTransitionActions(tr, stateName, cfg, allVarNames, ss.HasEventVar, corrAdj)
			if err != nil {
				return nil, nil, err
			}
			actions = append(actions, built...)
			warnings = append(warnings, warns...)
		}
	}

	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })
	return actions, warnings, nil
}

// corrAdjustment is one counter's +1/-1 step triggered by a message
// tag, per §4.7's "correspondence counter adjustments (+1 on open, -1
// on close, only when source != target state)".
type corrAdjustment struct {
	Counter string
	Delta   int
}

// correspondenceAdjustments maps each tag that opens or closes a
// correspondence check to the counter(s) it adjusts and by how much.
func correspondenceAdjustments(in *ir.IR) map[string][]corrAdjustment {
	adj := map[string][]corrAdjustment{}
	for _, p := range in.Properties {
		for _, chk := range p.Checks {
			if chk.Kind != ir.CheckCorrespondence {
				continue
			}
			counter := correspondenceCounterName(chk.OpenTag)
			adj[chk.OpenTag] = append(adj[chk.OpenTag], corrAdjustment{Counter: counter, Delta: 1})
			for _, closeTag := range chk.CloseTags {
				adj[closeTag] = append(adj[closeTag], corrAdjustment{Counter: counter, Delta: -1})
			}
		}
	}
	return adj
}

func buildTransitionActions(tr ir.Transition, sourceState string, cfg *config.Config, allVars []string, hasEventVar bool, corrAdj map[string][]corrAdjustment) ([]Action, []Warning, error) {
	bindings := Bindings{}
	existentials, warns := buildArgExistentials(tr.Pattern.Args, bindings, cfg)

	var guardText string
	var guardWarn *Warning
	if tr.Guard != nil {
		guardText, guardWarn = TranslateOrWarn(tr.Guard.Expr, &Context{Bindings: bindings}, tr.Guard.Span)
		if guardWarn != nil {
			warns = append(warns, *guardWarn)
		}
	}

	if tr.Kind == ir.KindCast {
		name := actionName(tr.Pattern.Tag, sourceState, sourceState)
		clauses := []string{fmt.Sprintf("state = %s", translateLit(sourceState))}
		if guardText != "" {
			clauses = append(clauses, guardText)
		}
		touched := map[string]bool{}
		if hasEventVar {
			clauses = append(clauses, fmt.Sprintf("event' = %s", translateLit(tr.Pattern.Tag)))
			touched["event"] = true
		}
		unchanged := unchangedClause(allVars, touched)
		if unchanged != "" {
			clauses = append(clauses, unchanged)
		}
		text := fmt.Sprintf("%s == %s/\\ %s", name, existentials, strings.Join(clauses, " /\\ "))
		return []Action{{Name: name, SourceState: sourceState, Tag: tr.Pattern.Tag, Kind: tr.Kind, Text: text}}, warns, nil
	}

	var actions []Action
	for _, branch := range tr.Branches {
		nextState := branch.NextState.Resolve(sourceState)
		name := actionName(tr.Pattern.Tag, sourceState, nextState)

		branchBindings := Bindings{}
		for k, v := range bindings {
			branchBindings[k] = v
		}

		clauses := []string{fmt.Sprintf("state = %s", translateLit(sourceState))}
		if guardText != "" {
			clauses = append(clauses, guardText)
		}
		if branch.Constraint != nil {
			text, warn := TranslateOrWarn(branch.Constraint.Expr, &Context{Bindings: branchBindings, ReplyType: &branch.ReplyType}, branch.Constraint.Span)
			if warn != nil {
				warns = append(warns, *warn)
			}
			if text != "" {
				clauses = append(clauses, text)
			}
		}

		touched := map[string]bool{"state": true}
		assignments := []string{fmt.Sprintf("state' = %s", translateLit(nextState))}
		if upd := tr.Update; upd != nil {
			updAssign, touchedNames, warns2 := translateUpdater(*upd, &Context{Bindings: branchBindings, ReplyType: &branch.ReplyType})
			warns = append(warns, warns2...)
			assignments = append(assignments, updAssign...)
			for _, n := range touchedNames {
				touched[n] = true
			}
		}
		if hasEventVar {
			assignments = append(assignments, fmt.Sprintf("event' = %s", translateLit(tr.Pattern.Tag)))
			touched["event"] = true
		}
		if nextState != sourceState {
			for _, adj := range corrAdj[tr.Pattern.Tag] {
				op := "+"
				if adj.Delta < 0 {
					op = "-"
				}
				assignments = append(assignments, fmt.Sprintf("%s' = %s %s 1", adj.Counter, adj.Counter, op))
				touched[adj.Counter] = true
			}
		}

		clauses = append(clauses, assignments...)
		if u := unchangedClause(allVars, touched); u != "" {
			clauses = append(clauses, u)
		}

		text := fmt.Sprintf("%s == %s/\\ %s", name, existentials, strings.Join(clauses, " /\\ "))
		actions = append(actions, Action{Name: name, SourceState: sourceState, Tag: tr.Pattern.Tag, Kind: tr.Kind, Text: text})
	}
	return actions, warns, nil
}

// buildArgExistentials builds the `\E a \in Dom, ...: ` prefix for a
// transition's typed parameters and registers each parameter's bound
// identifier in bindings. List-typed parameters are abstracted to a
// length variable per §4.7.
func buildArgExistentials(args []ir.TypedArg, bindings Bindings, cfg *config.Config) (string, []Warning) {
	if len(args) == 0 {
		return "", nil
	}
	var parts []string
	var warns []Warning
	for i, a := range args {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i+1)
		}
		bindings[name] = name
		if a.Type.Shape == ir.ShapeList {
			bindings.MarkListLength(name)
			d := cfg.ResolveMaxListLength()
			parts = append(parts, fmt.Sprintf("%s \\in 0..%d", name, d))
			continue
		}
		d := cfg.ResolveDomain(name, a.Type)
		parts = append(parts, fmt.Sprintf("%s \\in %s", name, domainSetText(d)))
	}
	return fmt.Sprintf("\\E %s: ", strings.Join(parts, ", ")), warns
}

// translateUpdater implements §4.7's update-assignment convention: an
// Updater's body is an ExprBlock whose statements are "field = value"
// assignments (ExprBinOp, Op "="), each naming the track being
// updated on the left (ExprField, Base "tracks") and its post-step
// value on the right. Each statement becomes one `f' = value` clause.
// An Updater with no Expr is a no-op and yields a warning.
func translateUpdater(u ir.Updater, ctx *Context) ([]string, []string, []Warning) {
	if u.Expr == nil {
		return nil, nil, []Warning{{Span: u.Span, Message: "no compilable update expression, treated as no-op"}}
	}
	stmts := u.Expr.Stmts
	if u.Expr.Kind != ir.ExprBlock {
		stmts = []ir.Expr{*u.Expr}
	}

	var assigns []string
	var touched []string
	var warns []Warning
	for _, stmt := range stmts {
		if stmt.Kind != ir.ExprBinOp || stmt.Op != "=" || stmt.Left == nil || stmt.Left.Kind != ir.ExprField {
			warns = append(warns, Warning{Span: stmt.Span, Message: "unsupported update statement shape, treated as no-op"})
			continue
		}
		field := stmt.Left.Field
		text, warn := TranslateOrWarn(stmt.Right, ctx, stmt.Span)
		if warn != nil {
			warns = append(warns, *warn)
		}
		assigns = append(assigns, fmt.Sprintf("%s' = %s", field, text))
		touched = append(touched, field)
	}
	return assigns, touched, warns
}

// unchangedClause builds the UNCHANGED clause over every declared
// variable not named in touched, per §4.7's "UNCHANGED exhaustive
// over all declared vars not in primed assignments".
func unchangedClause(allVars []string, touched map[string]bool) string {
	var rest []string
	for _, v := range allVars {
		if !touched[v] {
			rest = append(rest, v)
		}
	}
	if len(rest) == 0 {
		return ""
	}
	sort.Strings(rest)
	return fmt.Sprintf("UNCHANGED <<%s>>", strings.Join(rest, ", "))
}

// actionName builds the "<CamelTag>From<CamelSrc>To<CamelDst>" naming
// convention from §4.7.
func actionName(tag, src, dst string) string {
	return fmt.Sprintf("%sFrom%sTo%s", camel(tag), camel(src), camel(dst))
}

// camel upper-cases each underscore/hyphen-separated word and joins
// them, e.g. "order_placed" -> "OrderPlaced".
func camel(s string) string {
	var b strings.Builder
	upNext := true
	for _, r := range s {
		if r == '_' || r == '-' {
			upNext = true
			continue
		}
		if upNext {
			b.WriteRune(unicode.ToUpper(r))
			upNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

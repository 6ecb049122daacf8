package modelcheck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
)

// Variable is one declared state-space variable: its name and the
// resolved Domain BuildActions/Emit quantify it over.
type Variable struct {
	Name   string
	Domain config.Domain
}

// StateSpace is §4.7's BuildStateSpace output: the declared
// variables, the derived type invariant and Init predicate text, and
// the constants collected along the way.
type StateSpace struct {
	StateNames []string
	Variables  []Variable
	// HasEventVar records whether an `event` variable was emitted
	// (only when some property has a local_invariant, per §4.7).
	HasEventVar bool

	TypeInvariant string
	Init          string
	Constants     []string
}

// BuildStateSpace implements §4.7's "BuildStateSpace": the state
// variable, one variable per track (domain-resolved via cfg), an
// event variable when any local_invariant exists, and one counter
// variable per distinct correspondence open tag, each bounded [0..K].
func BuildStateSpace(in *ir.IR, cfg *config.Config) (*StateSpace, error) {
	ss := &StateSpace{StateNames: sortedStateNames(in)}

	stateDomain := config.Domain{Kind: config.DomainEnum}
	for _, name := range ss.StateNames {
		stateDomain.Values = append(stateDomain.Values, name)
	}
	ss.Variables = append(ss.Variables, Variable{Name: "state", Domain: stateDomain})

	for _, tr := range in.Tracks {
		d := cfg.ResolveDomain(tr.Name, tr.Type)
		if tr.Default == nil {
			d.NilSentinel = true
		}
		ss.Variables = append(ss.Variables, Variable{Name: tr.Name, Domain: d})
	}

	if hasLocalInvariant(in) {
		ss.HasEventVar = true
		tagDomain := config.Domain{Kind: config.DomainEnum, Values: toInterfaceSlice(allMessageTags(in))}
		ss.Variables = append(ss.Variables, Variable{Name: "event", Domain: tagDomain})
	}

	for _, bound := range correspondenceBounds(in, cfg) {
		name := correspondenceCounterName(bound.OpenTag)
		ss.Variables = append(ss.Variables, Variable{
			Name:   name,
			Domain: config.Domain{Kind: config.DomainRange, Min: 0, Max: bound.Max},
		})
	}

	ss.TypeInvariant = buildTypeInvariant(ss.Variables)
	ss.Init = buildInit(in, ss.Variables, cfg)
	ss.Constants = collectConstants(ss.Variables)

	return ss, nil
}

// correspondenceCounterName is the variable-naming convention for a
// correspondence check's counter, shared by statespace.go and
// actions.go.
func correspondenceCounterName(openTag string) string {
	return "corr_" + openTag
}

func sortedStateNames(in *ir.IR) []string {
	names := in.StateNames()
	sort.Strings(names)
	return names
}

func hasLocalInvariant(in *ir.IR) bool {
	for _, p := range in.Properties {
		for _, c := range p.Checks {
			if c.Kind == ir.CheckLocalInvariant {
				return true
			}
		}
	}
	return false
}

func allMessageTags(in *ir.IR) []string {
	seen := map[string]bool{}
	for _, name := range in.StateNames() {
		for _, t := range in.States[name].Transitions {
			seen[t.Tag()] = true
		}
	}
	for _, t := range in.AnyState {
		seen[t.Tag()] = true
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// correspondenceBounds resolves each distinct open tag's K bound from
// cfg.Correspondences, defaulting to max_list_length's resolved value
// when a check has no explicit configured bound (a correspondence
// counter is, after all, just another small bounded integer).
func correspondenceBounds(in *ir.IR, cfg *config.Config) []config.CorrespondenceBound {
	configured := map[string]int{}
	if cfg != nil {
		for _, b := range cfg.Correspondences {
			configured[b.OpenTag] = b.Max
		}
	}
	seen := map[string]bool{}
	var out []config.CorrespondenceBound
	for _, p := range in.Properties {
		for _, c := range p.Checks {
			if c.Kind != ir.CheckCorrespondence || seen[c.OpenTag] {
				continue
			}
			seen[c.OpenTag] = true
			max, ok := configured[c.OpenTag]
			if !ok {
				max = cfg.ResolveMaxListLength()
			}
			out = append(out, config.CorrespondenceBound{OpenTag: c.OpenTag, Max: max})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTag < out[j].OpenTag })
	return out
}

func buildTypeInvariant(vars []Variable) string {
	var clauses []string
	for _, v := range vars {
		clauses = append(clauses, fmt.Sprintf("%s \\in %s", v.Name, domainSetText(v.Domain)))
	}
	return strings.Join(clauses, " /\\ ")
}

func buildInit(in *ir.IR, vars []Variable, cfg *config.Config) string {
	var clauses []string
	for _, v := range vars {
		val := initValueText(in, v, cfg)
		clauses = append(clauses, fmt.Sprintf("%s = %s", v.Name, val))
	}
	return strings.Join(clauses, " /\\ ")
}

func initValueText(in *ir.IR, v Variable, cfg *config.Config) string {
	if cfg != nil {
		if override, ok := cfg.Init[v.Name]; ok {
			return translateLit(override)
		}
	}
	switch v.Name {
	case "state":
		return translateLit(in.Initial)
	case "event":
		return "NIL"
	}
	if strings.HasPrefix(v.Name, "corr_") {
		return "0"
	}
	if tr, ok := in.Track(v.Name); ok {
		return translateLit(tr.Default)
	}
	return "NIL"
}

// domainSetText renders a Domain as a TLA+-style set expression.
func domainSetText(d config.Domain) string {
	switch d.Kind {
	case config.DomainRange:
		base := fmt.Sprintf("%d..%d", d.Min, d.Max)
		if d.NilSentinel {
			return fmt.Sprintf("(%s) \\union {NIL}", base)
		}
		return base
	case config.DomainBool:
		if d.NilSentinel {
			return "BOOLEAN \\union {NIL}"
		}
		return "BOOLEAN"
	default:
		parts := make([]string, len(d.Values))
		for i, v := range d.Values {
			parts[i] = translateLit(v)
		}
		if d.NilSentinel {
			parts = append(parts, "NIL")
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
}

// collectConstants gathers every named model value appearing in any
// variable's domain, plus the NIL sentinel when used, per §4.7's
// "collects the set of declared constants (named model values and
// nil)".
func collectConstants(vars []Variable) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, v := range vars {
		if v.Domain.NilSentinel {
			add("NIL")
		}
		if v.Domain.Kind == config.DomainEnum {
			for _, val := range v.Domain.Values {
				if s, ok := val.(string); ok {
					add(s)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

package modelcheck

import (
	"fmt"
	"strings"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir"
)

// Artifacts is §4.7's Emit output: the two text files a model checker
// consumes, plus any non-fatal translation warnings collected along
// the way.
type Artifacts struct {
	ModuleName string
	SpecText   string
	ConfigText string
	Warnings   []Warning
}

// Emit runs BuildStateSpace/BuildActions/BuildProperties over in and
// renders their results as the module spec text and matching
// configuration text, per §4.7. Ordering is made deterministic
// (actions and properties sorted by name, variables in declaration
// order) so repeated emission over an unchanged IR produces
// byte-identical output.
func Emit(in *ir.IR, cfg *config.Config) (*Artifacts, error) {
	ss, err := BuildStateSpace(in, cfg)
	if err != nil {
		return nil, err
	}
	actions, actionWarns, err := BuildActions(in, ss, cfg)
	if err != nil {
		return nil, err
	}
	props, propWarns, err := BuildProperties(in, ss, cfg)
	if err != nil {
		return nil, err
	}

	art := &Artifacts{ModuleName: in.Name}
	art.Warnings = append(art.Warnings, actionWarns...)
	art.Warnings = append(art.Warnings, propWarns...)
	art.SpecText = renderSpec(in, ss, actions, props)
	art.ConfigText = renderConfig(in, ss)
	return art, nil
}

func renderSpec(in *ir.IR, ss *StateSpace, actions []Action, props []PropertyDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---- MODULE %s ----\n", sanitizeModuleName(in.Name))
	fmt.Fprintf(&b, "EXTENDS Integers, Sequences, TLC\n\n")

	if len(ss.Constants) > 0 {
		fmt.Fprintf(&b, "CONSTANTS %s\n\n", strings.Join(ss.Constants, ", "))
	}

	names := make([]string, len(ss.Variables))
	for i, v := range ss.Variables {
		names[i] = v.Name
	}
	fmt.Fprintf(&b, "VARIABLES %s\n\n", strings.Join(names, ", "))

	fmt.Fprintf(&b, "TypeInvariant == %s\n\n", ss.TypeInvariant)
	fmt.Fprintf(&b, "Init == %s\n\n", ss.Init)

	for _, a := range actions {
		fmt.Fprintf(&b, "%s\n\n", a.Text)
	}

	if len(actions) > 0 {
		var names []string
		for _, a := range actions {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, "Next == %s\n\n", strings.Join(names, " \\/ "))
		fmt.Fprintf(&b, "Spec == Init /\\ [][Next]_<<%s>>\n\n", strings.Join(namesOf(ss.Variables), ", "))
	}

	for _, p := range props {
		fmt.Fprintf(&b, "%s\n\n", p.Text)
	}

	fmt.Fprintf(&b, "====\n")
	return b.String()
}

func namesOf(vars []Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}

func renderConfig(in *ir.IR, ss *StateSpace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SPECIFICATION Spec\n")
	fmt.Fprintf(&b, "INVARIANT TypeInvariant\n")
	for _, p := range in.Properties {
		for i, c := range p.Checks {
			name := p.Name
			if len(p.Checks) > 1 {
				name = fmt.Sprintf("%s_%d", p.Name, i+1)
			}
			if c.Kind == ir.CheckAction {
				fmt.Fprintf(&b, "PROPERTY %s\n", name)
				continue
			}
			fmt.Fprintf(&b, "INVARIANT %s\n", name)
		}
	}
	return b.String()
}

// sanitizeModuleName replaces characters a TLA+ module identifier
// can't carry with underscores.
func sanitizeModuleName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '-' || r == ' ' || r == '.' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Accord"
	}
	return b.String()
}

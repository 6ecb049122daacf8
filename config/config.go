// Package config loads the model-checker configuration §4.7/§6
// reference: per-track value domains, initial-value overrides,
// symmetry sets, the list-abstraction bound, and whether a state
// constraint is emitted. It is plain YAML, the same way the teacher
// loads its own Spec/Phase surface (gopkg.in/yaml.v3), since nothing
// about this shape calls for a different format.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DomainKind discriminates how a Domain's Values are interpreted.
type DomainKind int

const (
	// DomainEnum is an explicit, closed list of model values.
	DomainEnum DomainKind = iota
	// DomainRange is an inclusive integer range [Min, Max].
	DomainRange
	// DomainBool is the two-element {true, false} domain.
	DomainBool
)

// Domain is the resolved value space BuildStateSpace widens a track's
// type into, per §4.7 ("its domain is resolved from configuration").
type Domain struct {
	Kind   DomainKind
	Values []interface{} // DomainEnum
	Min    int           // DomainRange
	Max    int           // DomainRange

	// NilSentinel, when true, widens the domain with a distinguished
	// nil value, per §4.7 ("widened with a nil sentinel when the
	// track's default is nil").
	NilSentinel bool
}

// rawDomain is the YAML wire shape for a Domain.
type rawDomain struct {
	Kind   string        `yaml:"kind"`
	Values []interface{} `yaml:"values,omitempty"`
	Min    int           `yaml:"min,omitempty"`
	Max    int           `yaml:"max,omitempty"`
	Nil    bool          `yaml:"nil,omitempty"`
}

func (d *Domain) UnmarshalYAML(value *yaml.Node) error {
	var raw rawDomain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "enum", "":
		d.Kind = DomainEnum
		d.Values = raw.Values
	case "range":
		d.Kind = DomainRange
		d.Min, d.Max = raw.Min, raw.Max
	case "bool":
		d.Kind = DomainBool
	default:
		return fmt.Errorf("config: unknown domain kind %q", raw.Kind)
	}
	d.NilSentinel = raw.Nil
	return nil
}

func (d Domain) MarshalYAML() (interface{}, error) {
	raw := rawDomain{Nil: d.NilSentinel}
	switch d.Kind {
	case DomainRange:
		raw.Kind, raw.Min, raw.Max = "range", d.Min, d.Max
	case DomainBool:
		raw.Kind = "bool"
	default:
		raw.Kind, raw.Values = "enum", d.Values
	}
	return raw, nil
}

// Enumerate lists the domain's concrete members (expanding a range
// to its integers), appending a nil sentinel last when configured.
func (d Domain) Enumerate() []interface{} {
	var out []interface{}
	switch d.Kind {
	case DomainRange:
		for v := d.Min; v <= d.Max; v++ {
			out = append(out, v)
		}
	case DomainBool:
		out = append(out, false, true)
	default:
		out = append(out, d.Values...)
	}
	if d.NilSentinel {
		out = append(out, nil)
	}
	return out
}

// CorrespondenceBound configures a correspondence check's counter
// domain `[0..K]`, per §4.7's "BuildStateSpace" note.
type CorrespondenceBound struct {
	OpenTag string `yaml:"open_tag"`
	Max     int    `yaml:"max"`
}

// Config is the model-checker configuration artifact: everything
// BuildStateSpace/BuildActions/Emit need that isn't already in the IR
// itself — value domains, bounds, and presentation toggles.
type Config struct {
	// SpecificationName overrides the emitted module name; defaults
	// to the IR's own Name if empty.
	SpecificationName string `yaml:"specification_name,omitempty"`

	// Domains maps a track/parameter name, or a primitive type name
	// such as "signed_int", to its resolved Domain. A name with no
	// entry here falls back to a type-derived built-in default domain
	// (see ResolveDomain: booleans -> DomainBool, integer kinds -> a
	// small fixed range, symbols/strings -> anonymous model values).
	Domains map[string]Domain `yaml:"domains,omitempty"`

	// Init overrides a track's Init-predicate value away from its IR
	// default, e.g. to start a model run from a specific point in
	// the domain instead of the protocol's own initial value.
	Init map[string]interface{} `yaml:"init,omitempty"`

	// SymmetrySets groups model values that can be treated
	// interchangeably by a model checker's symmetry reduction.
	SymmetrySets [][]interface{} `yaml:"symmetry_sets,omitempty"`

	// MaxListLength bounds the abstracted length of any list-typed
	// message/reply parameter (§4.7's existential quantification
	// note). Zero means unset; ResolveMaxListLength then returns
	// DefaultMaxListLength.
	MaxListLength int `yaml:"max_list_length,omitempty"`

	// StateConstraint toggles whether Emit includes a state
	// constraint clause bounding exploration to the declared domains
	// (useful for infinite or very large configurations).
	StateConstraint bool `yaml:"state_constraint,omitempty"`

	// Correspondences configures each correspondence check's counter
	// bound by open tag.
	Correspondences []CorrespondenceBound `yaml:"correspondences,omitempty"`

	// Constants lists named model values the emitted configuration
	// file should declare (§4.7's "constant declarations for model
	// values").
	Constants map[string]interface{} `yaml:"constants,omitempty"`
}

// Load reads a single YAML configuration file.
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &c, nil
}

// LoadLayered loads a project-wide config and an optional
// per-protocol override, merging the latter over the former. A
// protocol path of "" skips the override and returns the project
// config alone. A per-protocol scalar wins when it is set (non-empty,
// non-zero, or true; a false StateConstraint cannot switch the
// project's true off). Maps are merged key-wise (protocol entries
// shadow project entries with the same key; project-only entries are
// kept). Slices are not merged: a non-empty protocol slice replaces
// the project's slice whole.
func LoadLayered(projectPath, protocolPath string) (*Config, error) {
	project, err := Load(projectPath)
	if err != nil {
		return nil, err
	}
	if protocolPath == "" {
		return project, nil
	}
	override, err := Load(protocolPath)
	if err != nil {
		return nil, err
	}
	return mergeConfigs(project, override), nil
}

func mergeConfigs(base, over *Config) *Config {
	out := *base

	if over.SpecificationName != "" {
		out.SpecificationName = over.SpecificationName
	}
	if over.MaxListLength != 0 {
		out.MaxListLength = over.MaxListLength
	}
	if over.StateConstraint {
		out.StateConstraint = over.StateConstraint
	}

	out.Domains = mergeDomainMaps(base.Domains, over.Domains)
	out.Init = mergeValueMaps(base.Init, over.Init)
	out.Constants = mergeValueMaps(base.Constants, over.Constants)

	if len(over.SymmetrySets) > 0 {
		out.SymmetrySets = over.SymmetrySets
	}
	if len(over.Correspondences) > 0 {
		out.Correspondences = over.Correspondences
	}
	return &out
}

func mergeDomainMaps(base, over map[string]Domain) map[string]Domain {
	out := make(map[string]Domain, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeValueMaps(base, over map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

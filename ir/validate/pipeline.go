package validate

import "github.com/accord-lang/accord/ir"

// Pass is one stage of the fixed validation sequence from §2/§4.3: a
// pure function IR -> (possibly modified IR, Reports).
type Pass func(*ir.IR) (*ir.IR, Reports)

// DefaultPipeline is the fixed sequence from §2's diagram:
// RefineSpans, then Structure/Types/Determinism/Reachability/
// Properties, then ResolveFieldPaths.
var DefaultPipeline = []Pass{
	RefineSpans,
	ValidateStructure,
	ValidateTypes,
	ValidateDeterminism,
	ValidateReachability,
	ValidateProperties,
	ResolveFieldPaths,
}

// Result is the outcome of running a pipeline to completion (or to
// the first pass that produced errors).
type Result struct {
	IR       *ir.IR
	Reports  Reports // collected across every pass actually run
	FailedAt string  // pass index description, if stopped early ("" if the whole pipeline ran)
}

// Run executes passes in order against in. Per §7, "Specification
// errors collect as a list within a single pass before terminating so
// operators see all issues at once" — so a pass always runs to
// completion and contributes every Report it finds; only the *next*
// pass is skipped once a pass returns an error. Warnings never stop
// the pipeline.
func Run(in *ir.IR, passes []Pass) Result {
	cur := in
	var all Reports
	for i, pass := range passes {
		next, reports := pass(cur)
		all = append(all, reports...)
		cur = next
		if reports.HasErrors() {
			return Result{IR: cur, Reports: all, FailedAt: passName(i)}
		}
	}
	return Result{IR: cur, Reports: all}
}

// RunDefault runs DefaultPipeline.
func RunDefault(in *ir.IR) Result {
	return Run(in, DefaultPipeline)
}

// OK reports whether the pipeline completed without errors (it may
// still have warnings).
func (r Result) OK() bool {
	return !r.Reports.HasErrors()
}

var passNames = []string{
	"RefineSpans",
	"ValidateStructure",
	"ValidateTypes",
	"ValidateDeterminism",
	"ValidateReachability",
	"ValidateProperties",
	"ResolveFieldPaths",
}

func passName(i int) string {
	if i < 0 || i >= len(passNames) {
		return "<unknown pass>"
	}
	return passNames[i]
}

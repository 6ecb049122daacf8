// Package validate implements the fixed sequence of validation passes
// from §4.3: each is a pure function IR -> Result<IR, []Report>.
// Errors from one pass stop the pipeline (§7: "Fail the build; emit a
// diagnostic with source spans; no partial products"); warnings
// don't.
package validate

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// Severity distinguishes build-stopping errors from advisory
// warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Label is a span plus a short explanation, attached to a Report as
// either its primary point of interest or supporting context.
type Label struct {
	Span    ir.Span
	Message string
}

// Report is one diagnostic produced by a validation pass: a stable
// code, severity, human message, a primary label, zero or more
// secondary labels, and optional help text.
type Report struct {
	Code      string
	Severity  Severity
	Message   string
	Primary   Label
	Secondary []Label
	Help      string
}

func (r Report) String() string {
	s := fmt.Sprintf("%s[%s]: %s (%s)", r.Severity, r.Code, r.Message, r.Primary.Span)
	if r.Help != "" {
		s += "\n  help: " + r.Help
	}
	return s
}

// IsError reports whether r should stop the pipeline.
func (r Report) IsError() bool { return r.Severity == SeverityError }

// Reports is a list of diagnostics with convenience filters.
type Reports []Report

// HasErrors reports whether any Report in rs is an error.
func (rs Reports) HasErrors() bool {
	for _, r := range rs {
		if r.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity reports.
func (rs Reports) Errors() Reports {
	var out Reports
	for _, r := range rs {
		if r.IsError() {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns only the warning-severity reports.
func (rs Reports) Warnings() Reports {
	var out Reports
	for _, r := range rs {
		if !r.IsError() {
			out = append(out, r)
		}
	}
	return out
}

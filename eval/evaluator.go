/*
 * Copyright 2021 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package eval implements the runtime half of the dual
// source/evaluator representation §9 calls for: a Predicate or
// Updater carries both a compilable source form (for the
// model-checker back-end) and an Evaluator (for the monitor).
//
// Evaluator is a closed sum: Native wraps a Go closure built by the
// front-end (or generated by an adjunct build step); Interpreted
// compiles and runs JS source through github.com/dop251/goja. Both
// satisfy the synchronous, non-blocking contract §5 requires of
// guards/updates/property checks.
package eval

import (
	"fmt"

	"github.com/dop251/goja"
)

// Kind discriminates the Evaluator sum.
type Kind int

const (
	KindNative Kind = iota
	KindInterpreted
)

// Evaluator evaluates a predicate or updater body against a binding
// environment (a map from declared free variable name to value) and
// returns either a bool (predicates) or a map (updaters).
//
// Exactly one of fn/program is set, selected by kind.
type Evaluator struct {
	kind    Kind
	fn      func(env map[string]interface{}) (interface{}, error)
	program *goja.Program
	source  string
}

// Native wraps a Go closure as an Evaluator.
func Native(fn func(env map[string]interface{}) (interface{}, error)) Evaluator {
	return Evaluator{kind: KindNative, fn: fn}
}

// Interpreted compiles JS source into an Evaluator. The source is
// a function body that 'return's its result (a bare expression with
// no 'return' evaluates to undefined); it is wrapped in an anonymous
// function so
// that goja.Program.RunProgram, applied with the environment bound as
// globals, evaluates it as a call.
func Interpreted(source string) (Evaluator, error) {
	wrapped := "(function(){\n" + source + "\n})()"
	prog, err := goja.Compile("<predicate>", wrapped, true)
	if err != nil {
		return Evaluator{}, fmt.Errorf("compiling predicate/updater source: %w", err)
	}
	return Evaluator{kind: KindInterpreted, program: prog, source: source}, nil
}

// MustInterpreted panics if source fails to compile; useful for
// building fixtures in tests.
func MustInterpreted(source string) Evaluator {
	e, err := Interpreted(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Kind reports which arm of the sum e is.
func (e Evaluator) Kind() Kind { return e.kind }

// Source returns the JS source for an Interpreted evaluator, or ""
// for a Native one.
func (e Evaluator) Source() string { return e.source }

// IsZero reports whether e was never assigned (a predicate/updater
// with no evaluator at all, which the front-end must not produce, but
// which the monitor should fail loudly on rather than panic).
func (e Evaluator) IsZero() bool {
	return e.fn == nil && e.program == nil
}

// Eval runs the evaluator against env. Native evaluators call fn
// directly. Interpreted evaluators run in a fresh, restricted goja VM
// per call: no globals beyond env and the standard JS built-ins are
// exposed, there is no timer or I/O access, so evaluation is synchronous by construction, as §5
// requires.
func (e Evaluator) Eval(env map[string]interface{}) (interface{}, error) {
	switch e.kind {
	case KindNative:
		if e.fn == nil {
			return nil, fmt.Errorf("eval: nil Native evaluator")
		}
		return e.fn(env)
	case KindInterpreted:
		return e.evalJS(env)
	default:
		return nil, fmt.Errorf("eval: unknown evaluator kind %d", e.kind)
	}
}

func (e Evaluator) evalJS(env map[string]interface{}) (interface{}, error) {
	if e.program == nil {
		return nil, fmt.Errorf("eval: nil Interpreted evaluator")
	}
	vm := goja.New()
	for k, v := range env {
		if err := vm.Set(k, v); err != nil {
			return nil, fmt.Errorf("binding %q into JS environment: %w", k, err)
		}
	}
	v, err := vm.RunProgram(e.program)
	if err != nil {
		return nil, fmt.Errorf("evaluating predicate/updater: %w", err)
	}
	return v.Export(), nil
}

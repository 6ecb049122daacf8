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

// Package actx provides the logging context threaded through the
// front-end, monitor, and model-checker back-end.
package actx

import (
	"context"
	"log"
	"os"
)

// Ctx wraps a context.Context with a logger and a debug switch.
//
// Every package that does I/O or makes a decision an operator should
// be able to see (transition commits, transport opens/closes, spec
// emission) takes a *Ctx and logs through it rather than reaching for
// the log package directly.
type Ctx struct {
	context.Context
	logger *log.Logger
	debug  bool
	name   string
}

// NewCtx wraps the given context.Context (or context.Background() if
// nil) with a default logger writing to stderr.
func NewCtx(parent context.Context) *Ctx {
	if parent == nil {
		parent = context.Background()
	}
	return &Ctx{
		Context: parent,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
	}
}

// WithName returns a Ctx that prefixes log lines with name (e.g. a
// session id), preserving the underlying logger and debug switch.
func (c *Ctx) WithName(name string) *Ctx {
	return &Ctx{
		Context: c.Context,
		logger:  c.logger,
		debug:   c.debug,
		name:    name,
	}
}

// WithDebug returns a Ctx with debug logging toggled.
func (c *Ctx) WithDebug(debug bool) *Ctx {
	return &Ctx{
		Context: c.Context,
		logger:  c.logger,
		debug:   debug,
		name:    c.name,
	}
}

// WithContext returns a Ctx that shares this Ctx's logger/debug
// setting but wraps a different context.Context (e.g. one with a
// deadline attached for a single forward()).
func (c *Ctx) WithContext(parent context.Context) *Ctx {
	return &Ctx{
		Context: parent,
		logger:  c.logger,
		debug:   c.debug,
		name:    c.name,
	}
}

func (c *Ctx) prefix() string {
	if c.name == "" {
		return ""
	}
	return "[" + c.name + "] "
}

// Logf logs unconditionally.
func (c *Ctx) Logf(format string, args ...interface{}) {
	c.logger.Printf(c.prefix()+format, args...)
}

// Logdf logs only when debug is enabled.
func (c *Ctx) Logdf(format string, args ...interface{}) {
	if !c.debug {
		return
	}
	c.logger.Printf(c.prefix()+"debug: "+format, args...)
}

// Errf logs an error-level line. Errors are still returned by the
// caller; this only records that one occurred.
func (c *Ctx) Errf(format string, args ...interface{}) {
	c.logger.Printf(c.prefix()+"error: "+format, args...)
}

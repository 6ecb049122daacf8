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

// Package transport implements §6's upstream interface: "a
// synchronous request/reply with a deadline, and a fire-and-forget
// send. Any transport satisfying these suffices." Upstream narrows
// the teacher's Chan interface (Open/Close/Pub/Sub/Recv/Kill/To, see
// chans/httpclient.go) to exactly those two primitives, since a
// monitor never subscribes to a topic or gets killed out of band.
package transport

import (
	"context"
	"errors"

	"github.com/accord-lang/accord/internal/actx"
)

// ErrUnavailable wraps a transport-level failure (connection
// refused, broken pipe, DNS failure) that is distinguishable from a
// bare deadline expiry. The monitor uses this to decide whether a
// timeout Violation's context carries "cause": "upstream_unavailable"
// instead of "deadline" (SPEC_FULL.md §D.5).
var ErrUnavailable = errors.New("transport: upstream unavailable")

// Upstream is what a monitor forwards messages to.
type Upstream interface {
	// Call sends msg and blocks for a reply until ctx is done. A
	// ctx deadline expiring surfaces as context.DeadlineExceeded (or
	// context.Canceled); anything wrapping ErrUnavailable is a
	// transport failure distinct from a deadline.
	Call(ctx *actx.Ctx, msg interface{}) (interface{}, error)

	// Cast is fire-and-forget: it returns once the message is handed
	// to the transport, without waiting for any acknowledgement.
	Cast(ctx *actx.Ctx, msg interface{}) error
}

// WithDeadline is a small helper transports can use to turn
// call_timeout_ms into a context.Context deadline consistently.
func WithDeadline(parent context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	if timeoutMs <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, msDuration(timeoutMs))
}

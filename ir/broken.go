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

package ir

import (
	"errors"
	"fmt"
)

// Broken marks an error as an internal invariant failure rather than
// an ordinary, recoverable one. Per §4.6e, monitor-internal panics
// (bugs) are unrecoverable and sessions are restarted by external
// supervision; Broken is how that distinction is carried as a value
// instead of an actual panic, so callers that want to can still
// recover gracefully (logging, metrics) before the session is torn
// down.
type Broken struct {
	err error
}

func (b *Broken) Error() string {
	return b.err.Error()
}

func (b *Broken) Unwrap() error {
	return b.err
}

// NewBroken wraps err as a Broken error.
func NewBroken(err error) error {
	if err == nil {
		return nil
	}
	return &Broken{err: err}
}

// Brokenf formats a Broken error.
func Brokenf(format string, args ...interface{}) error {
	return &Broken{err: fmt.Errorf(format, args...)}
}

// IsBroken reports whether err (or something it wraps) is Broken.
func IsBroken(err error) (*Broken, bool) {
	var b *Broken
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}

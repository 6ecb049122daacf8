// Package monitor implements §4.6: the runtime interposer that sits
// between client and server, enforcing a validated IR's state
// machine and properties against the live traffic of one session.
// One Session is one single-threaded cooperative actor per §4.6's
// "Lifecycle and scheduling" — callers serialize their own access
// (typically by running a Session on its own goroutine and feeding it
// from a channel); the Session itself does not spawn goroutines or
// take any lock, mirroring the teacher's own single-threaded Sheens
// machine model.
package monitor

import (
	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/ir"
	"github.com/accord-lang/accord/transport"
)

// terminatedState is a reserved state name that Terminated treats as
// terminal. Call and Cast never set it themselves: a Session that
// reaches one of the IR's own terminal states keeps that state's name.
// It is never a key in compile.Table, so a lookup against it always
// misses, matching §4.6a step 1's terminal check.
const terminatedState = "TERMINATED"

// Session is one monitor instance: the state owned exclusively by it
// (current_state, tracks, correspondence counters), plus what it was
// built with (the validated IR, the flattened dispatch table, the
// upstream it forwards to, and its frozen violation Policy).
type Session struct {
	IR       *ir.IR
	Table    *compile.Table
	Upstream transport.Upstream
	Policy   Policy

	// CallTimeoutMs bounds how long Call forwarding waits for an
	// upstream reply before treating it as a timeout (§4.6a step 6).
	// Zero means no deadline is imposed beyond ctx's own.
	CallTimeoutMs int

	CurrentState string
	Tracks       map[string]interface{}

	// Correspondence holds the per-open-tag counters of §4.6c; Underflow
	// counts times a close would have driven a counter negative (the
	// floor-at-zero case), a non-violation diagnostic surfaced to
	// callers but never itself policy-fired.
	Correspondence map[string]int
	Underflow      map[string]int

	terminated bool
}

// NewSession builds a Session at in.Initial with tracks set to their
// declared defaults (compile.BuildTrackInit), ready to accept its
// first message.
func NewSession(in *ir.IR, table *compile.Table, upstream transport.Upstream, policy Policy) *Session {
	return &Session{
		IR:             in,
		Table:          table,
		Upstream:       upstream,
		Policy:         policy,
		CurrentState:   in.Initial,
		Tracks:         compile.BuildTrackInit(in),
		Correspondence: map[string]int{},
		Underflow:      map[string]int{},
	}
}

// Terminated reports whether the session has reached a terminal
// state (or was crashed by its Policy), and will no longer dispatch.
func (s *Session) Terminated() bool {
	return s.terminated || s.CurrentState == terminatedState || s.Table.IsTerminal(s.CurrentState)
}

func (s *Session) snapshotTracks() map[string]interface{} {
	out := make(map[string]interface{}, len(s.Tracks))
	for k, v := range s.Tracks {
		out[k] = v
	}
	return out
}

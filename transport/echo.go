package transport

import (
	"github.com/accord-lang/accord/internal/actx"
	eliza "github.com/kennysong/goeliza"
)

// EchoUpstream is a trivial in-process upstream for examples and
// tests, grounded on the teacher's chans/eliza demo Chan: rather than
// talking to a live server, it runs the message payload through
// goeliza's canned-reply engine when the payload is a string, and
// otherwise echoes the message back unchanged. This is enough to
// drive the monitor pipeline end to end without any real I/O.
type EchoUpstream struct {
	// Canned, when non-nil, maps an exact message to a canned reply,
	// consulted before falling back to the Eliza/echo behavior.
	Canned map[interface{}]interface{}
}

// NewEchoUpstream returns an EchoUpstream with no canned replies.
func NewEchoUpstream() *EchoUpstream {
	return &EchoUpstream{Canned: map[interface{}]interface{}{}}
}

func (e *EchoUpstream) reply(ctx *actx.Ctx, msg interface{}) interface{} {
	if r, ok := e.Canned[msg]; ok {
		return r
	}
	if s, is := msg.(string); is {
		ctx.Logdf("EchoUpstream: eliza reply to %q", s)
		return eliza.ReplyTo(s)
	}
	return msg
}

// Call implements Upstream.
func (e *EchoUpstream) Call(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return e.reply(ctx, msg), nil
}

// Cast implements Upstream; EchoUpstream has nothing to forward the
// reply to, so Cast just logs it.
func (e *EchoUpstream) Cast(ctx *actx.Ctx, msg interface{}) error {
	ctx.Logdf("EchoUpstream: cast %v", msg)
	return nil
}

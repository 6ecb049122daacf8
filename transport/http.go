package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/accord-lang/accord/internal/actx"
)

// HTTPUpstream is a plain net/http request/reply transport, grounded
// directly on the teacher's chans/httpclient.go: a string message is
// sent as-is and any other message is JSON-marshaled as the request
// body, POSTed to URL, and the
// response body is JSON-unmarshaled (falling back to the raw string)
// as the reply.
type HTTPUpstream struct {
	URL    string
	Client *http.Client
}

// NewHTTPUpstream builds an HTTPUpstream against url with a fresh
// http.Client, mirroring HTTPClient.Open in the teacher.
func NewHTTPUpstream(url string) *HTTPUpstream {
	return &HTTPUpstream{URL: url, Client: &http.Client{}}
}

func (h *HTTPUpstream) encode(msg interface{}) (io.Reader, error) {
	if s, is := msg.(string); is {
		return bytes.NewReader([]byte(s)), nil
	}
	bs, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshaling message payload: %w", err)
	}
	return bytes.NewReader(bs), nil
}

func (h *HTTPUpstream) do(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	body, err := h.encode(msg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	ctx.Logdf("HTTPUpstream POST %s", h.URL)
	resp, err := h.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUnavailable, err)
	}

	var x interface{}
	if len(bs) > 0 {
		if err := json.Unmarshal(bs, &x); err != nil {
			x = string(bs)
		}
	}
	return x, nil
}

// Call implements Upstream.
func (h *HTTPUpstream) Call(ctx *actx.Ctx, msg interface{}) (interface{}, error) {
	return h.do(ctx, msg)
}

// Cast implements Upstream; the response (if any) is discarded.
func (h *HTTPUpstream) Cast(ctx *actx.Ctx, msg interface{}) error {
	_, err := h.do(ctx, msg)
	return err
}

package edgeauth

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/joeydtaylor/steeze-edge/pkg/codec"
)

// HeaderEntry is one value of an edge header, keyed by its original casing.
type HeaderEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Headers maps lower-case header names to their values.
type Headers map[string][]HeaderEntry

// Get returns the first value of name, or "".
func (h Headers) Get(name string) string {
	if vs := h[strings.ToLower(name)]; len(vs) > 0 {
		return vs[0].Value
	}
	return ""
}

// Values returns every value of name in order.
func (h Headers) Values(name string) []string {
	vs := h[strings.ToLower(name)]
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Value)
	}
	return out
}

// Request is an inbound viewer request. The gate only reads URI and the
// cookie header; when the request was decoded from an event, the original
// bytes are kept and re-emitted on Forward.
type Request struct {
	URI     string  `json:"uri"`
	Headers Headers `json:"headers"`

	raw json.RawMessage
}

// NewRequest builds a request for uri carrying the given cookie header values.
func NewRequest(uri string, cookies ...string) *Request {
	r := &Request{URI: uri, Headers: Headers{}}
	for _, c := range cookies {
		r.Headers["cookie"] = append(r.Headers["cookie"], HeaderEntry{Key: "Cookie", Value: c})
	}
	return r
}

// Cookies returns the raw cookie header values.
func (r *Request) Cookies() []string {
	if r == nil {
		return nil
	}
	return r.Headers.Values("cookie")
}

// Raw returns the bytes the request was decoded from, or nil.
func (r *Request) Raw() json.RawMessage { return r.raw }

func (r *Request) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	if r.raw != nil {
		return r.raw, nil
	}
	type plain Request
	return codec.JSON.Marshal((*plain)(r))
}

// ParseEvent decodes a viewer-request event. Both the full
// {"Records":[{"cf":{"request":...}}]} envelope and a bare request are
// accepted.
func ParseEvent(b []byte) (*Request, error) {
	var env struct {
		Records []struct {
			CF struct {
				Request json.RawMessage `json:"request"`
			} `json:"cf"`
		} `json:"Records"`
	}
	if err := codec.JSON.Unmarshal(b, &env); err != nil {
		return nil, wrapMalformed(err)
	}

	raw := json.RawMessage(b)
	if env.Records != nil {
		if len(env.Records) == 0 || len(env.Records[0].CF.Request) == 0 {
			return nil, wrapMalformed(errNoRequest)
		}
		raw = env.Records[0].CF.Request
	}

	var req Request
	type plain Request
	if err := codec.JSON.Unmarshal(raw, (*plain)(&req)); err != nil {
		return nil, wrapMalformed(err)
	}
	if req.URI == "" {
		return nil, wrapMalformed(errNoURI)
	}
	req.raw = append(json.RawMessage(nil), raw...)
	return &req, nil
}

// Response is a generated edge response.
type Response struct {
	Status            string  `json:"status"`
	StatusDescription string  `json:"statusDescription"`
	Headers           Headers `json:"headers"`
}

// StatusCode returns Status as an int, or 0 when it is not numeric.
func (r *Response) StatusCode() int {
	n, _ := strconv.Atoi(r.Status)
	return n
}

// Action is the gate's verdict.
type Action int

const (
	Forward Action = iota
	Redirect
)

func (a Action) String() string {
	switch a {
	case Forward:
		return "forward"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of one invocation. Exactly one of Request (Forward)
// or Response (Redirect) is set.
type Decision struct {
	Action   Action
	Request  *Request
	Response *Response
	// Reason is for logs and metrics only; it never reaches the caller.
	Reason string
}

func forward(req *Request, reason string) *Decision {
	return &Decision{Action: Forward, Request: req, Reason: reason}
}

func redirect(res *Response, reason string) *Decision {
	return &Decision{Action: Redirect, Response: res, Reason: reason}
}

// MarshalJSON emits the forwarded request or the redirect response.
func (d *Decision) MarshalJSON() ([]byte, error) {
	if d.Action == Redirect {
		return codec.JSON.Marshal(d.Response)
	}
	return d.Request.MarshalJSON()
}

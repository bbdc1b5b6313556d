package http

import (
	"bytes"
	"fmt"

	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/proto"
	"github.com/indigo-web/tinyhttp/http/status"
)

// StatusLine is the first line of a response. Its reason phrase is always derived from
// the code.
type StatusLine struct {
	Proto proto.Proto
	Code  status.Code
}

// NewStatusLine returns a status line of the default protocol version. Codes outside
// of the supported set are rejected with status.ErrUnsupportedStatusCode.
func NewStatusLine(code status.Code) (StatusLine, error) {
	if !status.Supported(code) {
		return StatusLine{}, status.ErrUnsupportedStatusCode
	}

	return StatusLine{
		Proto: proto.Default,
		Code:  code,
	}, nil
}

func (s StatusLine) Reason() status.Status {
	return status.Text(s.Code)
}

func (s StatusLine) String() string {
	return fmt.Sprintf("%s %d %s", s.Proto, s.Code, s.Reason())
}

// Response is an immutable, validated response. Programmatically it's built via
// ResponseBuilder, otherwise it's parsed off the wire.
type Response struct {
	line    StatusLine
	headers headers.Headers
	body    []byte
}

// NewResponse validates the parts and assembles a response out of them.
func NewResponse(line StatusLine, hdrs headers.Headers, body []byte) (*Response, error) {
	if line.Proto == proto.Unknown {
		return nil, status.ErrUnsupportedVersion
	}

	if !status.Supported(line.Code) {
		return nil, status.ErrUnsupportedStatusCode
	}

	if value, found := hdrs.Get("Content-Length"); found {
		length, err := ContentLength(value)
		if err != nil {
			return nil, fmt.Errorf("%w: bad Content-Length", status.ErrMalformedResponse)
		}

		if length != len(body) {
			return nil, fmt.Errorf(
				"%w: Content-Length is %d, got %d bytes of body",
				status.ErrMalformedResponse, length, len(body),
			)
		}
	} else if len(body) > 0 {
		return nil, fmt.Errorf("%w: body without Content-Length", status.ErrMalformedResponse)
	}

	return &Response{
		line:    line,
		headers: hdrs,
		body:    body,
	}, nil
}

func (r *Response) Line() StatusLine {
	return r.line
}

func (r *Response) Code() status.Code {
	return r.line.Code
}

func (r *Response) Headers() headers.Headers {
	return r.headers
}

// Body returns the response body. The returned slice must not be modified.
func (r *Response) Body() []byte {
	return r.body
}

// WithHeader returns a copy of the response with the header field set. The body is
// shared between both.
func (r *Response) WithHeader(key, value string) (*Response, error) {
	hdrs := headers.NewPreallocBuilder(r.headers.Len() + 1)
	for k, v := range r.headers.Iter() {
		if err := hdrs.Add(k, v); err != nil {
			return nil, err
		}
	}

	if err := hdrs.Set(key, value); err != nil {
		return nil, err
	}

	return &Response{
		line:    r.line,
		headers: hdrs.Build(),
		body:    r.body,
	}, nil
}

// Equal compares responses field-wise.
func (r *Response) Equal(other *Response) bool {
	return r.line == other.line &&
		r.headers.Equal(other.headers) &&
		bytes.Equal(r.body, other.body)
}

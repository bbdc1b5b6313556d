package http

import (
	"bytes"
	"fmt"
	"iter"
	"strconv"

	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/http/proto"
	"github.com/indigo-web/tinyhttp/http/status"
)

// RequestLine is the first line of a request.
type RequestLine struct {
	Method method.Method
	// Path is the request target as it came: an absolute path with an optional query.
	Path  string
	Proto proto.Proto
}

func (r RequestLine) String() string {
	return r.Method.String() + " " + r.Path + " " + r.Proto.String()
}

// Request is an immutable, validated request. It's produced either by RequestBuilder
// or by parsing the wire representation, hence there is no way to obtain an invalid one.
type Request struct {
	line    RequestLine
	headers headers.Headers
	body    []byte
}

// NewRequest validates the parts and assembles a request out of them.
func NewRequest(line RequestLine, hdrs headers.Headers, body []byte) (*Request, error) {
	if line.Method == method.Unknown {
		return nil, status.ErrMethodNotAllowed
	}

	if !ValidPath(line.Path) {
		return nil, status.ErrMalformedRequestLine
	}

	if line.Proto == proto.Unknown {
		return nil, status.ErrUnsupportedVersion
	}

	if err := validateRequestBody(line.Method, hdrs, body); err != nil {
		return nil, err
	}

	return &Request{
		line:    line,
		headers: hdrs,
		body:    body,
	}, nil
}

// validateRequestBody: GET must be bodiless, POST must carry a body whose length agrees
// with Content-Length.
func validateRequestBody(m method.Method, hdrs headers.Headers, body []byte) error {
	switch m {
	case method.GET:
		if len(body) > 0 {
			return fmt.Errorf("%w: GET request must have no body", status.ErrMalformedRequest)
		}

		if value, found := hdrs.Get("Content-Length"); found {
			if length, err := ContentLength(value); err != nil || length != 0 {
				return fmt.Errorf("%w: bad Content-Length", status.ErrMalformedRequest)
			}
		}
	case method.POST:
		value, found := hdrs.Get("Content-Length")
		if !found {
			return fmt.Errorf("%w: POST request must have Content-Length", status.ErrMalformedRequest)
		}

		length, err := ContentLength(value)
		if err != nil {
			return fmt.Errorf("%w: bad Content-Length", status.ErrMalformedRequest)
		}

		if len(body) == 0 {
			return fmt.Errorf("%w: POST request must have a body", status.ErrMalformedRequest)
		}

		if length != len(body) {
			return fmt.Errorf(
				"%w: Content-Length is %d, got %d bytes of body",
				status.ErrMalformedRequest, length, len(body),
			)
		}
	}

	return nil
}

// ContentLength parses the header value. Only plain non-negative decimals are accepted.
func ContentLength(value string) (int, error) {
	if len(value) == 0 {
		return 0, strconv.ErrSyntax
	}

	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.Atoi(value)
}

func (r *Request) Line() RequestLine {
	return r.line
}

func (r *Request) Method() method.Method {
	return r.line.Method
}

// Path returns the request target including the query.
func (r *Request) Path() string {
	return r.line.Path
}

// Route returns the request path without the query.
func (r *Request) Route() string {
	path, _ := SplitPath(r.line.Path)
	return path
}

// Query iterates over the query parameters.
func (r *Request) Query() iter.Seq2[string, string] {
	_, query := SplitPath(r.line.Path)
	return WalkQuery(query)
}

func (r *Request) Proto() proto.Proto {
	return r.line.Proto
}

func (r *Request) Headers() headers.Headers {
	return r.headers
}

// Body returns the request body. The returned slice must not be modified.
func (r *Request) Body() []byte {
	return r.body
}

// Equal compares requests field-wise.
func (r *Request) Equal(other *Request) bool {
	return r.line == other.line &&
		r.headers.Equal(other.headers) &&
		bytes.Equal(r.body, other.body)
}

package http

import (
	"strconv"

	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/http/mime"
	"github.com/indigo-web/tinyhttp/http/proto"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// RequestBuilder constructs requests programmatically. Errors are deferred: the first one
// occurred is returned by Build.
type RequestBuilder struct {
	line    RequestLine
	headers *headers.Builder
	body    []byte
	err     error
}

func NewRequestBuilder(m method.Method, path string) *RequestBuilder {
	return &RequestBuilder{
		line: RequestLine{
			Method: m,
			Path:   path,
			Proto:  proto.Default,
		},
		headers: headers.NewBuilder(),
	}
}

// Get is a shortcut for NewRequestBuilder(method.GET, path)
func Get(path string) *RequestBuilder {
	return NewRequestBuilder(method.GET, path)
}

// Post is a shortcut for NewRequestBuilder(method.POST, path)
func Post(path string) *RequestBuilder {
	return NewRequestBuilder(method.POST, path)
}

func (r *RequestBuilder) Header(key, value string) *RequestBuilder {
	if r.err == nil {
		r.err = r.headers.Add(key, value)
	}

	return r
}

// Body sets the request body WITHOUT COPYING. Content-Length is set implicitly on Build.
func (r *RequestBuilder) Body(body []byte) *RequestBuilder {
	r.body = body
	return r
}

func (r *RequestBuilder) String(body string) *RequestBuilder {
	return r.Body(uf.S2B(body))
}

func (r *RequestBuilder) Build() (*Request, error) {
	if r.err != nil {
		return nil, r.err
	}

	if len(r.body) > 0 {
		if err := r.headers.Set("Content-Length", strconv.Itoa(len(r.body))); err != nil {
			return nil, err
		}
	}

	return NewRequest(r.line, r.headers.Build(), r.body)
}

// ResponseBuilder constructs responses programmatically. It's the mutable counterpart of
// Response: it can be changed freely until Build is called. Errors are deferred until Build.
type ResponseBuilder struct {
	code        status.Code
	contentType mime.MIME
	headers     *headers.Builder
	body        []byte
	err         error
}

// NewResponseBuilder returns a builder with status code set to 200 OK.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{
		code:    status.OK,
		headers: headers.NewPreallocBuilder(5),
	}
}

// Respond is a shortcut for NewResponseBuilder().Code(code)
func Respond(code status.Code) *ResponseBuilder {
	return NewResponseBuilder().Code(code)
}

func (r *ResponseBuilder) Code(code status.Code) *ResponseBuilder {
	r.code = code
	return r
}

// ContentType sets the Content-Type header value.
func (r *ResponseBuilder) ContentType(value mime.MIME) *ResponseBuilder {
	r.contentType = value
	return r
}

// Header sets a header value. In case it already exists, the value will be overridden.
func (r *ResponseBuilder) Header(key, value string) *ResponseBuilder {
	if r.err == nil {
		r.err = r.headers.Set(key, value)
	}

	return r
}

// String sets the response's body to the passed string
func (r *ResponseBuilder) String(body string) *ResponseBuilder {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *ResponseBuilder) Bytes(body []byte) *ResponseBuilder {
	r.body = body
	return r
}

// JSON serializes the model into the body and sets the content type correspondingly.
func (r *ResponseBuilder) JSON(model any) *ResponseBuilder {
	body, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		if r.err == nil {
			r.err = err
		}

		return r
	}

	return r.ContentType(mime.JSON).Bytes(body)
}

// Build freezes the response. Content-Type goes first and Content-Length is derived from
// the body, except for 304 Not Modified, which never has one.
func (r *ResponseBuilder) Build() (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	line, err := NewStatusLine(r.code)
	if err != nil {
		return nil, err
	}

	hdrs := headers.NewPreallocBuilder(2 + r.headers.Build().Len())
	if len(r.contentType) > 0 {
		if err = hdrs.Add("Content-Type", r.contentType); err != nil {
			return nil, err
		}
	}

	if r.code != status.NotModified {
		if err = hdrs.Add("Content-Length", strconv.Itoa(len(r.body))); err != nil {
			return nil, err
		}
	}

	for key, value := range r.headers.Build().Iter() {
		if err = hdrs.Set(key, value); err != nil {
			return nil, err
		}
	}

	return NewResponse(line, hdrs.Build(), r.body)
}

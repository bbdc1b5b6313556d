package http1

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/encoding"
	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/http/proto"
	"github.com/indigo-web/tinyhttp/http/status"
)

const (
	crlf     = "\r\n"
	crlfcrlf = "\r\n\r\n"
)

// ParseRequest parses exactly one framed request. The head is processed in its wire view,
// where every byte is a single rune, and the path together with header values are turned
// back into text afterwards. Any failure is reported as *Error.
func ParseRequest(data []byte, cfg *config.Config) (*http.Request, error) {
	startLine, hdrs, body, err := split(data, cfg, status.ErrMalformedRequest)
	if err != nil {
		return nil, err
	}

	line, err := parseRequestLine(startLine)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequest(line, hdrs, body)
	if err != nil {
		return nil, newError(Body, status.ErrMalformedRequest, detailOf(err))
	}

	return request, nil
}

// ParseResponse mirrors ParseRequest. The reason phrase isn't checked against the code,
// as it's always derived from the latter anyway.
func ParseResponse(data []byte, cfg *config.Config) (*http.Response, error) {
	startLine, hdrs, body, err := split(data, cfg, status.ErrMalformedResponse)
	if err != nil {
		return nil, err
	}

	line, err := parseStatusLine(startLine)
	if err != nil {
		return nil, err
	}

	response, err := http.NewResponse(line, hdrs, body)
	if err != nil {
		return nil, newError(Body, status.ErrMalformedResponse, detailOf(err))
	}

	return response, nil
}

// split separates the start line, headers and body. The start line is returned in its
// wire view.
func split(data []byte, cfg *config.Config, malformed error) (
	startLine string, hdrs headers.Headers, body []byte, err error,
) {
	end := bytes.Index(data, []byte(crlfcrlf))
	if end == -1 {
		return "", hdrs, nil, newError(Headers, malformed, "head isn't terminated by an empty line")
	}

	head := encoding.DecodeWire(data[:end])
	body = data[end+len(crlfcrlf):]
	startLine, fields, _ := strings.Cut(head, crlf)
	hdrs, err = parseHeaders(fields, cfg.Headers.MaxNumber)

	return startLine, hdrs, body, err
}

func parseRequestLine(line string) (http.RequestLine, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) != 3 {
		return http.RequestLine{}, newError(
			Line, status.ErrMalformedRequestLine, "expected 3 tokens, got "+strconv.Itoa(len(tokens)),
		)
	}

	m := method.Parse(tokens[0])
	if m == method.Unknown {
		return http.RequestLine{}, newError(Line, status.ErrMethodNotAllowed, tokens[0])
	}

	path, err := toText(tokens[1])
	if err != nil || !http.ValidPath(path) {
		return http.RequestLine{}, newError(Line, status.ErrMalformedRequestLine, "bad path")
	}

	p := proto.Parse(tokens[2])
	if p == proto.Unknown {
		return http.RequestLine{}, newError(
			Line, status.ErrMalformedRequestLine, "unsupported version "+strconv.Quote(tokens[2]),
		)
	}

	return http.RequestLine{
		Method: m,
		Path:   path,
		Proto:  p,
	}, nil
}

func parseStatusLine(line string) (http.StatusLine, error) {
	tokens := strings.SplitN(line, " ", 3)
	if len(tokens) != 3 {
		return http.StatusLine{}, newError(
			Line, status.ErrMalformedStatusLine, "expected 3 tokens, got "+strconv.Itoa(len(tokens)),
		)
	}

	p := proto.Parse(tokens[0])
	if p == proto.Unknown {
		return http.StatusLine{}, newError(
			Line, status.ErrMalformedStatusLine, "unsupported version "+strconv.Quote(tokens[0]),
		)
	}

	if len(tokens[1]) != 3 {
		return http.StatusLine{}, newError(Line, status.ErrMalformedStatusLine, "bad status code")
	}

	n, err := strconv.Atoi(tokens[1])
	if err != nil {
		return http.StatusLine{}, newError(Line, status.ErrMalformedStatusLine, "bad status code")
	}

	code, err := status.FromInt(n)
	if err != nil {
		return http.StatusLine{}, newError(Line, status.ErrMalformedStatusLine, err.Error()+": "+tokens[1])
	}

	return http.StatusLine{
		Proto: p,
		Code:  code,
	}, nil
}

func parseHeaders(fields string, maxNumber int) (headers.Headers, error) {
	builder := headers.NewPreallocBuilder(min(strings.Count(fields, crlf)+1, maxNumber))
	if len(fields) == 0 {
		return builder.Build(), nil
	}

	for n := 0; len(fields) > 0; n++ {
		if n >= maxNumber {
			return headers.Headers{}, newError(
				Headers, status.ErrMalformedHeaders, "too many header lines, at most "+strconv.Itoa(maxNumber),
			)
		}

		var line string
		line, fields, _ = strings.Cut(fields, crlf)
		key, value, found := strings.Cut(line, ": ")
		if !found || len(key) == 0 || len(value) == 0 {
			return headers.Headers{}, newError(Headers, status.ErrMalformedHeaders, strconv.Quote(line))
		}

		value, err := toText(value)
		if err != nil {
			return headers.Headers{}, newError(Headers, status.ErrMalformedHeaders, "value of "+key+" isn't a text")
		}

		if err = builder.Add(key, value); err != nil {
			return headers.Headers{}, newError(Headers, status.ErrMalformedHeaders, err.Error())
		}
	}

	return builder.Build(), nil
}

// toText converts a wire string back into the text it carries. Strings that aren't a valid
// UTF-8 in their byte form are rejected, so the conversion never loses anything.
func toText(wire string) (string, error) {
	b, err := encoding.EncodeWire(wire)
	if err != nil {
		return "", err
	}

	if !encoding.ValidText(b) {
		return "", errNotText
	}

	return encoding.DecodeText(b), nil
}

var errNotText = errors.New("not a UTF-8 text")

// detailOf drops the sentinel prefix of the message validation error, as it's already
// carried by *Error.
func detailOf(err error) string {
	msg := err.Error()
	if _, detail, found := strings.Cut(msg, ": "); found {
		return detail
	}

	return msg
}

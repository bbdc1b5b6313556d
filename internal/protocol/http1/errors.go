package http1

import (
	"github.com/indigo-web/tinyhttp/http/status"
)

// Part names the piece of a message a parse error originates from.
type Part uint8

const (
	Line Part = iota + 1
	Headers
	Body
)

func (p Part) String() string {
	switch p {
	case Line:
		return "start line"
	case Headers:
		return "headers"
	case Body:
		return "body"
	default:
		return "message"
	}
}

// Error is the only error type returned by the parsers. Err is always one of the status
// sentinels, so the error can be answered with a proper status code straight away.
type Error struct {
	Part   Part
	Err    error
	Detail string
}

func newError(part Part, err error, detail string) *Error {
	return &Error{
		Part:   part,
		Err:    err,
		Detail: detail,
	}
}

func (e *Error) Error() string {
	msg := e.Part.String() + ": " + e.Err.Error()
	if len(e.Detail) > 0 {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the status code the error must be answered with.
func (e *Error) Code() status.Code {
	return status.CodeOf(e.Err)
}

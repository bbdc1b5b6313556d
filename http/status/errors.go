package status

// HTTPError is an error carrying the status code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest            = NewError(BadRequest, "bad request")
	ErrMalformedRequestLine  = NewError(BadRequest, "malformed request line")
	ErrMalformedHeaders      = NewError(BadRequest, "malformed headers")
	ErrMalformedRequest      = NewError(BadRequest, "malformed request")
	ErrUnsupportedVersion    = NewError(BadRequest, "HTTP version is not supported")
	ErrMalformedStatusLine   = NewError(InternalServerError, "malformed status line")
	ErrMalformedResponse     = NewError(InternalServerError, "malformed response")
	ErrUnsupportedStatusCode = NewError(InternalServerError, "status code is not supported")
	ErrMethodNotAllowed      = NewError(MethodNotAllowed, "method not allowed")
	ErrNotFound              = NewError(NotFound, "not found")
	ErrUnauthorized          = NewError(Unauthorized, "unauthorized")
	ErrConflict              = NewError(Conflict, "conflict")
	ErrUnmappedMIME          = NewError(InternalServerError, "no MIME type is mapped to the extension")
	ErrRouting               = NewError(InternalServerError, "routing error")
)

// CodeOf extracts the status code an error must be answered with. Errors not carrying
// any code are internal server errors.
func CodeOf(err error) Code {
	type unwrapper interface{ Unwrap() error }

	for err != nil {
		if httpErr, ok := err.(HTTPError); ok {
			return httpErr.Code
		}

		u, ok := err.(unwrapper)
		if !ok {
			break
		}

		err = u.Unwrap()
	}

	return InternalServerError
}

package status

type (
	Code   uint16
	Status string
)

// The server speaks a closed set of status codes. Anything else is rejected both when
// building a status line and when parsing one off the wire.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	MovedPermanently    Code = 301 // RFC 9110, 15.4.2
	Found               Code = 302 // RFC 9110, 15.4.3
	NotModified         Code = 304 // RFC 9110, 15.4.5
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	Unauthorized        Code = 401 // RFC 9110, 15.5.2
	NotFound            Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed    Code = 405 // RFC 9110, 15.5.6
	Conflict            Code = 409 // RFC 9110, 15.5.10
	InternalServerError Code = 500 // RFC 9110, 15.6.1
)

// KnownCodes lists every supported code in ascending order.
var KnownCodes = []Code{
	OK, MovedPermanently, Found, NotModified, BadRequest,
	Unauthorized, NotFound, MethodNotAllowed, Conflict, InternalServerError,
}

var texts = map[Code]Status{
	OK:                  "OK",
	MovedPermanently:    "Moved Permanently",
	Found:               "Found",
	NotModified:         "Not Modified",
	BadRequest:          "Bad Request",
	Unauthorized:        "Unauthorized",
	NotFound:            "Not Found",
	MethodNotAllowed:    "Method Not Allowed",
	Conflict:            "Conflict",
	InternalServerError: "Internal Server Error",
}

// Text returns a reason phrase for the code. Empty string is returned for
// unsupported codes
func Text(code Code) Status {
	return texts[code]
}

// Supported reports whether the code belongs to the closed set
func Supported(code Code) bool {
	_, found := texts[code]
	return found
}

// FromInt converts an arbitrary integer into a supported Code. It fails with
// ErrUnsupportedStatusCode otherwise
func FromInt(n int) (Code, error) {
	if n < 0 || n > 999 || !Supported(Code(n)) {
		return 0, ErrUnsupportedStatusCode
	}

	return Code(n), nil
}

package http1

import (
	"strconv"

	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/headers"
)

// SerializeRequest renders the request into its wire form.
func SerializeRequest(request *http.Request) []byte {
	return AppendRequest(nil, request)
}

// AppendRequest appends the wire form of the request to buff. Passing a buffer left from
// the previous call with its length reset avoids reallocations.
func AppendRequest(buff []byte, request *http.Request) []byte {
	line := request.Line()
	buff = append(buff, line.Method.String()...)
	buff = append(buff, ' ')
	buff = append(buff, line.Path...)
	buff = append(buff, ' ')
	buff = append(buff, line.Proto.String()...)
	buff = append(buff, crlf...)
	buff = appendHeaders(buff, request.Headers())

	return append(buff, request.Body()...)
}

// SerializeResponse renders the response into its wire form.
func SerializeResponse(response *http.Response) []byte {
	return AppendResponse(nil, response)
}

// AppendResponse appends the wire form of the response to buff.
func AppendResponse(buff []byte, response *http.Response) []byte {
	line := response.Line()
	buff = append(buff, line.Proto.String()...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(line.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, line.Reason()...)
	buff = append(buff, crlf...)
	buff = appendHeaders(buff, response.Headers())

	return append(buff, response.Body()...)
}

func appendHeaders(buff []byte, hdrs headers.Headers) []byte {
	for key, value := range hdrs.Iter() {
		buff = append(buff, key...)
		buff = append(buff, ':', ' ')
		buff = append(buff, value...)
		buff = append(buff, crlf...)
	}

	return append(buff, crlf...)
}

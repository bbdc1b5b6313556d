package router

import (
	"github.com/indigo-web/tinyhttp/http"
)

// Router turns requests into responses. Implementations must be safe for concurrent
// use, as every connection worker calls them independently.
type Router interface {
	// OnRequest always returns a well-formed response, even if the request couldn't be
	// processed.
	OnRequest(request *http.Request) *http.Response
	// OnError produces the response for a request which couldn't be parsed or framed.
	OnError(err error) *http.Response
}

// Package simple wraps a pair of plain functions into a router. It's handy when a single
// handler serves everything, mostly in tests.
package simple

import (
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(error) *http.Response
)

type simpleRouter struct {
	handler    Handler
	errHandler ErrorHandler
}

func New(handler Handler, errHandler ErrorHandler) router.Router {
	return simpleRouter{
		handler:    handler,
		errHandler: errHandler,
	}
}

func (r simpleRouter) OnRequest(request *http.Request) *http.Response {
	return r.handler(request)
}

func (r simpleRouter) OnError(err error) *http.Response {
	return r.errHandler(err)
}

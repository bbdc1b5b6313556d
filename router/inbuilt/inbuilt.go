package inbuilt

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"strings"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/tinyhttp/internal/protocol/http1"
	"github.com/indigo-web/tinyhttp/router"
)

// Handler processes a request. A returned error is rendered into the canned page of the
// status code it carries, or 500 Internal Server Error if it carries none.
type Handler func(request *http.Request) (*http.Response, error)

type redirect struct {
	to   string
	code status.Code
}

// Router is a built-in implementation of router.Router. Requests are routed by the first
// segment of their path, after the redirect table is consulted. It's populated once and
// frozen by Build, hence serving requests requires no synchronization.
type Router struct {
	fsys      fs.FS
	cfg       *config.Config
	routes    map[string]Handler
	redirects map[string]redirect
	err       error
}

// New returns a router serving resources out of fsys. The canned error pages are looked
// up in its msgbody directory.
func New(fsys fs.FS, cfg *config.Config) *Router {
	return &Router{
		fsys:      fsys,
		cfg:       cfg,
		routes:    make(map[string]Handler),
		redirects: make(map[string]redirect),
	}
}

// Route registers a handler for every request, whose path begins with the prefix. The
// prefix must be a single path segment, like /document, or the root path.
func (r *Router) Route(prefix string, handler Handler) *Router {
	switch {
	case !http.ValidPath(prefix) || strings.ContainsRune(prefix, '?') || http.FirstSegment(prefix) != prefix:
		r.fail(fmt.Errorf("%w: prefix must be a single path segment, got %q", status.ErrRouting, prefix))
	case r.routes[prefix] != nil:
		r.fail(fmt.Errorf("%w: %s is already routed", status.ErrRouting, prefix))
	default:
		r.routes[prefix] = handler
	}

	return r
}

// Redirect answers requests to the exact path with 302 Found pointing at another one.
func (r *Router) Redirect(from, to string) *Router {
	return r.redirect(from, to, status.Found)
}

// Permanent answers requests to the exact path with 301 Moved Permanently.
func (r *Router) Permanent(from, to string) *Router {
	return r.redirect(from, to, status.MovedPermanently)
}

func (r *Router) redirect(from, to string, code status.Code) *Router {
	if !http.ValidPath(from) || !http.ValidPath(to) {
		r.fail(fmt.Errorf("%w: bad redirect %q -> %q", status.ErrRouting, from, to))
		return r
	}

	r.redirects[from] = redirect{to: to, code: code}
	return r
}

// Static serves the directory named by the prefix. See Document for details.
func (r *Router) Static(prefix string) *Router {
	return r.Route(prefix, Document(r.fsys))
}

// Welcome serves welcome.txt at the root path.
func (r *Router) Welcome() *Router {
	return r.Route("/", Welcome(r.fsys, r.cfg.Server.Name))
}

func (r *Router) fail(err error) {
	r.err = errors.Join(r.err, err)
}

// Build freezes the routing tables. Any misconfiguration met during the population is
// reported here.
func (r *Router) Build() (router.Router, error) {
	if r.err != nil {
		return nil, r.err
	}

	return &dispatcher{
		routes:    maps.Clone(r.routes),
		redirects: maps.Clone(r.redirects),
		pages:     pages{fsys: r.fsys},
	}, nil
}

type dispatcher struct {
	routes    map[string]Handler
	redirects map[string]redirect
	pages     pages
}

func (d *dispatcher) OnRequest(request *http.Request) *http.Response {
	path := request.Route()
	if target, found := d.redirects[path]; found {
		return d.pages.redirect(target)
	}

	handler, found := d.routes[http.FirstSegment(path)]
	if !found {
		return d.pages.render(status.NotFound, request.Method().String())
	}

	response, err := handler(request)
	if err != nil {
		return d.pages.render(status.CodeOf(err), request.Method().String())
	}

	return response
}

func (d *dispatcher) OnError(err error) *http.Response {
	var method string

	// the method is known only if it was the reason
	var parseErr *http1.Error
	if errors.As(err, &parseErr) && errors.Is(parseErr.Err, status.ErrMethodNotAllowed) {
		method = parseErr.Detail
	}

	return d.pages.render(status.CodeOf(err), method)
}

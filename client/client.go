// Package client implements a blocking HTTP/1.1 client holding a single connection.
// Requests are never pipelined: every call waits for the response before the next
// request may be sent.
package client

import (
	"context"
	"io"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/internal/protocol/http1"
	"github.com/indigo-web/tinyhttp/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/pkg/errors"
)

// MaxRedirects is the ceiling for following redirects. Redirects are not followed yet:
// 301 and 302 responses are returned as they are.
const MaxRedirects = 5

var (
	ErrBadURL          = errors.New("bad url")
	ErrUnexpectedClose = errors.New("connection closed before the response was received")
)

// Handler receives the body of the response.
type Handler func(body []byte)

type session struct {
	conn transport.Conn
}

// Client is safe for concurrent use, however the requests are serialized.
type Client struct {
	host string
	port int
	path string
	cfg  *config.Config

	mu      sync.Mutex
	buff    []byte
	dialing atomic.Bool
	sess    atomic.Pointer[session]
}

func New(host string, port int, cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Client{
		host: host,
		port: port,
		path: "/",
		cfg:  cfg,
	}
}

// FromURL makes a client out of an absolute http url. The path of the url becomes the
// one entered by Connect.
func FromURL(raw string, cfg *config.Config) (*Client, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(ErrBadURL, err.Error())
	}

	if u.Scheme != "http" || len(u.Hostname()) == 0 {
		return nil, errors.Wrapf(ErrBadURL, "%s: only absolute http urls are supported", raw)
	}

	port := 80
	if p := u.Port(); len(p) > 0 {
		if port, err = strconv.Atoi(p); err != nil || port > 65535 {
			return nil, errors.Wrapf(ErrBadURL, "%s: invalid port", raw)
		}
	}

	client := New(u.Hostname(), port, cfg)
	if len(u.EscapedPath()) > 0 {
		client.path = u.EscapedPath()
	}

	return client, nil
}

// State reports the state of the underlying connection. A client that has never
// connected is in the Connecting state.
func (c *Client) State() transport.State {
	if c.dialing.Load() {
		return transport.Connecting
	}

	if sess := c.sess.Load(); sess != nil {
		return sess.conn.State()
	}

	return transport.Connecting
}

// Connect enters the client's path, which is the root unless the client was made
// from an url.
func (c *Client) Connect(ctx context.Context, handler Handler) (*http.Response, error) {
	return c.Enter(ctx, c.path, handler)
}

// Enter sends GET request to the path and passes the response body into the handler.
// The response itself is returned as well, as redirects aren't followed.
func (c *Client) Enter(ctx context.Context, path string, handler Handler) (*http.Response, error) {
	request, err := http.Get(path).
		Header("Host", c.hostHeader()).
		Header("Content-Length", "0").
		Build()
	if err != nil {
		return nil, err
	}

	response, err := c.Do(ctx, request)
	if err != nil {
		return nil, err
	}

	if handler != nil {
		handler(response.Body())
	}

	return response, nil
}

// Do sends the request and waits for the response. The connection is (re)established
// if it isn't open. Cancelling the context closes the connection, which interrupts the
// exchange. A GET request is sent once again over a fresh connection, if the reused one
// turns out to be closed by the peer before any response arrived.
func (c *Client) Do(ctx context.Context, request *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, reused, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	response, retryable, err := c.exchange(ctx, conn, request)
	if err != nil && reused && retryable && request.Method() == method.GET {
		_ = conn.Close()
		if conn, _, err = c.connect(ctx); err != nil {
			return nil, err
		}

		response, _, err = c.exchange(ctx, conn, request)
	}

	return response, err
}

// exchange does a single round-trip. It's retryable if the connection broke before any
// byte of the response was received.
func (c *Client) exchange(
	ctx context.Context, conn transport.Conn, request *http.Request,
) (response *http.Response, retryable bool, err error) {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	c.buff = http1.AppendRequest(c.buff[:0], request)
	if err = conn.Send(c.buff); err != nil {
		return nil, ctx.Err() == nil, interrupted(ctx, err)
	}

	data, err := conn.Receive()
	switch {
	case err == nil:
	case transport.IsFraming(err):
		// the rest of the message is still in the stream
		_ = conn.Close()
		return nil, false, err
	case conn.State() == transport.Closed && ctx.Err() == nil:
		return nil, !errors.Is(err, io.ErrUnexpectedEOF), errors.Wrap(ErrUnexpectedClose, err.Error())
	default:
		return nil, false, interrupted(ctx, err)
	}

	response, err = http1.ParseResponse(data, c.cfg)
	if err != nil {
		_ = conn.Close()
		return nil, false, err
	}

	if value, found := response.Headers().Get("Connection"); found && strcomp.EqualFold(value, "close") {
		_ = conn.Close()
	}

	return response, false, nil
}

// Close closes the connection. The client can be used afterward, the connection will
// be established again.
func (c *Client) Close() error {
	if sess := c.sess.Load(); sess != nil {
		return sess.conn.Close()
	}

	return nil
}

func (c *Client) connect(ctx context.Context) (conn transport.Conn, reused bool, err error) {
	if sess := c.sess.Load(); sess != nil {
		if sess.conn.State() == transport.Open {
			return sess.conn, true, nil
		}
	}

	c.dialing.Store(true)
	defer c.dialing.Store(false)

	conn, err = transport.Dial(ctx, c.host, c.port, c.cfg)
	if err != nil {
		return nil, false, err
	}

	c.sess.Store(&session{conn: conn})

	return conn, false, nil
}

func (c *Client) hostHeader() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// interrupted attaches the cancellation cause, if there's any, to the transport error.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), err.Error())
	}

	return err
}

package transport

import (
	"context"
	"net"
	"strconv"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/pkg/errors"
)

// Dial establishes a TCP connection. Any failure, whether refusal, timeout or name
// resolution, is reported as ErrConnectFailure.
func Dial(ctx context.Context, host string, port int, cfg *config.Config) (Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: cfg.NET.DialTimeout}

	c, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(ErrConnectFailure, "%s: %v", addr, err)
	}

	return NewConn(c, cfg), nil
}

// Listener accepts incoming connections.
type Listener struct {
	l   net.Listener
	cfg *config.Config
}

// Listen binds a TCP socket. An empty host part binds every interface, zero port
// picks a random free one.
func Listen(addr string, cfg *config.Config) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(ErrBindFailure, "%s: %v", addr, err)
	}

	return &Listener{l: l, cfg: cfg}, nil
}

// Accept blocks until a new connection arrives.
func (l *Listener) Accept() (Conn, error) {
	c, err := l.l.Accept()
	if err != nil {
		return nil, err
	}

	return NewConn(c, l.cfg), nil
}

func (l *Listener) Addr() net.Addr {
	return l.l.Addr()
}

func (l *Listener) Close() error {
	return l.l.Close()
}

// Pipe returns both ends of an in-memory synchronous connection.
func Pipe(cfg *config.Config) (Conn, Conn) {
	a, b := net.Pipe()
	return NewConn(a, cfg), NewConn(b, cfg)
}

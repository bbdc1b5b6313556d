package transport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/indigo-web/tinyhttp/config"
	"github.com/pkg/errors"
)

// Conn is a single established connection, either dialed or accepted. Send and Receive
// may be used from different goroutines, however neither of them is safe to be called
// concurrently with itself. Close is safe to be called at any moment and any number of
// times, and unblocks pending Send and Receive.
type Conn interface {
	// Send writes all the bytes.
	Send([]byte) error
	// Receive returns exactly one framed message. The returned slice is owned by the caller.
	Receive() ([]byte, error)
	Close() error
	State() State
	Remote() net.Addr
}

type conn struct {
	conn   net.Conn
	clock  clock.Clock
	state  atomic.Uint32
	framer *framer
	sendMu sync.Mutex
	netcfg config.NET
}

// NewConn wraps an already established connection.
func NewConn(c net.Conn, cfg *config.Config) Conn {
	return newConn(c, cfg, clock.New())
}

func newConn(c net.Conn, cfg *config.Config, clk clock.Clock) *conn {
	r := newReader(c, clk, cfg.NET.ReadTimeout, make([]byte, cfg.NET.ReadBufferSize))
	wrapped := &conn{
		conn:   c,
		clock:  clk,
		framer: newFramer(r, cfg),
		netcfg: cfg.NET,
	}
	wrapped.state.Store(uint32(Open))

	return wrapped
}

func (c *conn) Send(b []byte) error {
	if c.State() != Open {
		return ErrNotReady
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.netcfg.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(c.clock.Now().Add(c.netcfg.WriteTimeout)); err != nil {
			return c.fail(err, "set write deadline")
		}
	}

	for len(b) > 0 {
		n, err := c.conn.Write(b)
		if err != nil {
			return c.fail(err, "send")
		}

		b = b[n:]
	}

	return nil
}

func (c *conn) Receive() ([]byte, error) {
	if c.State() != Open {
		return nil, ErrNotReady
	}

	message, err := c.framer.Next()
	switch {
	case err == nil:
		return message, nil
	case IsFraming(err):
		return nil, err
	default:
		return nil, c.fail(err, "receive")
	}
}

// fail closes the connection due to an I/O failure. In case the connection was already
// closed by us, the error is reported as ErrNotReady.
func (c *conn) fail(err error, op string) error {
	if State(c.state.Swap(uint32(Closed))) == Closed {
		return errors.Wrap(ErrNotReady, op)
	}

	_ = c.conn.Close()
	return errors.Wrap(err, op)
}

func (c *conn) Close() error {
	if State(c.state.Swap(uint32(Closed))) == Closed {
		return nil
	}

	return c.conn.Close()
}

func (c *conn) State() State {
	return State(c.state.Load())
}

func (c *conn) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

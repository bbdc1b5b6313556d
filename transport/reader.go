package transport

import (
	"net"
	"time"

	"github.com/benbjohnson/clock"
)

// reader reads raw chunks from the socket into a reusable buffer. Chunks which weren't
// consumed completely may be pushed back and are returned by the next Read.
type reader struct {
	conn    net.Conn
	clock   clock.Clock
	buff    []byte
	pending []byte
	timeout time.Duration
}

func newReader(conn net.Conn, clk clock.Clock, timeout time.Duration, buff []byte) *reader {
	return &reader{
		conn:    conn,
		clock:   clk,
		buff:    buff,
		timeout: timeout,
	}
}

// Read returns either the pending data or a fresh chunk. The returned slice is valid until
// the next call. Zero timeout means no deadline at all.
func (r *reader) Read() ([]byte, error) {
	if len(r.pending) > 0 {
		pending := r.pending
		r.pending = nil

		return pending, nil
	}

	if r.timeout > 0 {
		if err := r.conn.SetReadDeadline(r.clock.Now().Add(r.timeout)); err != nil {
			return nil, err
		}
	}

	n, err := r.conn.Read(r.buff)
	if n > 0 {
		// the data goes first, the error will show up again on the next read anyway
		return r.buff[:n], nil
	}

	return nil, err
}

// Pushback preserves a chunk of data from previous read for the next read.
func (r *reader) Pushback(b []byte) {
	r.pending = b
}

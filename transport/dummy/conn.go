package dummy

import (
	"io"
	"net"
	"sync"
	"time"
)

// Conn is a scripted net.Conn. Every Read returns the next chunk it was initialised with,
// and all the written data is journaled. Once chunks are over, reads return io.EOF, unless
// looped.
type Conn struct {
	mu           sync.Mutex
	chunks       [][]byte
	pointer      int
	loop         bool
	closed       bool
	written      []byte
	nop          bool
	readDeadline time.Time
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

// Bytewise returns a connection delivering the data one byte per read.
func Bytewise(data []byte) *Conn {
	chunks := make([][]byte, len(data))
	for i := range data {
		chunks[i] = data[i : i+1]
	}

	return NewConn(chunks...)
}

// LoopReads makes the connection start over again once chunks are over.
func (c *Conn) LoopReads() *Conn {
	c.loop = true
	return c
}

// Nop disables the journaling.
func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	if c.pointer >= len(c.chunks) {
		if !c.loop || len(c.chunks) == 0 {
			return 0, io.EOF
		}

		c.pointer = 0
	}

	chunk := c.chunks[c.pointer]
	n = copy(b, chunk)
	if n < len(chunk) {
		// the rest is delivered by the next read
		c.chunks[c.pointer] = chunk[n:]
	} else {
		c.pointer++
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	if !c.nop {
		c.written = append(c.written, b...)
	}

	return len(b), nil
}

// Written returns everything written so far.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]byte(nil), c.written...)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return nil
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func (c *Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}

func (c *Conn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.readDeadline = t
	c.mu.Unlock()

	return nil
}

// ReadDeadline returns the last deadline set.
func (c *Conn) ReadDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readDeadline
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

package transport

import (
	"sync"
	"sync/atomic"

	"github.com/indigo-web/tinyhttp/config"
	"golang.org/x/sync/errgroup"
)

// Transport accepts connections and hands them over to the callback.
type Transport interface {
	Bind(addr string) error
	Listen(cfg *config.Config, cb func(conn Conn)) error
	Stop()
	Close()
	Wait()
}

// TCP serves every accepted connection in a bounded pool of workers. When the pool is
// exhausted, accepting is paused until a worker is released. The callback owns the
// connection until it returns, after which the connection is closed.
type TCP struct {
	l       *Listener
	workers *errgroup.Group
	stop    *atomic.Bool
	mu      sync.Mutex
	active  map[Conn]struct{}
}

func NewTCP() *TCP {
	return &TCP{
		workers: new(errgroup.Group),
		stop:    new(atomic.Bool),
		active:  make(map[Conn]struct{}),
	}
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = Listen(addr, config.Default())
	return err
}

// Addr returns the bound address. It's useful when the port was picked randomly.
func (t *TCP) Addr() string {
	return t.l.Addr().String()
}

func (t *TCP) Listen(cfg *config.Config, cb func(conn Conn)) error {
	t.l.cfg = cfg
	t.workers.SetLimit(cfg.NET.Workers)

	for !t.stop.Load() {
		conn, err := t.l.Accept()
		if err != nil {
			if t.stop.Load() {
				return nil
			}

			return err
		}

		t.track(conn)
		// blocks as long as every worker is busy
		t.workers.Go(func() error {
			defer t.untrack(conn)
			cb(conn)

			return nil
		})
	}

	return nil
}

func (t *TCP) track(conn Conn) {
	t.mu.Lock()
	t.active[conn] = struct{}{}
	t.mu.Unlock()

	// the connection might have been accepted right when Stop was closing the others
	if t.stop.Load() {
		_ = conn.Close()
	}
}

func (t *TCP) untrack(conn Conn) {
	_ = conn.Close()

	t.mu.Lock()
	delete(t.active, conn)
	t.mu.Unlock()
}

// Stop breaks the accept loop and closes every served connection, which makes the workers
// return as soon as they notice it.
func (t *TCP) Stop() {
	if t.stop.Swap(true) {
		return
	}

	t.Close()

	t.mu.Lock()
	for conn := range t.active {
		_ = conn.Close()
	}
	t.mu.Unlock()
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

// Wait blocks until every worker is done.
func (t *TCP) Wait() {
	_ = t.workers.Wait()
}

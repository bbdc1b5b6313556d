package transport

import (
	"sync"

	"github.com/indigo-web/tinyhttp/config"
	"golang.org/x/sync/errgroup"
)

// Supervisor runs several transports at once. Once any of them fails, the rest are
// stopped, too.
type Supervisor struct {
	ts       []boundTransport
	stopOnce sync.Once
	done     chan struct{}
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		done: make(chan struct{}),
	}
}

// Add binds the transport to the address. On failure, every transport added before is
// closed.
func (s *Supervisor) Add(addr string, transport Transport, cb func(Conn)) error {
	if err := transport.Bind(addr); err != nil {
		for _, t := range s.ts {
			t.t.Close()
		}

		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Run blocks until every transport is stopped, returning the first error occurred.
func (s *Supervisor) Run(cfg *config.Config) error {
	defer close(s.done)

	var g errgroup.Group
	for _, t := range s.ts {
		g.Go(func() error {
			err := t.t.Listen(cfg, t.cb)
			s.stop()

			return err
		})
	}

	err := g.Wait()
	for _, t := range s.ts {
		t.t.Wait()
		t.t.Close()
	}

	return err
}

// Stop stops every transport and waits until Run returns. Must not be called unless
// Run was.
func (s *Supervisor) Stop() {
	s.stop()
	<-s.done
}

func (s *Supervisor) stop() {
	s.stopOnce.Do(func() {
		for _, t := range s.ts {
			t.t.Stop()
		}
	})
}

type boundTransport struct {
	cb func(conn Conn)
	t  Transport
}

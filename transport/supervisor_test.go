package transport

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/stretchr/testify/require"
)

// fakeTransport blocks in Listen until stopped, unless it's told to return at once.
type fakeTransport struct {
	bindErr, listenErr error
	immediate          bool
	stop               chan struct{}
	stopOnce           sync.Once
	closed             atomic.Bool
}

func newFake(immediate bool, listenErr error) *fakeTransport {
	return &fakeTransport{
		immediate: immediate,
		listenErr: listenErr,
		stop:      make(chan struct{}),
	}
}

func (f *fakeTransport) Bind(string) error {
	return f.bindErr
}

func (f *fakeTransport) Listen(*config.Config, func(Conn)) error {
	if !f.immediate {
		<-f.stop
	}

	return f.listenErr
}

func (f *fakeTransport) Stop() {
	f.stopOnce.Do(func() {
		close(f.stop)
	})
}

func (f *fakeTransport) Close() {
	f.closed.Store(true)
}

func (f *fakeTransport) Wait() {}

func (f *fakeTransport) stopped() bool {
	select {
	case <-f.stop:
		return true
	default:
		return false
	}
}

func supervise(t *testing.T, ts ...*fakeTransport) *Supervisor {
	sup := NewSupervisor()
	for _, transport := range ts {
		require.NoError(t, sup.Add("127.0.0.1:0", transport, nil))
	}

	return sup
}

func runWithin(t *testing.T, sup *Supervisor, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- sup.Run(config.Default())
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		require.FailNow(t, "supervisor is still running")
		return nil
	}
}

func TestSupervisor(t *testing.T) {
	t.Run("one down brings down the rest", func(t *testing.T) {
		a, b := newFake(false, nil), newFake(true, nil)
		require.NoError(t, runWithin(t, supervise(t, a, b), time.Second))
		require.True(t, a.stopped())
		require.True(t, a.closed.Load())
		require.True(t, b.closed.Load())
	})

	t.Run("listen error", func(t *testing.T) {
		errListenerDown := errors.New("listener is down")
		a, b := newFake(false, nil), newFake(true, errListenerDown)
		require.ErrorIs(t, runWithin(t, supervise(t, a, b), time.Second), errListenerDown)
		require.True(t, a.stopped())
	})

	t.Run("stop", func(t *testing.T) {
		a, b := newFake(false, nil), newFake(false, nil)
		sup := supervise(t, a, b)

		done := make(chan error, 1)
		go func() {
			done <- sup.Run(config.Default())
		}()

		sup.Stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			require.FailNow(t, "supervisor did not stop")
		}

		require.True(t, a.closed.Load())
		require.True(t, b.closed.Load())
	})

	t.Run("bind failure closes the bound ones", func(t *testing.T) {
		errInUse := errors.New("address already in use")
		a, b := newFake(false, nil), newFake(false, nil)
		b.bindErr = errInUse

		sup := NewSupervisor()
		require.NoError(t, sup.Add("127.0.0.1:0", a, nil))
		require.ErrorIs(t, sup.Add("127.0.0.1:0", b, nil), errInUse)
		require.True(t, a.closed.Load())
	})
}

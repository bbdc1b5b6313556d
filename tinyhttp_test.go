package tinyhttp_test

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/indigo-web/tinyhttp"
	"github.com/indigo-web/tinyhttp/client"
	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/tinyhttp/router/inbuilt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const workers = 4

func newApp(t *testing.T) (app *tinyhttp.App, done chan error, stopped chan struct{}) {
	fsys := fstest.MapFS{
		"welcome.txt":     {Data: []byte("Welcome!\n")},
		"msgbody/404.txt": {Data: []byte("Not found\n")},
	}
	for i := 0; i < workers; i++ {
		fsys[fmt.Sprintf("document/%d.txt", i)] = &fstest.MapFile{
			Data: []byte(fmt.Sprintf("file number %d", i)),
		}
	}

	cfg := config.Default()
	cfg.NET.Workers = workers

	r, err := inbuilt.New(fsys, cfg).
		Welcome().
		Static("/document").
		Build()
	require.NoError(t, err)

	started, stopped := make(chan struct{}), make(chan struct{})
	app = tinyhttp.New("127.0.0.1:0").
		Tune(cfg).
		Logger(zerolog.Nop()).
		Listen(0).
		NotifyOnStart(func() {
			close(started)
		}).
		NotifyOnStop(func() {
			close(stopped)
		})

	done = make(chan error, 1)
	go func() {
		done <- app.Serve(r)
	}()

	select {
	case <-started:
	case err := <-done:
		t.Fatalf("serve: %v", err)
	}

	return app, done, stopped
}

func dial(t *testing.T, addr string) *client.Client {
	host, rawPort, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(rawPort)
	require.NoError(t, err)

	return client.New(host, port, nil)
}

func TestApp(t *testing.T) {
	defer goleak.VerifyNone(t)

	app, done, stopped := newApp(t)
	addrs := app.Addrs()
	require.Len(t, addrs, 2)

	t.Run("every listener serves", func(t *testing.T) {
		for _, addr := range addrs {
			c := dial(t, addr)
			response, err := c.Connect(context.Background(), nil)
			require.NoError(t, err)
			require.Equal(t, status.OK, response.Code())
			require.Equal(t, "Welcome!\n", string(response.Body()))
			require.NoError(t, c.Close())
		}
	})

	t.Run("concurrent clients", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				c := dial(t, addrs[i%len(addrs)])
				defer c.Close()

				path := fmt.Sprintf("/document/%d.txt", i)
				want := fmt.Sprintf("file number %d", i)
				for j := 0; j < 10; j++ {
					response, err := c.Enter(context.Background(), path, nil)
					if err != nil {
						errs <- err
						return
					}

					if got := string(response.Body()); got != want {
						errs <- fmt.Errorf("%s: got %q, want %q", path, got, want)
						return
					}
				}
			}()
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		c := dial(t, addrs[0])
		defer c.Close()

		response, err := c.Enter(context.Background(), "/nothing-here", nil)
		require.NoError(t, err)
		require.Equal(t, status.NotFound, response.Code())
		require.Equal(t, "Not found\n", string(response.Body()))
	})

	t.Run("stop", func(t *testing.T) {
		c := dial(t, addrs[0])
		defer c.Close()
		_, err := c.Connect(context.Background(), nil)
		require.NoError(t, err)

		app.Stop()
		require.NoError(t, <-done)
		<-stopped

		// the served connection was closed along with the listeners
		_, err = c.Connect(context.Background(), nil)
		require.Error(t, err)
	})
}

func TestBadAddress(t *testing.T) {
	require.Panics(t, func() {
		tinyhttp.New("localhost")
	})
}

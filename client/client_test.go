package client

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/tinyhttp/internal/protocol/http1"
	"github.com/indigo-web/tinyhttp/transport"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type server struct {
	l    *transport.Listener
	host string
	port int
	wg   sync.WaitGroup
}

// serve accepts the given number of connections, handling each one in its own goroutine.
func serve(t *testing.T, conns int, handler func(conn transport.Conn)) *server {
	cfg := config.Default()
	l, err := transport.Listen("127.0.0.1:0", cfg)
	require.NoError(t, err)

	host, rawPort, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(rawPort)
	require.NoError(t, err)

	s := &server{l: l, host: host, port: port}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for i := 0; i < conns; i++ {
			conn, err := l.Accept()
			if err != nil {
				return
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer conn.Close()
				handler(conn)
			}()
		}
	}()

	return s
}

func (s *server) Close() {
	_ = s.l.Close()
	s.wg.Wait()
}

func respond(t *testing.T, conn transport.Conn, builder *http.ResponseBuilder) *http.Request {
	data, err := conn.Receive()
	require.NoError(t, err)
	request, err := http1.ParseRequest(data, config.Default())
	require.NoError(t, err)

	response, err := builder.Build()
	require.NoError(t, err)
	require.NoError(t, conn.Send(http1.SerializeResponse(response)))

	return request
}

func TestClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	t.Run("enter", func(t *testing.T) {
		requests := make(chan *http.Request, 2)
		srv := serve(t, 1, func(conn transport.Conn) {
			requests <- respond(t, conn, http.Respond(status.OK).String("hello"))
			requests <- respond(t, conn, http.Respond(status.OK).String("world"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		require.Equal(t, transport.Connecting, client.State())

		var body string
		response, err := client.Connect(ctx, func(b []byte) {
			body = string(b)
		})
		require.NoError(t, err)
		require.Equal(t, status.OK, response.Code())
		require.Equal(t, "hello", body)
		require.Equal(t, transport.Open, client.State())

		request := <-requests
		require.Equal(t, "/", request.Path())
		require.Equal(t, net.JoinHostPort(srv.host, strconv.Itoa(srv.port)), request.Headers().Value("Host"))
		require.Equal(t, "0", request.Headers().Value("Content-Length"))
		require.Empty(t, request.Body())

		// the same connection is reused, as the server accepts only one
		_, err = client.Enter(ctx, "/document/", func(b []byte) {
			body = string(b)
		})
		require.NoError(t, err)
		require.Equal(t, "world", body)
		require.Equal(t, "/document/", (<-requests).Path())

		require.NoError(t, client.Close())
		require.Equal(t, transport.Closed, client.State())
	})

	t.Run("reconnect after close", func(t *testing.T) {
		srv := serve(t, 2, func(conn transport.Conn) {
			respond(t, conn, http.Respond(status.OK).String("hello"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		for i := 0; i < 2; i++ {
			response, err := client.Connect(ctx, nil)
			require.NoError(t, err)
			require.Equal(t, "hello", string(response.Body()))
			require.NoError(t, client.Close())
		}
	})

	t.Run("redial after idle close", func(t *testing.T) {
		var (
			served   atomic.Int32
			idleDone = make(chan struct{})
		)
		srv := serve(t, 2, func(conn transport.Conn) {
			if served.Add(1) == 1 {
				respond(t, conn, http.Respond(status.OK).String("first"))
				// drop the connection silently, like an idle timeout does
				_ = conn.Close()
				close(idleDone)
				return
			}

			respond(t, conn, http.Respond(status.OK).String("second"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		defer client.Close()

		response, err := client.Connect(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, "first", string(response.Body()))

		<-idleDone
		response, err = client.Connect(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, "second", string(response.Body()))
	})

	t.Run("redirect is not followed", func(t *testing.T) {
		srv := serve(t, 1, func(conn transport.Conn) {
			respond(t, conn, http.Respond(status.Found).Header("Location", "/"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		defer client.Close()

		called := false
		response, err := client.Enter(ctx, "/temp-redirect", func([]byte) {
			called = true
		})
		require.NoError(t, err)
		require.True(t, called)
		require.Equal(t, status.Found, response.Code())
		require.Equal(t, "/", response.Headers().Value("Location"))
	})

	t.Run("connection close", func(t *testing.T) {
		srv := serve(t, 1, func(conn transport.Conn) {
			respond(t, conn, http.Respond(status.OK).Header("Connection", "close"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		_, err := client.Connect(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, transport.Closed, client.State())
	})

	t.Run("connect failure", func(t *testing.T) {
		// take a free port and release it right away
		l, err := transport.Listen("127.0.0.1:0", config.Default())
		require.NoError(t, err)
		_, rawPort, err := net.SplitHostPort(l.Addr().String())
		require.NoError(t, err)
		require.NoError(t, l.Close())
		port, err := strconv.Atoi(rawPort)
		require.NoError(t, err)

		client := New("127.0.0.1", port, nil)
		_, err = client.Connect(ctx, nil)
		require.ErrorIs(t, err, transport.ErrConnectFailure)
		require.Equal(t, transport.Connecting, client.State())
	})

	t.Run("peer closes before responding", func(t *testing.T) {
		srv := serve(t, 1, func(conn transport.Conn) {
			_, _ = conn.Receive()
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		_, err := client.Connect(ctx, nil)
		require.ErrorIs(t, err, ErrUnexpectedClose)
		require.Equal(t, transport.Closed, client.State())
	})

	t.Run("malformed response", func(t *testing.T) {
		srv := serve(t, 1, func(conn transport.Conn) {
			_, _ = conn.Receive()
			_ = conn.Send([]byte("HTTP/1.1 999 Whatever\r\n\r\n"))
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		_, err := client.Connect(ctx, nil)
		require.ErrorIs(t, err, status.ErrMalformedStatusLine)
		require.Equal(t, transport.Closed, client.State())
	})

	t.Run("cancellation", func(t *testing.T) {
		srv := serve(t, 1, func(conn transport.Conn) {
			// never respond, just wait until the client goes away
			for {
				if _, err := conn.Receive(); err != nil {
					return
				}
			}
		})
		defer srv.Close()

		client := New(srv.host, srv.port, nil)
		ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := client.Connect(ctx, nil)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, transport.Closed, client.State())
	})
}

func TestFromURL(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, tc := range []struct {
			url, host, path string
			port            int
		}{
			{"http://localhost:8080", "localhost", "/", 8080},
			{"http://localhost:8080/document/", "localhost", "/document/", 8080},
			{"http://example.com/welcome.txt", "example.com", "/welcome.txt", 80},
			{"http://[::1]:9090/", "::1", "/", 9090},
		} {
			client, err := FromURL(tc.url, nil)
			require.NoError(t, err, tc.url)
			require.Equal(t, tc.host, client.host)
			require.Equal(t, tc.port, client.port)
			require.Equal(t, tc.path, client.path)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{
			"https://localhost/",
			"localhost:8080",
			"/document",
			"http://localhost:99999/",
			"http://localhost:port/",
			"http://",
		} {
			_, err := FromURL(raw, nil)
			require.ErrorIs(t, err, ErrBadURL, raw)
		}
	})
}

package http

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/tinyhttp/internal/protocol/http1"
	"github.com/indigo-web/tinyhttp/router"
	"github.com/indigo-web/tinyhttp/router/inbuilt"
	"github.com/indigo-web/tinyhttp/router/simple"
	"github.com/indigo-web/tinyhttp/transport"
	"github.com/indigo-web/tinyhttp/transport/dummy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// pathRouter answers with the request path in the body.
func pathRouter() router.Router {
	return simple.New(func(request *http.Request) *http.Response {
		response, err := http.NewResponseBuilder().String(request.Path()).Build()
		if err != nil {
			panic(err)
		}

		return response
	}, func(err error) *http.Response {
		response, buildErr := http.Respond(status.CodeOf(err)).String(err.Error()).Build()
		if buildErr != nil {
			panic(buildErr)
		}

		return response
	})
}

func serve(t *testing.T, r router.Router, cfg *config.Config, raw string) (responses []*http.Response, conn *dummy.Conn) {
	conn = dummy.NewConn([]byte(raw))
	NewServer(r, cfg, zerolog.Nop()).Run(transport.NewConn(conn, cfg))
	require.True(t, conn.Closed())

	// the written stream is framed the same way requests are, but without the limits
	// the server was run with
	clientCfg := config.Default()
	written := transport.NewConn(dummy.NewConn(conn.Written()), clientCfg)
	for {
		data, err := written.Receive()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return responses, conn
		}

		response, err := http1.ParseResponse(data, clientCfg)
		require.NoError(t, err)
		responses = append(responses, response)
	}
}

func TestServer(t *testing.T) {
	cfg := config.Default()

	t.Run("pipelined requests", func(t *testing.T) {
		raw := "GET /a HTTP/1.1\r\n\r\n" +
			"POST /b HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello" +
			"GET /c?x=1 HTTP/1.1\r\nHost: localhost\r\n\r\n"
		responses, _ := serve(t, pathRouter(), cfg, raw)
		require.Len(t, responses, 3)

		for i, path := range []string{"/a", "/b", "/c?x=1"} {
			require.Equal(t, status.OK, responses[i].Code())
			require.Equal(t, path, string(responses[i].Body()))
		}
	})

	t.Run("connection close", func(t *testing.T) {
		raw := "GET /a HTTP/1.1\r\nConnection: close\r\n\r\n" +
			"GET /b HTTP/1.1\r\n\r\n"
		responses, _ := serve(t, pathRouter(), cfg, raw)
		require.Len(t, responses, 1)
		require.Equal(t, "/a", string(responses[0].Body()))
		require.Equal(t, "close", responses[0].Headers().Value("Connection"))
	})

	t.Run("kept alive", func(t *testing.T) {
		responses, _ := serve(t, pathRouter(), cfg, "GET /a HTTP/1.1\r\n\r\n")
		require.Len(t, responses, 1)
		require.False(t, responses[0].Headers().Has("Connection"))
	})

	t.Run("malformed request", func(t *testing.T) {
		raw := "GET /a HTTP/1.1\r\n\r\n" +
			"GET /b HTTP/1.0\r\n\r\n" +
			"GET /c HTTP/1.1\r\n\r\n"
		responses, _ := serve(t, pathRouter(), cfg, raw)
		require.Len(t, responses, 2)
		require.Equal(t, status.OK, responses[0].Code())
		require.Equal(t, status.BadRequest, responses[1].Code())
		require.Equal(t, "close", responses[1].Headers().Value("Connection"))
	})

	t.Run("method not allowed", func(t *testing.T) {
		responses, _ := serve(t, pathRouter(), cfg, "PUT / HTTP/1.1\r\n\r\n")
		require.Len(t, responses, 1)
		require.Equal(t, status.MethodNotAllowed, responses[0].Code())
	})

	t.Run("head too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Head.MaxSize = 32
		raw := "GET / HTTP/1.1\r\nX-Padding: " + strings.Repeat("a", 64) + "\r\n\r\n"
		responses, _ := serve(t, pathRouter(), cfg, raw)
		require.Len(t, responses, 1)
		require.Equal(t, status.BadRequest, responses[0].Code())
		require.Contains(t, string(responses[0].Body()), transport.ErrHeadTooLarge.Error())
		require.Equal(t, "close", responses[0].Headers().Value("Connection"))

		r, err := inbuilt.New(fstest.MapFS{
			"msgbody/400.txt": {Data: []byte("Bad request\n")},
		}, cfg).Build()
		require.NoError(t, err)

		responses, _ = serve(t, r, cfg, raw)
		require.Len(t, responses, 1)
		require.Equal(t, status.BadRequest, responses[0].Code())
		require.Equal(t, "Bad request\n", string(responses[0].Body()))
	})

	t.Run("peer closes mid-request", func(t *testing.T) {
		responses, conn := serve(t, pathRouter(), cfg, "GET / HTTP/1.1\r\n")
		require.Empty(t, responses)
		require.Empty(t, conn.Written())
	})

	t.Run("router defect", func(t *testing.T) {
		r := simple.New(func(*http.Request) *http.Response {
			return nil
		}, func(error) *http.Response {
			return nil
		})

		responses, _ := serve(t, r, cfg, "GET / HTTP/1.1\r\n\r\nGET / HTTP/1.1\r\n\r\n")
		require.Empty(t, responses)
	})
}

func TestCloseRequested(t *testing.T) {
	for value, want := range map[string]bool{
		"close":      true,
		"Close":      true,
		"keep-alive": false,
	} {
		request, err := http.Get("/").Header("Connection", value).Build()
		require.NoError(t, err)
		require.Equal(t, want, closeRequested(request), value)
	}

	request, err := http.Get("/").Build()
	require.NoError(t, err)
	require.False(t, closeRequested(request))
}

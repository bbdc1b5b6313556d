package http

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/status"
	"github.com/indigo-web/tinyhttp/internal/protocol/http1"
	"github.com/indigo-web/tinyhttp/router"
	"github.com/indigo-web/tinyhttp/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Server runs the receive-dispatch-send loop over a single connection. It holds no
// per-connection state, so a single instance serves every worker.
type Server struct {
	router router.Router
	cfg    *config.Config
	logger zerolog.Logger
}

func NewServer(r router.Router, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		router: r,
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves the connection until the peer closes it, an I/O error occurs or the
// connection must be closed for any other reason. The connection is closed afterwards.
func (s *Server) Run(conn transport.Conn) {
	logger := s.logger.With().Stringer("remote", conn.Remote()).Logger()
	logger.Debug().Msg("connection opened")

	buff := make([]byte, 0, s.cfg.NET.ReadBufferSize)
	for s.HandleRequest(conn, &buff, logger) {
	}

	_ = conn.Close()
	logger.Debug().Msg("connection closed")
}

// HandleRequest processes exactly one request. It returns false if the connection must
// not be used anymore.
func (s *Server) HandleRequest(conn transport.Conn, buff *[]byte, logger zerolog.Logger) (ok bool) {
	data, err := conn.Receive()
	switch {
	case err == nil:
	case transport.IsFraming(err):
		logger.Info().Err(err).Msg("couldn't frame the request")
		s.write(conn, buff, s.router.OnError(errors.Wrap(status.ErrBadRequest, err.Error())), true, logger)
		return false
	case errors.Is(err, io.EOF):
		return false
	default:
		logger.Debug().Err(err).Msg("receive failed")
		return false
	}

	request, err := http1.ParseRequest(data, s.cfg)
	if err != nil {
		logger.Info().
			Err(err).
			Str("size", humanize.Bytes(uint64(len(data)))).
			Msg("malformed request")
		// the framing can't be trusted anymore
		s.write(conn, buff, s.router.OnError(err), true, logger)
		return false
	}

	response := s.router.OnRequest(request)
	if response == nil {
		logger.Error().
			Stringer("request", request.Line()).
			Msg("BUG: router returned no response")
		return false
	}

	logger.Debug().
		Stringer("method", request.Method()).
		Str("path", request.Path()).
		Uint16("status", uint16(response.Code())).
		Str("size", humanize.Bytes(uint64(len(response.Body())))).
		Msg("served")

	closing := closeRequested(request)
	return s.write(conn, buff, response, closing, logger) && !closing
}

// write sends the response. If the connection is about to be closed, the peer is told
// so by the Connection header.
func (s *Server) write(
	conn transport.Conn, buff *[]byte, response *http.Response, closing bool, logger zerolog.Logger,
) bool {
	if response == nil {
		logger.Error().Msg("BUG: router returned no error response")
		return false
	}

	if closing {
		var err error
		if response, err = response.WithHeader("Connection", "close"); err != nil {
			logger.Error().Err(err).Msg("BUG: couldn't set the Connection header")
			return false
		}
	}

	*buff = http1.AppendResponse((*buff)[:0], response)
	if err := conn.Send(*buff); err != nil {
		logger.Debug().Err(err).Msg("send failed")
		return false
	}

	return true
}

func closeRequested(request *http.Request) bool {
	value, found := request.Headers().Get("Connection")
	return found && strcomp.EqualFold(value, "close")
}

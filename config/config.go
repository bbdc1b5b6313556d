package config

import (
	"time"
)

type (
	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed. Zero disables the timeout,
		// so an idle peer may hold a worker for as long as it wishes.
		ReadTimeout time.Duration `test:"nullable"`
		// WriteTimeout limits a single Send. Zero disables it.
		WriteTimeout time.Duration `test:"nullable"`
		// Workers is the size of the pool serving accepted connections. Once every worker
		// is busy, the accept loop blocks until one is released.
		Workers int
		// DialTimeout limits how long a client may wait for the connection establishment.
		DialTimeout time.Duration
	}

	Head struct {
		// MaxSize limits the request line and headers together, including the terminating
		// empty line.
		MaxSize int
	}

	Body struct {
		// MaxSize is the greatest Content-Length a message may declare.
		MaxSize int
	}

	Headers struct {
		// MaxNumber is the maximal number of header lines a single message may carry.
		MaxNumber int
	}

	Server struct {
		// Name is sent in the Server header of the welcome resource.
		Name string
		// Root is the directory served by default.
		Root string
	}
)

// Config holds settings used across various parts of tinyhttp, mainly restrictions and
// limitations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET     NET
	Head    Head
	Body    Body
	Headers Headers
	Server  Server
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 2 * 1024,
			Workers:        10,
			DialTimeout:    5 * time.Second,
		},
		Head: Head{
			MaxSize: 16 * 1024,
		},
		Body: Body{
			MaxSize: 16 * 1024 * 1024,
		},
		Headers: Headers{
			MaxNumber: 50,
		},
		Server: Server{
			Name: "tinyhttp",
			Root: "./root",
		},
	}
}
